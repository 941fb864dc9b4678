// Package request decodes and validates JSON request bodies.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrEmptyBody is returned by DecodeJSON when the body has no content.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrTrailingData is returned by DecodeJSON when anything but
	// whitespace follows the first JSON value.
	ErrTrailingData = errors.New("request body must contain a single JSON value")
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves every request.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names ("first_name", not "FirstName").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// DecodeJSON decodes the request body into dst.
// Unknown fields are ignored.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return err
	}

	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// Validate checks the validate:"..." tags on v. A failure is returned as
// validator.ValidationErrors.
func Validate(v any) error {
	return validate.Struct(v)
}
