// Package router wires every HTTP route to its handler.
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-api/internal/http/handlers/class"
	"github.com/aanand-mishra/students-api/internal/http/handlers/health"
	"github.com/aanand-mishra/students-api/internal/http/handlers/registration"
	"github.com/aanand-mishra/students-api/internal/http/handlers/student"
	"github.com/aanand-mishra/students-api/internal/http/middleware"
	"github.com/aanand-mishra/students-api/internal/storage"
)

// New returns the application's root handler.
//
// Route table:
//
//	POST   /students/{id}           → add a student
//	PUT    /students/{id}           → replace a student
//	DELETE /students/{id}           → delete a student
//	GET    /students/{id}           → get one student
//	GET    /students                → list all students
//	POST   /classes/{id}            → add a class
//	PUT    /classes/{id}            → replace a class
//	DELETE /classes/{id}            → delete a class
//	GET    /classes/{id}            → get one class
//	GET    /classes                 → list all classes
//	POST   /register/{sid}/{cid}    → register a student to a class
//	GET    /classes/{cid}/students  → students registered to a class
//	GET    /healthz                 → store reachability
func New(store storage.Storage, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /students/{id}", student.Add(store))
	mux.HandleFunc("PUT /students/{id}", student.Update(store))
	mux.HandleFunc("DELETE /students/{id}", student.Delete(store))
	mux.HandleFunc("GET /students/{id}", student.GetByID(store))
	mux.HandleFunc("GET /students", student.GetList(store))

	mux.HandleFunc("POST /classes/{id}", class.Add(store))
	mux.HandleFunc("PUT /classes/{id}", class.Update(store))
	mux.HandleFunc("DELETE /classes/{id}", class.Delete(store))
	mux.HandleFunc("GET /classes/{id}", class.GetByID(store))
	mux.HandleFunc("GET /classes", class.GetList(store))

	mux.HandleFunc("POST /register/{sid}/{cid}", registration.Register(store))
	mux.HandleFunc("GET /classes/{cid}/students", registration.ListStudents(store))

	mux.HandleFunc("GET /healthz", health.Check(store))

	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.TrimSlash(),
	)
}
