// Package redis implements storage.Storage on top of a Redis server.
//
// Key layout (every key carries the configured prefix):
//
//	student:{id}               string  JSON-encoded types.Student
//	class:{id}                 string  JSON-encoded types.ClassInfo
//	registration:{cid}:order   list    student ids in registration order
//	registration:{cid}:members set     same ids, for O(1) duplicate checks
//
// Single-key operations rely on SET NX / SET XX / DEL. Register runs as a
// Lua script so its checks and both writes happen atomically.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
)

const (
	studentPrefix      = "student:"
	classPrefix        = "class:"
	registrationPrefix = "registration:"
)

// Options configures the connection.
type Options struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key, so several deployments (or test runs)
	// can share one Redis database.
	Prefix string
}

// Redis is the storage.Storage backed by a go-redis client.
type Redis struct {
	Client *redis.Client
	prefix string
}

// registerScript returns 1 on success, 0 if already registered, -1 for an
// unknown student and -2 for an unknown class.
var registerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
if redis.call('EXISTS', KEYS[2]) == 0 then return -2 end
if redis.call('SADD', KEYS[3], ARGV[1]) == 0 then return 0 end
redis.call('RPUSH', KEYS[4], ARGV[1])
return 1
`)

// New connects to Redis and verifies the connection with a PING.
func New(ctx context.Context, opts Options) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis.New: ping %s: %w", opts.Addr, err)
	}

	return &Redis{Client: client, prefix: opts.Prefix}, nil
}

func (r *Redis) studentKey(id string) string { return r.prefix + studentPrefix + id }
func (r *Redis) classKey(id string) string   { return r.prefix + classPrefix + id }

func (r *Redis) registrationKeys(classID string) (order, members string) {
	base := r.prefix + registrationPrefix + classID
	return base + ":order", base + ":members"
}

// --- Students ---

func (r *Redis) AddStudent(ctx context.Context, id string, student types.Student) error {
	return r.setNX(ctx, r.studentKey(id), student, storage.EntityStudent, id)
}

func (r *Redis) UpdateStudent(ctx context.Context, id string, student types.Student) error {
	return r.setXX(ctx, r.studentKey(id), student, storage.EntityStudent, id)
}

func (r *Redis) DeleteStudent(ctx context.Context, id string) error {
	return r.del(ctx, r.studentKey(id), storage.EntityStudent, id)
}

func (r *Redis) GetStudent(ctx context.Context, id string) (types.Student, error) {
	var student types.Student
	err := r.get(ctx, r.studentKey(id), &student, storage.EntityStudent, id)
	return student, err
}

func (r *Redis) ListStudents(ctx context.Context) ([]types.StudentEntry, error) {
	ids, values, err := r.scanRecords(ctx, r.prefix+studentPrefix)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: %w", err)
	}

	entries := make([]types.StudentEntry, 0, len(ids))
	for i, id := range ids {
		entry := types.StudentEntry{ID: id}
		if err := json.Unmarshal(values[i], &entry.Student); err != nil {
			return nil, fmt.Errorf("ListStudents: decode %q: %w", id, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// --- Classes ---

func (r *Redis) AddClass(ctx context.Context, id string, class types.ClassInfo) error {
	return r.setNX(ctx, r.classKey(id), class, storage.EntityClass, id)
}

func (r *Redis) UpdateClass(ctx context.Context, id string, class types.ClassInfo) error {
	return r.setXX(ctx, r.classKey(id), class, storage.EntityClass, id)
}

func (r *Redis) DeleteClass(ctx context.Context, id string) error {
	return r.del(ctx, r.classKey(id), storage.EntityClass, id)
}

func (r *Redis) GetClass(ctx context.Context, id string) (types.ClassInfo, error) {
	var class types.ClassInfo
	err := r.get(ctx, r.classKey(id), &class, storage.EntityClass, id)
	return class, err
}

func (r *Redis) ListClasses(ctx context.Context) ([]types.ClassEntry, error) {
	ids, values, err := r.scanRecords(ctx, r.prefix+classPrefix)
	if err != nil {
		return nil, fmt.Errorf("ListClasses: %w", err)
	}

	entries := make([]types.ClassEntry, 0, len(ids))
	for i, id := range ids {
		entry := types.ClassEntry{ID: id}
		if err := json.Unmarshal(values[i], &entry.ClassInfo); err != nil {
			return nil, fmt.Errorf("ListClasses: decode %q: %w", id, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// --- Registrations ---

func (r *Redis) Register(ctx context.Context, studentID, classID string) error {
	order, members := r.registrationKeys(classID)
	keys := []string{r.studentKey(studentID), r.classKey(classID), members, order}

	code, err := registerScript.Run(ctx, r.Client, keys, studentID).Int()
	if err != nil {
		return fmt.Errorf("Register: %w", err)
	}

	switch code {
	case 1:
		return nil
	case 0:
		return storage.AlreadyRegistered(studentID, classID)
	case -1:
		return storage.NotFound(storage.EntityStudent, studentID)
	case -2:
		return storage.NotFound(storage.EntityClass, classID)
	default:
		return fmt.Errorf("Register: unexpected script result %d", code)
	}
}

func (r *Redis) ClassStudents(ctx context.Context, classID string) ([]types.Student, error) {
	order, _ := r.registrationKeys(classID)

	ids, err := r.Client.LRange(ctx, order, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("ClassStudents: lrange: %w", err)
	}

	students := make([]types.Student, 0, len(ids))
	if len(ids) == 0 {
		return students, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.studentKey(id)
	}

	values, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("ClassStudents: mget: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // student deleted after registering
		}
		var student types.Student
		if err := json.Unmarshal([]byte(raw), &student); err != nil {
			return nil, fmt.Errorf("ClassStudents: decode %q: %w", ids[i], err)
		}
		students = append(students, student)
	}
	return students, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// --- helpers ---

func (r *Redis) setNX(ctx context.Context, key string, record any, kind, id string) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", kind, id, err)
	}

	ok, err := r.Client.SetNX(ctx, key, b, 0).Result()
	if err != nil {
		return fmt.Errorf("set %s %q: %w", kind, id, err)
	}
	if !ok {
		return storage.AlreadyExists(kind, id)
	}
	return nil
}

func (r *Redis) setXX(ctx context.Context, key string, record any, kind, id string) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", kind, id, err)
	}

	ok, err := r.Client.SetXX(ctx, key, b, 0).Result()
	if err != nil {
		return fmt.Errorf("set %s %q: %w", kind, id, err)
	}
	if !ok {
		return storage.NotFound(kind, id)
	}
	return nil
}

func (r *Redis) del(ctx context.Context, key, kind, id string) error {
	n, err := r.Client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, id, err)
	}
	if n == 0 {
		return storage.NotFound(kind, id)
	}
	return nil
}

func (r *Redis) get(ctx context.Context, key string, dst any, kind, id string) error {
	b, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return storage.NotFound(kind, id)
	}
	if err != nil {
		return fmt.Errorf("get %s %q: %w", kind, id, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s %q: %w", kind, id, err)
	}
	return nil
}

// scanRecords returns the ids (sorted) and raw values of every key under
// prefix. Keys that vanish between SCAN and MGET are dropped.
func (r *Redis) scanRecords(ctx context.Context, prefix string) ([]string, [][]byte, error) {
	var keys []string
	iter := r.Client.Scan(ctx, 0, escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil, nil
	}

	sort.Strings(keys)
	values, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("mget: %w", err)
	}

	ids := make([]string, 0, len(keys))
	raws := make([][]byte, 0, len(keys))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		ids = append(ids, strings.TrimPrefix(keys[i], prefix))
		raws = append(raws, []byte(raw))
	}
	return ids, raws, nil
}

// escapeGlob quotes the characters SCAN MATCH treats specially.
func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`).Replace(s)
}
