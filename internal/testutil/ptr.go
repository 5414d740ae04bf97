package testutil

import "github.com/runoshun/ticketsync/internal/domain"

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// Record builds a record from alternating keys and values.
func Record(kv ...any) *domain.Record {
	r := domain.NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}
