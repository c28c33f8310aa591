// Package ptr has helpers for the optional fields of catalog records,
// which are modelled as pointers.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Clone returns a pointer to a copy of *p, or nil when p is nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
