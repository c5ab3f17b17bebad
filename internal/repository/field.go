package repository

// Field is an optional update to a nilable reference. The zero value keeps
// the current value; Set and Clear say what to do explicitly.
type Field[T any] struct {
	set   bool
	value *T
}

func Keep[T any]() Field[T] {
	return Field[T]{}
}

func Set[T any](v T) Field[T] {
	return Field[T]{set: true, value: &v}
}

func Clear[T any]() Field[T] {
	return Field[T]{set: true}
}

// IsSet reports whether the field asks for a change
func (f Field[T]) IsSet() bool {
	return f.set
}

func (f Field[T]) apply(dst **T) {
	if !f.set {
		return
	}
	if f.value == nil {
		*dst = nil
		return
	}
	v := *f.value
	*dst = &v
}
