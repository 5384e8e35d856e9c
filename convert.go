package synptr

import (
	"reflect"
	"unsafe"
)

// derives reports whether a pointer to d may stand in for a pointer to b:
// the types are identical or b is the first, anonymous field of d, at any
// depth. That is the Go shape of a derived type sharing its base's address.
func derives(d, b reflect.Type) bool {
	for {
		if d == b {
			return true
		}
		if d.Kind() != reflect.Struct || d.NumField() == 0 {
			return false
		}
		f := d.Field(0)
		if !f.Anonymous || f.Offset != 0 {
			return false
		}
		d = f.Type
	}
}

// Convertible reports whether a handle to From converts implicitly to a
// handle to To, as Convert does. Swap the arguments for StaticCast.
func Convertible[From, To any]() bool {
	return derives(reflect.TypeFor[From](), reflect.TypeFor[To]())
}

// Convert returns a new handle to the base type B designating the same
// address as p. p's element type must be B or embed B as its first field.
func Convert[B, D any, M any, PM Model[M]](p *Ptr[D, M, PM]) (*Ptr[B, M, PM], error) {
	if !Convertible[D, B]() {
		return nil, ErrNotConvertible
	}
	z := new(Ptr[B, M, PM])
	z.assign(&p.handle)
	return z, nil
}

// ConvertConst is Convert for read-only handles.
func ConvertConst[B, D any, M any, PM Model[M]](p *ConstPtr[D, M, PM]) (*ConstPtr[B, M, PM], error) {
	if !Convertible[D, B]() {
		return nil, ErrNotConvertible
	}
	z := new(ConstPtr[B, M, PM])
	z.assign(&p.handle)
	return z, nil
}

// StaticCast returns a new handle to the derived type D designating the same
// address as p. It is the explicit inverse of Convert; the caller asserts
// that p really designates a D.
func StaticCast[D, B any, M any, PM Model[M]](p *Ptr[B, M, PM]) (*Ptr[D, M, PM], error) {
	if !Convertible[D, B]() {
		return nil, ErrNotConvertible
	}
	z := new(Ptr[D, M, PM])
	z.assign(&p.handle)
	return z, nil
}

// StaticCastConst is StaticCast for read-only handles.
func StaticCastConst[D, B any, M any, PM Model[M]](p *ConstPtr[B, M, PM]) (*ConstPtr[D, M, PM], error) {
	if !Convertible[D, B]() {
		return nil, ErrNotConvertible
	}
	z := new(ConstPtr[D, M, PM])
	z.assign(&p.handle)
	return z, nil
}

func aligned[T any](p unsafe.Pointer) bool {
	var v T
	return uintptr(p)%unsafe.Alignof(v) == 0
}

// FromVoid recovers a typed handle from an untyped one. Null always
// converts; any other address must be aligned for T.
func FromVoid[T any, M any, PM Model[M]](p *VoidPtr[M, PM]) (*Ptr[T, M, PM], error) {
	if !p.IsNil() && !aligned[T](p.Addr()) {
		return nil, ErrMisaligned
	}
	z := new(Ptr[T, M, PM])
	z.assign(&p.handle)
	return z, nil
}

// FromConstVoid is FromVoid for read-only handles.
func FromConstVoid[T any, M any, PM Model[M]](p *ConstVoidPtr[M, PM]) (*ConstPtr[T, M, PM], error) {
	if !p.IsNil() && !aligned[T](p.Addr()) {
		return nil, ErrMisaligned
	}
	z := new(ConstPtr[T, M, PM])
	z.assign(&p.handle)
	return z, nil
}

// PointerTo returns a new handle designating e.
func PointerTo[T any, M any, PM Model[M]](e *T) *Ptr[T, M, PM] {
	return new(Ptr[T, M, PM]).SetNative(e)
}
