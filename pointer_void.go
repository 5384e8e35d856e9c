package synptr

import "unsafe"

// VoidPtr is an untyped synthetic pointer. It can be stored, compared and
// converted, but has no element to dereference and no size to step by; use
// FromVoid to recover a typed handle.
type VoidPtr[M any, PM Model[M]] struct {
	handle[M, PM]
}

func (z *VoidPtr[M, PM]) Set(x *VoidPtr[M, PM]) *VoidPtr[M, PM] {
	z.assign(&x.handle)
	return z
}

func (z *VoidPtr[M, PM]) SetNil() *VoidPtr[M, PM] {
	z.model().SetNull()
	return z
}

func (z *VoidPtr[M, PM]) SetModel(m *M) *VoidPtr[M, PM] {
	z.model().Assign(m)
	return z
}

func (z *VoidPtr[M, PM]) SetSegment(segment, offset uint64) *VoidPtr[M, PM] {
	z.model().SetSegment(segment, offset)
	return z
}

func (z *VoidPtr[M, PM]) SetNative(p unsafe.Pointer) *VoidPtr[M, PM] {
	z.model().AssignFrom(p)
	return z
}

func (z *VoidPtr[M, PM]) Cmp(y *VoidPtr[M, PM]) int {
	return z.cmp(&y.handle)
}

func (z *VoidPtr[M, PM]) Equal(y *VoidPtr[M, PM]) bool {
	return z.model().Equal(&y.m)
}

func (z *VoidPtr[M, PM]) Less(y *VoidPtr[M, PM]) bool {
	return z.model().Less(&y.m)
}

func (z *VoidPtr[M, PM]) Greater(y *VoidPtr[M, PM]) bool {
	return z.model().Greater(&y.m)
}

func (z *VoidPtr[M, PM]) CmpNative(p unsafe.Pointer) int {
	return compareAddress(z.Addr(), p)
}

func (z *VoidPtr[M, PM]) Const() *ConstVoidPtr[M, PM] {
	c := new(ConstVoidPtr[M, PM])
	c.assign(&z.handle)
	return c
}

// ConstVoidPtr is the read-only form of VoidPtr.
type ConstVoidPtr[M any, PM Model[M]] struct {
	handle[M, PM]
}

func (z *ConstVoidPtr[M, PM]) Set(x *ConstVoidPtr[M, PM]) *ConstVoidPtr[M, PM] {
	z.assign(&x.handle)
	return z
}

func (z *ConstVoidPtr[M, PM]) SetVoid(x *VoidPtr[M, PM]) *ConstVoidPtr[M, PM] {
	z.assign(&x.handle)
	return z
}

func (z *ConstVoidPtr[M, PM]) SetNil() *ConstVoidPtr[M, PM] {
	z.model().SetNull()
	return z
}

func (z *ConstVoidPtr[M, PM]) SetModel(m *M) *ConstVoidPtr[M, PM] {
	z.model().Assign(m)
	return z
}

func (z *ConstVoidPtr[M, PM]) SetNative(p unsafe.Pointer) *ConstVoidPtr[M, PM] {
	z.model().AssignFrom(p)
	return z
}

func (z *ConstVoidPtr[M, PM]) Cmp(y *ConstVoidPtr[M, PM]) int {
	return z.cmp(&y.handle)
}

func (z *ConstVoidPtr[M, PM]) Equal(y *ConstVoidPtr[M, PM]) bool {
	return z.model().Equal(&y.m)
}

func (z *ConstVoidPtr[M, PM]) Less(y *ConstVoidPtr[M, PM]) bool {
	return z.model().Less(&y.m)
}

func (z *ConstVoidPtr[M, PM]) Greater(y *ConstVoidPtr[M, PM]) bool {
	return z.model().Greater(&y.m)
}

func (z *ConstVoidPtr[M, PM]) CmpNative(p unsafe.Pointer) int {
	return compareAddress(z.Addr(), p)
}
