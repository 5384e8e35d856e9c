package synptr

import "unsafe"

// ConstPtr is a synthetic pointer to a read-only T. It offers the navigation
// and comparison surface of Ptr but never yields a *T. There is no way back
// to a Ptr.
type ConstPtr[T any, M any, PM Model[M]] struct {
	handle[M, PM]
}

func (z *ConstPtr[T, M, PM]) Set(x *ConstPtr[T, M, PM]) *ConstPtr[T, M, PM] {
	z.assign(&x.handle)
	return z
}

// SetPtr sets z to designate what the mutable handle x designates.
func (z *ConstPtr[T, M, PM]) SetPtr(x *Ptr[T, M, PM]) *ConstPtr[T, M, PM] {
	z.assign(&x.handle)
	return z
}

func (z *ConstPtr[T, M, PM]) SetNil() *ConstPtr[T, M, PM] {
	z.model().SetNull()
	return z
}

func (z *ConstPtr[T, M, PM]) SetModel(m *M) *ConstPtr[T, M, PM] {
	z.model().Assign(m)
	return z
}

func (z *ConstPtr[T, M, PM]) SetSegment(segment, offset uint64) *ConstPtr[T, M, PM] {
	z.model().SetSegment(segment, offset)
	return z
}

func (z *ConstPtr[T, M, PM]) SetNative(p *T) *ConstPtr[T, M, PM] {
	z.model().AssignFrom(unsafe.Pointer(p))
	return z
}

// Load reads the designated element.
func (z *ConstPtr[T, M, PM]) Load() T {
	return *(*T)(z.Addr())
}

// At reads the element i positions after z.
func (z *ConstPtr[T, M, PM]) At(i int) T {
	return *(*T)(unsafe.Add(z.Addr(), int64(i)*sizeOf[T]()))
}

func (z *ConstPtr[T, M, PM]) Add(x *ConstPtr[T, M, PM], n int) *ConstPtr[T, M, PM] {
	z.Set(x)
	z.advance(int64(n) * sizeOf[T]())
	return z
}

func (z *ConstPtr[T, M, PM]) Sub(x *ConstPtr[T, M, PM], n int) *ConstPtr[T, M, PM] {
	z.Set(x)
	z.advance(-int64(n) * sizeOf[T]())
	return z
}

func (z *ConstPtr[T, M, PM]) Advance(n int) *ConstPtr[T, M, PM] {
	z.advance(int64(n) * sizeOf[T]())
	return z
}

func (z *ConstPtr[T, M, PM]) Inc() *ConstPtr[T, M, PM] {
	return z.Advance(1)
}

func (z *ConstPtr[T, M, PM]) Dec() *ConstPtr[T, M, PM] {
	return z.Advance(-1)
}

func (z *ConstPtr[T, M, PM]) Diff(y *ConstPtr[T, M, PM]) int {
	return diff[T](z.Addr(), y.Addr())
}

func (z *ConstPtr[T, M, PM]) Cmp(y *ConstPtr[T, M, PM]) int {
	return z.cmp(&y.handle)
}

func (z *ConstPtr[T, M, PM]) Equal(y *ConstPtr[T, M, PM]) bool {
	return z.model().Equal(&y.m)
}

func (z *ConstPtr[T, M, PM]) Less(y *ConstPtr[T, M, PM]) bool {
	return z.model().Less(&y.m)
}

func (z *ConstPtr[T, M, PM]) Greater(y *ConstPtr[T, M, PM]) bool {
	return z.model().Greater(&y.m)
}

func (z *ConstPtr[T, M, PM]) CmpNative(p *T) int {
	return compareAddress(z.Addr(), unsafe.Pointer(p))
}

func (z *ConstPtr[T, M, PM]) EqualNative(p *T) bool {
	return z.CmpNative(p) == 0
}

func (z *ConstPtr[T, M, PM]) LessNative(p *T) bool {
	return z.CmpNative(p) < 0
}

func (z *ConstPtr[T, M, PM]) GreaterNative(p *T) bool {
	return z.CmpNative(p) > 0
}

// Void returns a new untyped read-only handle at the same address.
func (z *ConstPtr[T, M, PM]) Void() *ConstVoidPtr[M, PM] {
	v := new(ConstVoidPtr[M, PM])
	v.assign(&z.handle)
	return v
}
