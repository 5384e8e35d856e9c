package synptr

import (
	"fmt"
	"unsafe"
)

// handle is the state shared by every synthetic pointer kind: one addressing
// model value and nothing else.
type handle[M any, PM Model[M]] struct {
	m M
}

func (h *handle[M, PM]) model() PM {
	return PM(&h.m)
}

// Model returns the addressing model stored in the handle.
func (h *handle[M, PM]) Model() *M {
	return &h.m
}

// IsNil reports whether the handle holds the null encoding.
func (h *handle[M, PM]) IsNil() bool {
	return h.model().IsNull()
}

// Addr resolves the handle to a physical address. The registry is consulted
// on every call.
func (h *handle[M, PM]) Addr() unsafe.Pointer {
	return h.model().Address()
}

func (h *handle[M, PM]) String() string {
	if h.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("%#x", uintptr(h.Addr()))
}

func (h *handle[M, PM]) assign(x *handle[M, PM]) {
	h.model().Assign(&x.m)
}

func (h *handle[M, PM]) cmp(y *handle[M, PM]) int {
	switch {
	case h.model().Less(&y.m):
		return -1
	case h.model().Greater(&y.m):
		return 1
	}
	return 0
}

func (h *handle[M, PM]) advance(bytes int64) {
	if bytes < 0 {
		h.model().Decrement(-bytes)
		return
	}
	h.model().Increment(bytes)
}

// Ptr is a synthetic pointer to a mutable T. It never stores a machine
// address; every access resolves through the addressing model M.
//
// A Ptr is used through a *Ptr obtained from new or from an allocator, and
// is set with the methods below in the style of math/big: z.Set(x),
// z.Add(x, n). Copying a Ptr value is not supported since some models
// encode their own location.
//
// T must not contain Go pointers when it lives in segment memory.
type Ptr[T any, M any, PM Model[M]] struct {
	handle[M, PM]
}

func sizeOf[T any]() int64 {
	var v T
	return int64(unsafe.Sizeof(v))
}

// Set sets z to x and returns z.
func (z *Ptr[T, M, PM]) Set(x *Ptr[T, M, PM]) *Ptr[T, M, PM] {
	z.assign(&x.handle)
	return z
}

// SetNil sets z to null and returns z.
func (z *Ptr[T, M, PM]) SetNil() *Ptr[T, M, PM] {
	z.model().SetNull()
	return z
}

// SetModel sets z to designate what m designates.
func (z *Ptr[T, M, PM]) SetModel(m *M) *Ptr[T, M, PM] {
	z.model().Assign(m)
	return z
}

// SetSegment sets z to offset bytes into segment.
func (z *Ptr[T, M, PM]) SetSegment(segment, offset uint64) *Ptr[T, M, PM] {
	z.model().SetSegment(segment, offset)
	return z
}

// SetNative sets z to designate *p. An address outside every live segment is
// kept in the segment 0 fallback encoding.
func (z *Ptr[T, M, PM]) SetNative(p *T) *Ptr[T, M, PM] {
	z.model().AssignFrom(unsafe.Pointer(p))
	return z
}

// Native returns the designated element as a Go pointer, valid until the
// next relocation of its segment.
func (z *Ptr[T, M, PM]) Native() *T {
	return (*T)(z.Addr())
}

// Elem dereferences z. It does not check for null.
func (z *Ptr[T, M, PM]) Elem() *T {
	return (*T)(z.Addr())
}

// Index returns the element i positions after z.
func (z *Ptr[T, M, PM]) Index(i int) *T {
	return (*T)(unsafe.Add(z.Addr(), int64(i)*sizeOf[T]()))
}

func (z *Ptr[T, M, PM]) Load() T {
	return *z.Elem()
}

func (z *Ptr[T, M, PM]) Store(v T) {
	*z.Elem() = v
}

// Add sets z to x advanced by n elements and returns z.
func (z *Ptr[T, M, PM]) Add(x *Ptr[T, M, PM], n int) *Ptr[T, M, PM] {
	z.Set(x)
	z.advance(int64(n) * sizeOf[T]())
	return z
}

// Sub sets z to x moved back by n elements and returns z.
func (z *Ptr[T, M, PM]) Sub(x *Ptr[T, M, PM], n int) *Ptr[T, M, PM] {
	z.Set(x)
	z.advance(-int64(n) * sizeOf[T]())
	return z
}

// Advance moves z by n elements in place.
func (z *Ptr[T, M, PM]) Advance(n int) *Ptr[T, M, PM] {
	z.advance(int64(n) * sizeOf[T]())
	return z
}

func (z *Ptr[T, M, PM]) Inc() *Ptr[T, M, PM] {
	return z.Advance(1)
}

func (z *Ptr[T, M, PM]) Dec() *Ptr[T, M, PM] {
	return z.Advance(-1)
}

// Diff returns z - y in elements. Zero sized elements are never apart.
func (z *Ptr[T, M, PM]) Diff(y *Ptr[T, M, PM]) int {
	return diff[T](z.Addr(), y.Addr())
}

func diff[T any](a, b unsafe.Pointer) int {
	size := sizeOf[T]()
	if size == 0 {
		return 0
	}
	return int(int64(uintptr(a)-uintptr(b)) / size)
}

// Cmp compares the addresses of z and y and returns -1, 0 or +1.
func (z *Ptr[T, M, PM]) Cmp(y *Ptr[T, M, PM]) int {
	return z.cmp(&y.handle)
}

func (z *Ptr[T, M, PM]) Equal(y *Ptr[T, M, PM]) bool {
	return z.model().Equal(&y.m)
}

func (z *Ptr[T, M, PM]) Less(y *Ptr[T, M, PM]) bool {
	return z.model().Less(&y.m)
}

func (z *Ptr[T, M, PM]) Greater(y *Ptr[T, M, PM]) bool {
	return z.model().Greater(&y.m)
}

// CmpNative compares the address of z with p.
func (z *Ptr[T, M, PM]) CmpNative(p *T) int {
	return compareAddress(z.Addr(), unsafe.Pointer(p))
}

func (z *Ptr[T, M, PM]) EqualNative(p *T) bool {
	return z.CmpNative(p) == 0
}

func (z *Ptr[T, M, PM]) LessNative(p *T) bool {
	return z.CmpNative(p) < 0
}

func (z *Ptr[T, M, PM]) GreaterNative(p *T) bool {
	return z.CmpNative(p) > 0
}

// Const returns a new read-only handle designating the same element.
func (z *Ptr[T, M, PM]) Const() *ConstPtr[T, M, PM] {
	c := new(ConstPtr[T, M, PM])
	c.assign(&z.handle)
	return c
}

// Void returns a new untyped handle designating the same address.
func (z *Ptr[T, M, PM]) Void() *VoidPtr[M, PM] {
	v := new(VoidPtr[M, PM])
	v.assign(&z.handle)
	return v
}

// Handles for each addressing model.
type (
	WrapperPtr[T any, S Space] = Ptr[T, WrapperAddr[S], *WrapperAddr[S]]
	OffsetPtr[T any, S Space]  = Ptr[T, OffsetAddr[S], *OffsetAddr[S]]
	PackedPtr[T any, S Space]  = Ptr[T, PackedAddr[S], *PackedAddr[S]]
	SegmentPtr[T any, S Space] = Ptr[T, SegmentAddr[S], *SegmentAddr[S]]
	WidePtr[T any, S Space]    = Ptr[T, WideAddr[S], *WideAddr[S]]
)
