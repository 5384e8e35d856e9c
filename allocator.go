package synptr

import "unsafe"

// Heap is the byte level capability an Allocator draws on. *Monotonic
// satisfies it.
type Heap[M any, PM Model[M]] interface {
	Allocate(n uint64) (*VoidPtr[M, PM], error)
	Deallocate(p *VoidPtr[M, PM], n uint64)
	MaxSize() uint64
}

var _ Heap[PackedAddr[DefaultSpace], *PackedAddr[DefaultSpace]] = (*Monotonic[PackedAddr[DefaultSpace], *PackedAddr[DefaultSpace]])(nil)

// Destroyer is implemented by element types that release something when an
// Allocator destroys them.
type Destroyer interface {
	Destroy()
}

// Allocator hands out synthetic pointers to T carved from a Heap. It is the
// only way containers reach segment memory.
type Allocator[T any, M any, PM Model[M]] struct {
	heap Heap[M, PM]
}

func NewAllocator[T any, M any, PM Model[M]](heap Heap[M, PM]) *Allocator[T, M, PM] {
	return &Allocator[T, M, PM]{heap: heap}
}

// AllocatorOf binds T to a monotonic strategy.
func AllocatorOf[T any, M any, PM Model[M]](s *Monotonic[M, PM]) *Allocator[T, M, PM] {
	return NewAllocator[T](Heap[M, PM](s))
}

// Rebind returns an allocator for U sharing a's heap.
func Rebind[U, T any, M any, PM Model[M]](a *Allocator[T, M, PM]) *Allocator[U, M, PM] {
	return &Allocator[U, M, PM]{heap: a.heap}
}

func (a *Allocator[T, M, PM]) Heap() Heap[M, PM] {
	return a.heap
}

// Equal reports whether memory from a may be released through b.
func (a *Allocator[T, M, PM]) Equal(b *Allocator[T, M, PM]) bool {
	return a.heap == b.heap
}

// MaxSize is the largest element count a single Allocate can satisfy.
func (a *Allocator[T, M, PM]) MaxSize() uint64 {
	size := uint64(sizeOf[T]())
	if size == 0 {
		return a.heap.MaxSize()
	}
	return a.heap.MaxSize() / size
}

// Allocate returns uninitialized storage for n elements.
func (a *Allocator[T, M, PM]) Allocate(n int) (*Ptr[T, M, PM], error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	v, err := a.heap.Allocate(uint64(n) * uint64(sizeOf[T]()))
	if err != nil {
		return nil, err
	}
	p := new(Ptr[T, M, PM])
	p.assign(&v.handle)
	return p, nil
}

// AllocateHint is Allocate; the locality hint is ignored.
func (a *Allocator[T, M, PM]) AllocateHint(n int, hint *ConstVoidPtr[M, PM]) (*Ptr[T, M, PM], error) {
	return a.Allocate(n)
}

func (a *Allocator[T, M, PM]) Deallocate(p *Ptr[T, M, PM], n int) {
	a.heap.Deallocate(p.Void(), uint64(n)*uint64(sizeOf[T]()))
}

// Construct zeroes the element at p and runs init on it. A nil init leaves
// the zero value.
func (a *Allocator[T, M, PM]) Construct(p *Ptr[T, M, PM], init func(*T) error) error {
	if p.IsNil() {
		return ErrNilHandle
	}
	e := p.Elem()
	var zero T
	*e = zero
	if init == nil {
		return nil
	}
	return init(e)
}

// Destroy calls Destroy on the element at p when it is a Destroyer, then
// zeroes it.
func (a *Allocator[T, M, PM]) Destroy(p *Ptr[T, M, PM]) {
	if p.IsNil() {
		return
	}
	e := p.Elem()
	if d, ok := any(e).(Destroyer); ok {
		d.Destroy()
	}
	clear(unsafe.Slice((*byte)(unsafe.Pointer(e)), sizeOf[T]()))
}

// New allocates and constructs one element. When init fails the chunk is
// handed back before the error is returned.
func New[T any, M any, PM Model[M]](a *Allocator[T, M, PM], init func(*T) error) (*Ptr[T, M, PM], error) {
	p, err := a.Allocate(1)
	if err != nil {
		return nil, err
	}
	if err = a.Construct(p, init); err != nil {
		a.Deallocate(p, 1)
		return nil, err
	}
	return p, nil
}

// Delete destroys and releases one element.
func Delete[T any, M any, PM Model[M]](a *Allocator[T, M, PM], p *Ptr[T, M, PM]) {
	a.Destroy(p)
	a.Deallocate(p, 1)
}
