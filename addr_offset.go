package synptr

import "unsafe"

// nullOffset is never a real delta: a model cannot point one byte past its
// own start.
const nullOffset = 1

// OffsetAddr stores the signed distance from its own location to the target
// (link-relative addressing). It is only meaningful where it lives, so it must
// be copied with Assign, which recomputes the distance for the destination;
// shallow copies are not supported. Models embedded in segment memory stay
// valid when the whole segment is relocated.
//
// The distance is kept biased by nullOffset so that the zero value is null.
type OffsetAddr[S Space] struct {
	biased int64
}

func (a *OffsetAddr[S]) self() uintptr {
	escapes(a)
	return uintptr(unsafe.Pointer(a))
}

func (a *OffsetAddr[S]) delta() int64 {
	return a.biased + nullOffset
}

func (a *OffsetAddr[S]) setDelta(d int64) {
	a.biased = d - nullOffset
}

func (a *OffsetAddr[S]) offsetTo(p unsafe.Pointer) int64 {
	if p == nil {
		return nullOffset
	}
	return int64(uintptr(p) - a.self())
}

// Delta is the distance from the model to its target, nullOffset when null.
func (a *OffsetAddr[S]) Delta() int64 {
	return a.delta()
}

// Address adds the distance to the model's own location. A model on the Go
// heap designating segment memory points across allocations, which checkptr
// cannot follow.
//
//go:nocheckptr
func (a *OffsetAddr[S]) Address() unsafe.Pointer {
	if a.IsNull() {
		return nil
	}
	escapes(a)
	return unsafe.Add(unsafe.Pointer(a), a.delta())
}

func (a *OffsetAddr[S]) IsNull() bool {
	return a.biased == 0
}

func (a *OffsetAddr[S]) SetNull() {
	a.biased = 0
}

func (a *OffsetAddr[S]) SetSegment(segment, offset uint64) {
	base := segmentsOf[S]().SegmentAddress(segment)
	a.setDelta(a.offsetTo(unsafe.Add(base, offset)))
}

func (a *OffsetAddr[S]) AssignFrom(p unsafe.Pointer) {
	a.setDelta(a.offsetTo(p))
}

func (a *OffsetAddr[S]) Assign(src *OffsetAddr[S]) {
	if src.IsNull() {
		a.SetNull()
		return
	}
	a.setDelta(int64(src.self()-a.self()) + src.delta())
}

func (a *OffsetAddr[S]) Equal(other *OffsetAddr[S]) bool {
	return a.Address() == other.Address()
}

func (a *OffsetAddr[S]) Less(other *OffsetAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) < 0
}

func (a *OffsetAddr[S]) Greater(other *OffsetAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) > 0
}

func (a *OffsetAddr[S]) Increment(delta int64) {
	a.biased += delta
}

func (a *OffsetAddr[S]) Decrement(delta int64) {
	a.biased -= delta
}

func (a *OffsetAddr[S]) Segments() SegmentStore {
	return segmentsOf[S]()
}
