package synptr

import "unsafe"

// WrapperAddr stores the native address itself. It is the reference model:
// it never consults the registry when resolving, so it does not follow a
// relocated segment. The address is kept as a pointer, so a target on the
// Go heap stays reachable.
type WrapperAddr[S Space] struct {
	addr unsafe.Pointer
}

func (a *WrapperAddr[S]) Address() unsafe.Pointer {
	return a.addr
}

func (a *WrapperAddr[S]) IsNull() bool {
	return a.addr == nil
}

func (a *WrapperAddr[S]) SetNull() {
	a.addr = nil
}

func (a *WrapperAddr[S]) SetSegment(segment, offset uint64) {
	a.addr = unsafe.Add(segmentsOf[S]().SegmentAddress(segment), offset)
}

func (a *WrapperAddr[S]) AssignFrom(p unsafe.Pointer) {
	a.addr = p
}

func (a *WrapperAddr[S]) Assign(src *WrapperAddr[S]) {
	a.addr = src.addr
}

func (a *WrapperAddr[S]) Equal(other *WrapperAddr[S]) bool {
	return a.addr == other.addr
}

func (a *WrapperAddr[S]) Less(other *WrapperAddr[S]) bool {
	return compareAddress(a.addr, other.addr) < 0
}

func (a *WrapperAddr[S]) Greater(other *WrapperAddr[S]) bool {
	return compareAddress(a.addr, other.addr) > 0
}

func (a *WrapperAddr[S]) Increment(delta int64) {
	a.addr = unsafe.Add(a.addr, delta)
}

func (a *WrapperAddr[S]) Decrement(delta int64) {
	a.addr = unsafe.Add(a.addr, -delta)
}

func (a *WrapperAddr[S]) Segments() SegmentStore {
	return segmentsOf[S]()
}
