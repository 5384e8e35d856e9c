package synptr

import "unsafe"

// SegmentAddr is a segment:offset model kept in two machine words with no
// masking. The zero pair is null.
type SegmentAddr[S Space] struct {
	offset  uintptr
	segment uintptr
}

func (a *SegmentAddr[S]) Segment() uint64 {
	return uint64(a.segment)
}

func (a *SegmentAddr[S]) Offset() uint64 {
	return uint64(a.offset)
}

func (a *SegmentAddr[S]) Address() unsafe.Pointer {
	return resolve(segmentsOf[S](), uint64(a.segment), uint64(a.offset))
}

func (a *SegmentAddr[S]) IsNull() bool {
	return a.segment == 0 && a.offset == 0
}

func (a *SegmentAddr[S]) SetNull() {
	a.segment, a.offset = 0, 0
}

func (a *SegmentAddr[S]) SetSegment(segment, offset uint64) {
	a.segment, a.offset = uintptr(segment), uintptr(offset)
}

func (a *SegmentAddr[S]) AssignFrom(p unsafe.Pointer) {
	segment, offset := assignFrom(segmentsOf[S](), p)
	a.segment, a.offset = uintptr(segment), uintptr(offset)
}

func (a *SegmentAddr[S]) Assign(src *SegmentAddr[S]) {
	*a = *src
}

func (a *SegmentAddr[S]) Equal(other *SegmentAddr[S]) bool {
	return a.Address() == other.Address()
}

func (a *SegmentAddr[S]) Less(other *SegmentAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) < 0
}

func (a *SegmentAddr[S]) Greater(other *SegmentAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) > 0
}

func (a *SegmentAddr[S]) Increment(delta int64) {
	a.offset += uintptr(delta)
}

func (a *SegmentAddr[S]) Decrement(delta int64) {
	a.offset -= uintptr(delta)
}

func (a *SegmentAddr[S]) Segments() SegmentStore {
	return segmentsOf[S]()
}

// WideAddr is the 128-bit segment:offset model: two uint64 fields on every
// platform, sized for address spaces wider than one machine word. The zero
// pair is null.
type WideAddr[S Space] struct {
	offset  uint64
	segment uint64
}

func (a *WideAddr[S]) Segment() uint64 {
	return a.segment
}

func (a *WideAddr[S]) Offset() uint64 {
	return a.offset
}

func (a *WideAddr[S]) Address() unsafe.Pointer {
	return resolve(segmentsOf[S](), a.segment, a.offset)
}

func (a *WideAddr[S]) IsNull() bool {
	return a.segment == 0 && a.offset == 0
}

func (a *WideAddr[S]) SetNull() {
	a.segment, a.offset = 0, 0
}

func (a *WideAddr[S]) SetSegment(segment, offset uint64) {
	a.segment, a.offset = segment, offset
}

func (a *WideAddr[S]) AssignFrom(p unsafe.Pointer) {
	a.segment, a.offset = assignFrom(segmentsOf[S](), p)
}

func (a *WideAddr[S]) Assign(src *WideAddr[S]) {
	*a = *src
}

func (a *WideAddr[S]) Equal(other *WideAddr[S]) bool {
	return a.Address() == other.Address()
}

func (a *WideAddr[S]) Less(other *WideAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) < 0
}

func (a *WideAddr[S]) Greater(other *WideAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) > 0
}

func (a *WideAddr[S]) Increment(delta int64) {
	a.offset += uint64(delta)
}

func (a *WideAddr[S]) Decrement(delta int64) {
	a.offset -= uint64(delta)
}

func (a *WideAddr[S]) Segments() SegmentStore {
	return segmentsOf[S]()
}
