package synptr

import "unsafe"

const (
	offsetMask   = 0x0000_FFFF_FFFF_FFFF
	segmentShift = 48
)

// PackAddress lays segment and offset out in one word: the low 48 bits hold
// the offset, the high 16 bits the segment id.
func PackAddress(segment, offset uint64) uint64 {
	return segment<<segmentShift | offset&offsetMask
}

// UnpackAddress is the inverse of PackAddress.
func UnpackAddress(bits uint64) (segment, offset uint64) {
	return bits >> segmentShift, bits & offsetMask
}

// PackedAddr is a segment:offset model packed into a single uint64. The
// all-zero word, segment 0 offset 0, is null; segment 0 is never allocated so
// no resolvable address encodes to it.
//
// A native address outside every segment is kept whole, which assumes the
// platform uses at most 48 address bits.
type PackedAddr[S Space] struct {
	bits uint64
}

func (a *PackedAddr[S]) Bits() uint64 {
	return a.bits
}

func (a *PackedAddr[S]) Segment() uint64 {
	return a.bits >> segmentShift
}

func (a *PackedAddr[S]) Offset() uint64 {
	return a.bits & offsetMask
}

func (a *PackedAddr[S]) Address() unsafe.Pointer {
	segment, offset := UnpackAddress(a.bits)
	return resolve(segmentsOf[S](), segment, offset)
}

func (a *PackedAddr[S]) IsNull() bool {
	return a.bits == 0
}

func (a *PackedAddr[S]) SetNull() {
	a.bits = 0
}

func (a *PackedAddr[S]) SetSegment(segment, offset uint64) {
	a.bits = PackAddress(segment, offset)
}

func (a *PackedAddr[S]) AssignFrom(p unsafe.Pointer) {
	segment, offset := assignFrom(segmentsOf[S](), p)
	if segment == 0 {
		a.bits = offset
		return
	}
	a.bits = PackAddress(segment, offset)
}

func (a *PackedAddr[S]) Assign(src *PackedAddr[S]) {
	a.bits = src.bits
}

func (a *PackedAddr[S]) Equal(other *PackedAddr[S]) bool {
	return a.Address() == other.Address()
}

func (a *PackedAddr[S]) Less(other *PackedAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) < 0
}

func (a *PackedAddr[S]) Greater(other *PackedAddr[S]) bool {
	return compareAddress(a.Address(), other.Address()) > 0
}

// Increment and Decrement wrap within the 48 offset bits and leave the
// segment id untouched.
func (a *PackedAddr[S]) Increment(delta int64) {
	a.bits = a.bits&^offsetMask | (a.bits+uint64(delta))&offsetMask
}

func (a *PackedAddr[S]) Decrement(delta int64) {
	a.bits = a.bits&^offsetMask | (a.bits-uint64(delta))&offsetMask
}

func (a *PackedAddr[S]) Segments() SegmentStore {
	return segmentsOf[S]()
}
