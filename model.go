package synptr

import "unsafe"

// Model is satisfied by the pointer type of an addressing model M. A model
// encodes where a logical address lives and resolves it to a physical address
// on every call to Address; nothing is cached.
//
// Equal, Less and Greater order models by Address, so synthetic and native
// pointers into the same memory compare identically. IsNull only checks the
// reserved null encoding.
type Model[M any] interface {
	*M

	Address() unsafe.Pointer
	IsNull() bool
	SetNull()
	// SetSegment encodes offset bytes into segment.
	SetSegment(segment, offset uint64)
	// AssignFrom encodes a native address, see assignFrom.
	AssignFrom(p unsafe.Pointer)
	// Assign copies src into the receiver.
	Assign(src *M)
	Equal(other *M) bool
	Less(other *M) bool
	Greater(other *M) bool
	// Increment and Decrement move the offset component by delta bytes.
	Increment(delta int64)
	Decrement(delta int64)
	Segments() SegmentStore
}

// assignFrom resolves p against the live segments of store. A native
// address outside every segment falls back to segment 0 with the raw address
// as offset, which resolve maps straight back to p.
func assignFrom(store SegmentStore, p unsafe.Pointer) (segment, offset uint64) {
	if segment, offset, ok := store.Locate(p); ok {
		return segment, offset
	}
	return 0, uint64(uintptr(p))
}

// resolve turns an encoded pair back into an address. Segment 0 is the
// fallback encoding and carries the raw address as offset.
//
// The fallback rebuilds a pointer from an integer with no originating
// pointer, which checkptr would reject when the target lives on the Go heap.
//
//go:nocheckptr
func resolve(table SegmentTable, segment, offset uint64) unsafe.Pointer {
	if segment == 0 {
		addr := uintptr(offset)
		return unsafe.Pointer(addr)
	}
	return unsafe.Add(table.SegmentAddress(segment), offset)
}

func compareAddress(a, b unsafe.Pointer) int {
	switch {
	case uintptr(a) < uintptr(b):
		return -1
	case uintptr(a) > uintptr(b):
		return 1
	}
	return 0
}

// escapes forces x onto the heap. Handles that encode their own location
// must not live on a goroutine stack, which the runtime may move.
func escapes(x any) {
	if escapeSink.b {
		escapeSink.x = x
	}
}

var escapeSink struct {
	b bool
	x any
}
