package synptr

const (
	// the first bytes of every segment are never handed out
	reservedBytes = 64
	chunkAlign    = 16
)

// Monotonic is a bump allocator over the segments of M's space. It hands out
// chunks front to back, moves to the next segment when the current one cannot
// fit a request and never reclaims a chunk. The registry is initialized on
// first use, and again after it has been cleared, which also rewinds the
// cursor.
//
// A strategy owns its cursor; two strategies over the same space hand out
// overlapping chunks.
type Monotonic[M any, PM Model[M]] struct {
	segment uint64
	offset  uint64
	ready   bool
}

// Store returns the registry behind M.
func (s *Monotonic[M, PM]) Store() SegmentStore {
	var m M
	return PM(&m).Segments()
}

func roundUp(x, r uint64) uint64 {
	if rem := x % r; rem != 0 {
		return x + r - rem
	}
	return x
}

// Allocate returns a handle to n bytes, rounded up to a multiple of 16.
//
// A request that does not fit behind the cursor starts the next segment at
// offset 64; the remainder of the old segment is wasted. The new cursor is not
// checked against the segment size. ErrSegmentsExhausted is returned, with the
// cursor unchanged, once the last segment is used up.
func (s *Monotonic[M, PM]) Allocate(n uint64) (*VoidPtr[M, PM], error) {
	store := s.Store()
	if !s.ready || !store.Ready() {
		if err := store.InitSegments(); err != nil {
			return nil, err
		}
		s.segment = store.FirstSegmentIndex()
		s.offset = reservedBytes
		s.ready = true
	}

	size := roundUp(n, chunkAlign)
	if size < n {
		return nil, ErrSegmentsExhausted
	}
	segment, offset := s.segment, s.offset
	if offset+size > store.MaxSegmentSize() {
		if segment >= store.LastSegmentIndex() {
			return nil, ErrSegmentsExhausted
		}
		segment++
		offset = reservedBytes
	}
	s.segment, s.offset = segment, offset+size

	return new(VoidPtr[M, PM]).SetSegment(segment, offset), nil
}

// Deallocate does nothing; chunks come back only through ResetSegments.
func (s *Monotonic[M, PM]) Deallocate(p *VoidPtr[M, PM], n uint64) {}

// ResetSegments zero fills every segment and rewinds the cursor to the
// first one.
func (s *Monotonic[M, PM]) ResetSegments() {
	store := s.Store()
	store.ResetSegments()
	s.segment = store.FirstSegmentIndex()
	s.offset = reservedBytes
}

// SwapSegments relocates every segment, see Registry.SwapSegments.
func (s *Monotonic[M, PM]) SwapSegments() {
	s.Store().SwapSegments()
}

func (s *Monotonic[M, PM]) MaxSize() uint64 {
	return s.Store().MaxSegmentSize()
}

// Cursor reports where the next chunk would start. It is zero before the
// first allocation.
func (s *Monotonic[M, PM]) Cursor() (segment, offset uint64) {
	return s.segment, s.offset
}
