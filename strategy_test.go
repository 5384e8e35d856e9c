package synptr

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	largeRegistry = MustNewRegistry(&Config{MemoryType: MMAP, MaxSegments: 2, MaxSegmentSize: 128 * MB})
	smallRegistry = MustNewRegistry(&Config{MaxSegments: 2, MaxSegmentSize: KB})
)

type largeSpace struct{}

func (largeSpace) Segments() SegmentStore { return largeRegistry }

type smallSpace struct{}

func (smallSpace) Segments() SegmentStore { return smallRegistry }

type (
	largeStrategy = Monotonic[PackedAddr[largeSpace], *PackedAddr[largeSpace]]
	smallStrategy = Monotonic[SegmentAddr[smallSpace], *SegmentAddr[smallSpace]]
)

func TestMonotonic_BumpScenario(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, largeRegistry.ClearSegments())
	})
	const size = 128 * MB

	s := &largeStrategy{}
	assert.Equal(t, uint64(size), s.MaxSize())
	assert.False(t, largeRegistry.Ready())

	p, err := s.Allocate(100)
	require.NoError(t, err)
	assert.True(t, largeRegistry.Ready())
	assert.Equal(t, uint64(2), p.Model().Segment())
	assert.Equal(t, uint64(64), p.Model().Offset())
	segment, offset := s.Cursor()
	assert.Equal(t, uint64(2), segment)
	assert.Equal(t, uint64(176), offset)

	q, err := s.Allocate(size)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), q.Model().Segment())
	assert.Equal(t, uint64(64), q.Model().Offset())
	assert.Equal(t, unsafe.Add(largeRegistry.SegmentAddress(3), 64), q.Addr())
	segment, offset = s.Cursor()
	assert.Equal(t, uint64(3), segment)
	assert.Equal(t, uint64(64+size), offset)

	// nothing fits behind the last segment
	_, err = s.Allocate(16)
	assert.ErrorIs(t, err, ErrSegmentsExhausted)
	segment, offset = s.Cursor()
	assert.Equal(t, uint64(3), segment)
	assert.Equal(t, uint64(64+size), offset)
}

func TestMonotonic_Allocate(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, smallRegistry.ClearSegments())
	})

	s := &smallStrategy{}
	segment, offset := s.Cursor()
	assert.Zero(t, segment)
	assert.Zero(t, offset)

	var prev *VoidPtr[SegmentAddr[smallSpace], *SegmentAddr[smallSpace]]
	for _, n := range []uint64{1, 15, 16, 17, 0, 33} {
		p, err := s.Allocate(n)
		require.NoError(t, err)
		assert.Zero(t, uintptr(p.Addr())%16)
		if prev != nil {
			assert.True(t, prev.Less(p) || n == 0 || prev.Equal(p))
		}
		prev = p
	}
	// 64 + 16 + 16 + 16 + 32 + 0 + 48
	_, offset = s.Cursor()
	assert.Equal(t, uint64(192), offset)

	// a chunk of exactly the rest of the segment still fits
	p, err := s.Allocate(KB - 192)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), p.Model().Segment())
	assert.Equal(t, uint64(192), p.Model().Offset())
	segment, offset = s.Cursor()
	assert.Equal(t, uint64(2), segment)
	assert.Equal(t, uint64(KB), offset)

	p, err = s.Allocate(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.Model().Segment())
	assert.Equal(t, uint64(64), p.Model().Offset())
}

func TestMonotonic_ResetSegments(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, smallRegistry.ClearSegments())
	})

	s := &smallStrategy{}
	p, err := s.Allocate(900)
	require.NoError(t, err)
	*(*byte)(p.Addr()) = 0xff
	_, err = s.Allocate(900)
	require.NoError(t, err)

	s.ResetSegments()
	segment, offset := s.Cursor()
	assert.Equal(t, uint64(2), segment)
	assert.Equal(t, uint64(64), offset)
	assert.Equal(t, byte(0), *(*byte)(p.Addr()))

	q, err := s.Allocate(8)
	require.NoError(t, err)
	assert.True(t, q.Equal(p))
}

func TestMonotonic_SwapSegments(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, smallRegistry.ClearSegments())
	})

	s := &smallStrategy{}
	v, err := s.Allocate(8)
	require.NoError(t, err)
	p, err := FromVoid[uint64](v)
	require.NoError(t, err)
	p.Store(12345)
	before := p.Addr()

	s.SwapSegments()
	assert.NotEqual(t, before, p.Addr())
	assert.Equal(t, uint64(12345), p.Load())
}

func TestMonotonic_Deallocate(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, smallRegistry.ClearSegments())
	})

	s := &smallStrategy{}
	p, err := s.Allocate(32)
	require.NoError(t, err)
	_, before := s.Cursor()
	s.Deallocate(p, 32)
	_, after := s.Cursor()
	assert.Equal(t, before, after)
}

func TestMonotonic_Store(t *testing.T) {
	assert.Same(t, largeRegistry, (&largeStrategy{}).Store())
	assert.Same(t, smallRegistry, (&smallStrategy{}).Store())
}

func TestMonotonic_AllocateAfterClear(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, smallRegistry.ClearSegments())
	})

	s := &smallStrategy{}
	_, err := s.Allocate(16)
	require.NoError(t, err)
	_, err = s.Allocate(512)
	require.NoError(t, err)

	require.NoError(t, smallRegistry.ClearSegments())
	assert.False(t, smallRegistry.Ready())

	// the cleared registry comes back and the cursor starts over
	p, err := s.Allocate(16)
	require.NoError(t, err)
	assert.True(t, smallRegistry.Ready())
	assert.Equal(t, uint64(2), p.Model().Segment())
	assert.Equal(t, uint64(64), p.Model().Offset())
	assert.Equal(t, unsafe.Add(smallRegistry.SegmentAddress(2), 64), p.Addr())

	*(*uint64)(p.Addr()) = 7
	assert.Equal(t, uint64(7), *(*uint64)(unsafe.Add(smallRegistry.SegmentAddress(2), 64)))
}

func TestMonotonic_AllocateOverflow(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, smallRegistry.ClearSegments())
	})

	s := &smallStrategy{}
	_, err := s.Allocate(math.MaxUint64)
	assert.ErrorIs(t, err, ErrSegmentsExhausted)
	segment, offset := s.Cursor()
	assert.Equal(t, uint64(2), segment)
	assert.Equal(t, uint64(64), offset)
}
