package synptr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, c *Config) *Registry {
	t.Helper()
	r, err := NewRegistry(c)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, r.ClearSegments())
	})
	return r
}

func TestRegistry_Indexes(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 4, MaxSegmentSize: 4 * KB})

	assert.Equal(t, uint64(2), r.FirstSegmentIndex())
	assert.Equal(t, uint64(5), r.LastSegmentIndex())
	assert.Equal(t, uint64(4), r.MaxSegmentCount())
	assert.Equal(t, uint64(4*KB), r.MaxSegmentSize())
	assert.Nil(t, r.SegmentAddress(0))
	assert.Nil(t, r.SegmentAddress(1))
	assert.Panics(t, func() { r.SegmentAddress(6) })
}

func TestRegistry_AllocateSegment(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 2, MaxSegmentSize: 4 * KB})

	// ignored requests
	require.NoError(t, r.AllocateSegment(0, KB))
	require.NoError(t, r.AllocateSegment(1, KB))
	require.NoError(t, r.AllocateSegment(4, KB))
	require.NoError(t, r.AllocateSegment(2, 8*KB))
	require.NoError(t, r.AllocateSegment(2, 0))
	assert.Nil(t, r.SegmentAddress(2))
	assert.Equal(t, uint64(0), r.SegmentSize(2))

	require.NoError(t, r.AllocateSegment(2, KB))
	base := r.SegmentAddress(2)
	require.NotNil(t, base)
	assert.Equal(t, uint64(KB), r.SegmentSize(2))
	assert.Equal(t, make([]byte, KB), unsafe.Slice((*byte)(base), KB))

	// a live segment is left alone
	require.NoError(t, r.AllocateSegment(2, 2*KB))
	assert.Equal(t, base, r.SegmentAddress(2))
	assert.Equal(t, uint64(KB), r.SegmentSize(2))
}

func TestRegistry_DeallocateSegment(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 2, MaxSegmentSize: 4 * KB})
	require.NoError(t, r.AllocateSegment(3, KB))

	require.NoError(t, r.DeallocateSegment(3))
	assert.Nil(t, r.SegmentAddress(3))
	assert.Equal(t, uint64(0), r.SegmentSize(3))

	require.NoError(t, r.DeallocateSegment(3))
	require.NoError(t, r.DeallocateSegment(100))
}

func TestRegistry_InitSegments(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 3, MaxSegmentSize: 4 * KB})
	assert.False(t, r.Ready())

	require.NoError(t, r.InitSegments())
	assert.True(t, r.Ready())
	bases := map[uint64]unsafe.Pointer{}
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		require.NotNil(t, r.SegmentAddress(i))
		assert.Equal(t, uint64(4*KB), r.SegmentSize(i))
		bases[i] = r.SegmentAddress(i)
	}

	require.NoError(t, r.InitSegments())
	for i, base := range bases {
		assert.Equal(t, base, r.SegmentAddress(i))
	}
}

func TestRegistry_ResetSegments(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 1, MaxSegmentSize: KB})
	require.NoError(t, r.InitSegments())

	buf := unsafe.Slice((*byte)(r.SegmentAddress(2)), KB)
	for i := range buf {
		buf[i] = byte(i)
	}
	r.SwapSegments()
	require.Equal(t, byte(200), unsafe.Slice((*byte)(r.SegmentAddress(2)), KB)[200])

	base := r.SegmentAddress(2)
	r.ResetSegments()
	assert.Equal(t, base, r.SegmentAddress(2))
	assert.Equal(t, make([]byte, KB), unsafe.Slice((*byte)(r.SegmentAddress(2)), KB))
	assert.Equal(t, r.Checksum(2), r.ShadowChecksum(2))
}

func TestRegistry_SwapSegments(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 2, MaxSegmentSize: KB})
	require.NoError(t, r.InitSegments())

	before := r.SegmentAddress(2)
	*(*uint64)(unsafe.Add(before, 128)) = 0xfeedface
	sum := r.Checksum(2)

	r.SwapSegments()
	after := r.SegmentAddress(2)
	assert.NotEqual(t, before, after)
	assert.Equal(t, uint64(0xfeedface), *(*uint64)(unsafe.Add(after, 128)))
	assert.Equal(t, sum, r.Checksum(2))
	assert.Equal(t, sum, r.ShadowChecksum(2))

	// the old buffer is the shadow now and keeps the snapshot
	*(*uint64)(unsafe.Add(after, 128)) = 1
	assert.Equal(t, uint64(0xfeedface), *(*uint64)(unsafe.Add(before, 128)))

	r.SwapSegments()
	assert.Equal(t, before, r.SegmentAddress(2))
	assert.Equal(t, uint64(1), *(*uint64)(unsafe.Add(before, 128)))
}

func TestRegistry_ClearSegments(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 2, MaxSegmentSize: KB})
	require.NoError(t, r.InitSegments())

	require.NoError(t, r.ClearSegments())
	assert.False(t, r.Ready())
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		assert.Nil(t, r.SegmentAddress(i))
		assert.Equal(t, uint64(0), r.SegmentSize(i))
	}
	assert.Empty(t, r.Stats())

	require.NoError(t, r.InitSegments())
	assert.Len(t, r.Stats(), 2)
}

func TestRegistry_Locate(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 2, MaxSegmentSize: KB})
	require.NoError(t, r.InitSegments())

	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		base := r.SegmentAddress(i)
		segment, offset, ok := r.Locate(unsafe.Add(base, 100))
		assert.True(t, ok)
		assert.Equal(t, i, segment)
		assert.Equal(t, uint64(100), offset)

		segment, offset, ok = r.Locate(unsafe.Add(base, KB-1))
		assert.True(t, ok)
		assert.Equal(t, i, segment)
		assert.Equal(t, uint64(KB-1), offset)
	}

	var local int
	_, _, ok := r.Locate(unsafe.Pointer(&local))
	assert.False(t, ok)
	_, _, ok = r.Locate(nil)
	assert.False(t, ok)
}

func TestRegistry_Stats(t *testing.T) {
	r := newTestRegistry(t, &Config{MaxSegments: 2, MaxSegmentSize: KB})
	require.NoError(t, r.AllocateSegment(3, 512))

	stats := r.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, uint64(3), stats[0].Segment)
	assert.Equal(t, uint64(512), stats[0].Size)
	assert.Equal(t, r.Checksum(3), stats[0].Checksum)
	assert.NotEqual(t, stats[0].Base, stats[0].Shadow)
	assert.Equal(t, uint64(0), r.Checksum(2))
}

func TestNewRegistry_InvalidConfig(t *testing.T) {
	for _, c := range []*Config{
		{MemoryType: SHM},
		{MemoryType: MemoryType(9)},
		{MaxSegments: maxSegmentID},
		{MaxSegmentSize: offsetMask + 1},
	} {
		_, err := NewRegistry(c)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestRegistry_Backends(t *testing.T) {
	for _, c := range []*Config{
		{MemoryType: GO},
		{MemoryType: MMAP},
		{MemoryType: MMAP, MemoryKey: t.TempDir() + "/segments"},
	} {
		t.Run(c.MemoryType.String(), func(t *testing.T) {
			c.MaxSegments, c.MaxSegmentSize = 2, 8*KB
			r := newTestRegistry(t, c)
			require.NoError(t, r.InitSegments())

			base := r.SegmentAddress(2)
			*(*uint32)(unsafe.Add(base, 64)) = 1234567
			r.SwapSegments()
			assert.Equal(t, uint32(1234567), *(*uint32)(unsafe.Add(r.SegmentAddress(2), 64)))
		})
	}
}

func TestRegistry_SHM(t *testing.T) {
	r := newTestRegistry(t, &Config{MemoryType: SHM, MemoryKey: "synptr.TestRegistry_SHM", MaxSegments: 1, MaxSegmentSize: 8 * KB})
	if err := r.InitSegments(); err != nil {
		t.Skipf("shared memory unavailable: %v", err)
	}

	*(*uint32)(unsafe.Add(r.SegmentAddress(2), 64)) = 42
	r.SwapSegments()
	assert.Equal(t, uint32(42), *(*uint32)(unsafe.Add(r.SegmentAddress(2), 64)))
}
