package synptr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape struct {
	ID uint32
}

type circle struct {
	shape
	Radius uint32
}

type ring struct {
	circle
	Inner uint32
}

// embeds shape, but not first
type label struct {
	Width uint32
	shape
}

type other struct {
	ID uint32
}

func TestConvertible(t *testing.T) {
	cases := []struct {
		name string
		got  bool
		want bool
	}{
		{"same", Convertible[shape, shape](), true},
		{"derived to base", Convertible[circle, shape](), true},
		{"two levels", Convertible[ring, shape](), true},
		{"one level of two", Convertible[ring, circle](), true},
		{"base to derived", Convertible[shape, circle](), false},
		{"not first field", Convertible[label, shape](), false},
		{"same layout, unrelated", Convertible[other, shape](), false},
		{"scalar", Convertible[uint32, shape](), false},
		{"scalar same", Convertible[int, int](), true},
		{"scalar different", Convertible[int, int64](), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestConvert(t *testing.T) {
	setupSegments(t)
	r := (*ring)(unsafe.Add(testRegistry.SegmentAddress(2), 256))
	r.ID, r.Radius, r.Inner = 1, 2, 3

	p := new(PackedPtr[ring, testSpace]).SetNative(r)

	s, err := Convert[shape](p)
	require.NoError(t, err)
	assert.Equal(t, p.Addr(), s.Addr())
	assert.Equal(t, uint32(1), s.Load().ID)

	c, err := Convert[circle](p)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), c.Load().Radius)

	same, err := Convert[ring](p)
	require.NoError(t, err)
	assert.True(t, same.Equal(p))

	_, err = Convert[other](p)
	assert.ErrorIs(t, err, ErrNotConvertible)

	cs, err := ConvertConst[shape](p.Const())
	require.NoError(t, err)
	assert.Equal(t, uint32(1), cs.Load().ID)
	_, err = ConvertConst[label](p.Const())
	assert.ErrorIs(t, err, ErrNotConvertible)
}

func TestStaticCast(t *testing.T) {
	setupSegments(t)
	r := (*ring)(unsafe.Add(testRegistry.SegmentAddress(2), 256))
	r.Inner = 7

	base, err := Convert[shape](new(SegmentPtr[ring, testSpace]).SetNative(r))
	require.NoError(t, err)

	back, err := StaticCast[ring](base)
	require.NoError(t, err)
	assert.Same(t, r, back.Elem())
	assert.Equal(t, uint32(7), back.Load().Inner)

	_, err = StaticCast[label](base)
	assert.ErrorIs(t, err, ErrNotConvertible)
	_, err = StaticCast[other](base)
	assert.ErrorIs(t, err, ErrNotConvertible)

	cback, err := StaticCastConst[circle](base.Const())
	require.NoError(t, err)
	assert.Equal(t, base.Addr(), cback.Addr())
	_, err = StaticCastConst[other](base.Const())
	assert.ErrorIs(t, err, ErrNotConvertible)
}

func TestFromVoid(t *testing.T) {
	setupSegments(t)
	p := new(WidePtr[uint64, testSpace]).SetSegment(2, 64)
	p.Store(99)

	v := p.Void()
	q, err := FromVoid[uint64](v)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), q.Load())

	// void handles carry no element size, recover at any byte address
	odd := new(VoidPtr[WideAddr[testSpace], *WideAddr[testSpace]]).SetSegment(2, 65)
	_, err = FromVoid[uint64](odd)
	assert.ErrorIs(t, err, ErrMisaligned)
	b, err := FromVoid[byte](odd)
	require.NoError(t, err)
	assert.Equal(t, odd.Addr(), b.Addr())

	nilv := new(VoidPtr[WideAddr[testSpace], *WideAddr[testSpace]])
	n, err := FromVoid[uint64](nilv)
	require.NoError(t, err)
	assert.True(t, n.IsNil())

	cq, err := FromConstVoid[uint64](v.Const())
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cq.Load())
	_, err = FromConstVoid[uint32](odd.Const())
	assert.ErrorIs(t, err, ErrMisaligned)
}
