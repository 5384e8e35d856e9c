package container

import (
	"testing"

	"github.com/leslie-fei/synptr"
	"github.com/stretchr/testify/assert"
)

var registry = synptr.MustNewRegistry(&synptr.Config{MaxSegments: 4, MaxSegmentSize: 256 * synptr.KB})

type space struct{}

func (space) Segments() synptr.SegmentStore { return registry }

type (
	wrapper = synptr.WrapperAddr[space]
	offset  = synptr.OffsetAddr[space]
	packed  = synptr.PackedAddr[space]
	segment = synptr.SegmentAddr[space]
	wide    = synptr.WideAddr[space]
)

// newAllocator returns an allocator over a fresh strategy; the registry is
// cleared when the test ends.
func newAllocator[T any, M any, PM synptr.Model[M]](t *testing.T) *synptr.Allocator[T, M, PM] {
	t.Cleanup(func() {
		assert.NoError(t, registry.ClearSegments())
	})
	return synptr.AllocatorOf[T](&synptr.Monotonic[M, PM]{})
}
