package synptr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSegmentSize = 64 * KB

var testRegistry = MustNewRegistry(&Config{MaxSegments: 3, MaxSegmentSize: testSegmentSize})

type testSpace struct{}

func (testSpace) Segments() SegmentStore { return testRegistry }

// setupSegments gives the test a live, zero filled testRegistry.
func setupSegments(t testing.TB) {
	t.Helper()
	require.NoError(t, testRegistry.InitSegments())
	testRegistry.ResetSegments()
}

func firstBase() uintptr {
	return uintptr(testRegistry.SegmentAddress(testRegistry.FirstSegmentIndex()))
}
