package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBumpsNeverPanic(t *testing.T) {
	req := require.New(t)

	met := New("test")
	req.NotNil(met)

	met.BumpSum("some.counter", 1, "prefix", TagValueNA)
	met.BumpAvg("some.avg", 2)
	met.BumpHistogram("some.histogram", 3)
	met.BumpTime("some.time").End()
}
