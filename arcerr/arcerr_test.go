package arcerr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robofit/arcor2-core/arcerr"
)

func TestErrorMessageIncludesEntity(t *testing.T) {
	err := arcerr.New(arcerr.NotFound, "ac1", "logic.end", "action %q is missing", "ac1")
	require.EqualError(t, err, `ac1: action "ac1" is missing`)
}

func TestErrorMessageWithoutEntity(t *testing.T) {
	err := arcerr.New(arcerr.PyShape, "", "pyparse.main", "no def main found")
	require.EqualError(t, err, "no def main found")
}

func TestIsMatchesKind(t *testing.T) {
	err := arcerr.New(arcerr.LoopDetected, "ac1", "logic.loop", "cycle")
	require.True(t, arcerr.Is(err, arcerr.LoopDetected))
	require.False(t, arcerr.Is(err, arcerr.NotFound))
	require.False(t, arcerr.Is(nil, arcerr.LoopDetected))
}

func TestListAggregatesAndOrNil(t *testing.T) {
	var l arcerr.List
	require.Nil(t, l.OrNil())

	l.Add(arcerr.NotFound, "ac1", "r1", "first")
	l.Add(arcerr.WrongValueShape, "ac2", "r2", "second")
	require.Len(t, l, 2)
	require.Equal(t, "ac1: first\nac2: second", l.Error())

	err := l.OrNil()
	require.Error(t, err)
	require.Equal(t, l.Error(), err.Error())
}
