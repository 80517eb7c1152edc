package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]string{"a", "b", "b"}, "b"), "First match wins")
	require.Equal(t, -1, FindIndex([]int{1, 2}, 3))
	require.Equal(t, -1, FindIndex(nil, 3))
}

func TestFilterAndAny(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }

	require.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4}, even))
	require.Nil(t, Filter([]int{1, 3}, even))
	require.True(t, Any([]int{1, 2}, even))
	require.False(t, Any([]int{1, 3}, even))
	require.False(t, Any(nil, even))
}
