package pkg_test

import (
	"testing"

	"github.com/linedb/linedb/pkg"
	"gotest.tools/assert"
)

func TestFilter(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5, 6}
	even := pkg.Filter(nums, func(n int) bool { return n%2 == 0 })
	assert.DeepEqual(t, even, []int{2, 4, 6})

	none := pkg.Filter(nums, func(n int) bool { return n > 10 })
	assert.Equal(t, len(none), 0)
}

func TestSortedKeys(t *testing.T) {
	m := pkg.Map[string, int]{"c": 3, "a": 1, "b": 2}
	assert.DeepEqual(t, pkg.SortedKeys(m), []string{"a", "b", "c"})
}
