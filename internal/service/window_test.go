package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	items   []int
	offsets []int
}

func (s *sliceSource) fetch(limit, offset int) ([]int, int, error) {
	s.offsets = append(s.offsets, offset)
	return window(s.items, limit, offset), len(s.items), nil
}

func TestFetchWindow(t *testing.T) {
	src := &sliceSource{items: []int{1, 2, 3, 4, 5, 6, 7}}

	items, total, err := fetchWindow(3, 3, src.fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, items)
	assert.Equal(t, 7, total)
	assert.Equal(t, []int{3}, src.offsets)

	src.offsets = nil
	items, _, err = fetchWindow(3, 50, src.fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, items)
	assert.Equal(t, []int{50, 6}, src.offsets)

	src.offsets = nil
	items, _, err = fetchWindow(3, 7, src.fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, items)
}

func TestFetchWindowEmptyAndFailing(t *testing.T) {
	empty := &sliceSource{}
	items, total, err := fetchWindow(10, 20, empty.fetch)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.Equal(t, []int{20}, empty.offsets)

	failing := func(limit, offset int) ([]int, int, error) { return nil, 0, errors.New("down") }
	_, _, err = fetchWindow(10, 0, failing)
	assert.Error(t, err)
}
