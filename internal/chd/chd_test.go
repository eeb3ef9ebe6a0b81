package chd_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronan-fesselier/vista-sdk-sub002/internal/chd"
)

func TestBuildAndLookup(t *testing.T) {
	entries := make([]chd.Entry[int], 0, 200)
	for i := 0; i < 200; i++ {
		entries = append(entries, chd.Entry[int]{Key: fmt.Sprintf("node-%d", i), Value: i})
	}
	m := chd.Build(entries)

	require.Equal(t, 200, m.Size())
	for i := 0; i < 200; i++ {
		v, ok := m.TryGetValue(fmt.Sprintf("node-%d", i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := m.TryGetValue("does-not-exist")
	assert.False(t, ok)
}

func TestEmptyMap(t *testing.T) {
	m := chd.Build[int](nil)
	assert.True(t, m.IsEmpty())
	_, ok := m.TryGetValue("x")
	assert.False(t, ok)
}

func TestDuplicateKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		chd.Build([]chd.Entry[int]{{Key: "a", Value: 1}, {Key: "a", Value: 2}})
	})
}

func TestAllVisitsEveryKeyInInsertionOrder(t *testing.T) {
	entries := []chd.Entry[string]{{Key: "VE", Value: "root"}, {Key: "400a", Value: "child"}, {Key: "410", Value: "grandchild"}}
	m := chd.Build(entries)

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
	}
	assert.Equal(t, []string{"VE", "400a", "410"}, seen)
}
