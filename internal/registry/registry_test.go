package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Put(t *testing.T) {
	r := New[int]()

	assert.True(t, r.Put("a", 1))
	assert.True(t, r.Put("b", 2))
	assert.False(t, r.Put("a", 10), "overwrite must not report a new key")
	assert.Equal(t, 2, r.Len())

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}

func TestRegistry_Delete(t *testing.T) {
	testCases := []struct {
		name     string
		keys     []string
		remove   []string
		expected []string
		removed  []bool
	}{
		{
			name:     "remove middle",
			keys:     []string{"a", "b", "c"},
			remove:   []string{"b"},
			expected: []string{"a", "c"},
			removed:  []bool{true},
		},
		{
			name:     "remove missing",
			keys:     []string{"a"},
			remove:   []string{"z"},
			expected: []string{"a"},
			removed:  []bool{false},
		},
		{
			name:     "remove twice",
			keys:     []string{"a", "b"},
			remove:   []string{"a", "a"},
			expected: []string{"b"},
			removed:  []bool{true, false},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := New[string]()
			for _, k := range tc.keys {
				r.Put(k, k)
			}
			for i, k := range tc.remove {
				assert.Equal(t, tc.removed[i], r.Delete(k))
			}
			assert.Equal(t, tc.expected, r.Keys())
			assert.Equal(t, len(tc.expected), r.Len())
		})
	}
}

func TestRegistry_ReinsertMovesToEnd(t *testing.T) {
	r := New[int]()
	r.Put("a", 1)
	r.Put("b", 2)
	r.Delete("a")
	r.Put("a", 3)
	assert.Equal(t, []string{"b", "a"}, r.Keys())
}

func TestRegistry_KeysSnapshot(t *testing.T) {
	r := New[int]()
	r.Put("a", 1)
	r.Put("b", 2)
	keys := r.Keys()
	r.Delete("a")
	r.Put("c", 3)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestRegistry_Clear(t *testing.T) {
	r := New[int]()
	r.Put("a", 1)
	r.Put("b", 2)
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Has("a"))
	assert.Empty(t, r.Keys())

	assert.True(t, r.Put("a", 1))
	assert.Equal(t, []string{"a"}, r.Keys())
}
