package rhmap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShardedMapBasics(t *testing.T) {
	s := NewShardedMap[string, int](16, 256)
	for i, w := range words {
		_, replaced := s.Set(w, i)
		require.False(t, replaced)
	}
	require.Equal(t, len(words), s.Len())
	for i, w := range words {
		v, ok := s.Get(w)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	require.ErrorIs(t, s.Insert(words[0], 99), ErrDuplicateKey)
	for i, w := range words {
		v, ok := s.Del(w)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	require.Equal(t, 0, s.Len())
}

func TestShardedMapRangeAndClear(t *testing.T) {
	s := NewShardedMap[string, int](4, 64)
	for i, w := range words {
		s.Set(w, i)
	}
	seen := make(map[string]int)
	s.Range(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	require.Len(t, seen, len(words))

	var n int
	s.Range(func(string, int) bool {
		n++
		return n < 3
	})
	require.Equal(t, 3, n)

	require.Len(t, s.FillRatios(), 4)
	s.Clear()
	require.Equal(t, 0, s.Len())
}

func TestShardedMapInterfaceKeys(t *testing.T) {
	s := NewShardedMap[any, string](4, 16)
	_, replaced := s.Set(7, "seven")
	require.False(t, replaced)
	require.NoError(t, s.Insert("seven", "7"))
	v, ok := s.Get(7)
	require.True(t, ok)
	require.Equal(t, "seven", v)
	require.True(t, s.Has("seven"))
	require.ErrorIs(t, s.Insert(nil, "nope"), ErrNilKey)
	_, ok = s.Del(7)
	require.True(t, ok)
	require.Equal(t, 1, s.Len())
}

func TestShardedMapNilKey(t *testing.T) {
	s := NewShardedMap[*int, int](4, 16)
	require.ErrorIs(t, s.Insert(nil, 1), ErrNilKey)
	_, ok := s.Get(nil)
	require.False(t, ok)
	_, ok = s.Del(nil)
	require.False(t, ok)
}

func TestShardedMapConcurrent(t *testing.T) {
	s := NewShardedMap[string, int](32, 1024)
	const workers = 8
	const perWorker = 2000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				k := fmt.Sprintf("w%d-k%d", w, i)
				s.Set(k, i)
				v, ok := s.Get(k)
				if !ok || v != i {
					t.Errorf("lost %s", k)
					return
				}
				if i%3 == 0 {
					s.Del(k)
				}
			}
		}(w)
	}
	wg.Wait()

	want := 0
	for i := 0; i < perWorker; i++ {
		if i%3 != 0 {
			want++
		}
	}
	require.Equal(t, want*workers, s.Len())
	for w := 0; w < workers; w++ {
		for i := 0; i < perWorker; i++ {
			_, ok := s.Get(fmt.Sprintf("w%d-k%d", w, i))
			require.Equal(t, i%3 != 0, ok)
		}
	}
}

func TestShardedMapShardCountAligns(t *testing.T) {
	s := NewShardedMap[string, int](9, 0)
	require.Len(t, s.shards, 16)
	s = NewShardedMap[string, int](0, 0)
	require.Len(t, s.shards, DefaultShardCount)
}
