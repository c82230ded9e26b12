package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/devpulse/pkg/popularity"
)

func snapshot(i int) *Snapshot {
	return NewSnapshot([]string{"Go"}, i, []popularity.LanguagePopularity{
		{Language: "Go", RepositoryCount: i, PercentageShare: 100},
	})
}

func TestMemoryStore_Empty(t *testing.T) {
	s := NewMemoryStore(0)
	_, err := s.Latest(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryStore_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Save(ctx, snapshot(i)))
	}

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.MinStars)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{list[0].MinStars, list[1].MinStars, list[2].MinStars})

	list, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMemoryStore_Bounded(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)
	for i := 1; i <= 7; i++ {
		require.NoError(t, s.Save(ctx, snapshot(i)))
	}
	assert.Equal(t, 3, s.Len())

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 7, list[0].MinStars)
	assert.Equal(t, 5, list[2].MinStars)
}

func TestMemoryStore_Copies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	snap := snapshot(1)
	require.NoError(t, s.Save(ctx, snap))
	snap.MinStars = 99

	got, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MinStars)
}

func TestMemoryStore_RejectsMissingID(t *testing.T) {
	s := NewMemoryStore(1)
	assert.Error(t, s.Save(context.Background(), &Snapshot{}))
	assert.Error(t, s.Save(context.Background(), nil))
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(50)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Save(ctx, snapshot(i)); err != nil {
				t.Error(err)
			}
			_, _ = s.List(ctx, 5)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, s.Len())
}

func TestNewSnapshot(t *testing.T) {
	langs := []string{"Go", "Rust"}
	snap := NewSnapshot(langs, 100, nil)
	langs[0] = "changed"

	assert.NotEmpty(t, snap.ID)
	assert.NotEqual(t, snap.ID, NewSnapshot(nil, 0, nil).ID)
	assert.Equal(t, "Go", snap.Languages[0], "languages should be copied")
	assert.False(t, snap.TakenAt.IsZero())
}
