package repository

import (
	"context"
	"sync"
	"testing"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchGetOrCreateNormalizesPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	match, created, err := repo.GetOrCreate(ctx, 9, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(2), match.UserAID)
	assert.Equal(t, uint(9), match.UserBID)

	// same pair in the other order reuses the record
	again, created, err := repo.GetOrCreate(ctx, 2, 9)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, match.ID, again.ID)
}

func TestMatchGetOrCreateRejectsSelfMatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)

	_, _, err := repo.GetOrCreate(context.Background(), 5, 5)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestMatchGetOrCreateConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	ids := make([]uint, writers)
	createdFlags := make([]bool, writers)
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// alternate argument order to exercise normalization under race
			a, b := uint(1), uint(2)
			if i%2 == 0 {
				a, b = b, a
			}
			match, created, err := repo.GetOrCreate(ctx, a, b)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = match.ID
			createdFlags[i] = created
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
	}

	createdCount := 0
	for i := 1; i < writers; i++ {
		assert.Equal(t, ids[0], ids[i], "all writers must observe the same match record")
		if createdFlags[i] {
			createdCount++
		}
	}
	if createdFlags[0] {
		createdCount++
	}
	assert.Equal(t, 1, createdCount, "exactly one writer creates the match")

	var count int64
	require.NoError(t, db.Model(&models.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMatchGetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	created, _, err := repo.GetOrCreate(ctx, 1, 2)
	require.NoError(t, err)

	match, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, match.ID)

	_, err = repo.GetByID(ctx, 9999)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestMatchListForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	_, _, err := repo.GetOrCreate(ctx, 1, 2)
	require.NoError(t, err)
	_, _, err = repo.GetOrCreate(ctx, 3, 1)
	require.NoError(t, err)
	_, _, err = repo.GetOrCreate(ctx, 2, 3)
	require.NoError(t, err)

	matches, err := repo.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	for _, m := range matches {
		assert.True(t, m.Contains(1))
	}
}

func TestMatchSetChannelIDAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	match, _, err := repo.GetOrCreate(ctx, 1, 2)
	require.NoError(t, err)
	require.Nil(t, match.ChannelID)

	require.NoError(t, repo.SetChannelID(ctx, match.ID, "match-1-2"))

	reloaded, err := repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ChannelID)
	assert.Equal(t, "match-1-2", *reloaded.ChannelID)

	require.NoError(t, repo.Delete(ctx, match.ID))

	_, err = repo.GetByID(ctx, match.ID)
	assert.Error(t, err)

	byPair, err := repo.GetByPair(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, byPair)
}
