package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licentia/internal/domain/license"
	"licentia/internal/domain/license/valueobjects"
)

func createTestLicense(t *testing.T, keyHash, keyPrefix string) *license.License {
	t.Helper()
	l, err := license.NewLicense(keyHash, keyPrefix, 1, 10, 3, false, nil)
	require.NoError(t, err)
	return l
}

func TestLicenseRepository_CreateAndGet(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewLicenseRepository(gormDB)
	ctx := context.Background()

	l := createTestLicense(t, "hash:key-1", "ABCDE-FG")
	require.NoError(t, repo.Create(ctx, l))
	assert.NotZero(t, l.ID())

	t.Run("get by ID", func(t *testing.T) {
		found, err := repo.GetByID(ctx, l.ID())
		require.NoError(t, err)
		assert.Equal(t, l.SID(), found.SID())
		assert.Equal(t, "hash:key-1", found.KeyHash())
		assert.Equal(t, valueobjects.StatusActive, found.Status())
	})

	t.Run("get by SID", func(t *testing.T) {
		found, err := repo.GetBySID(ctx, l.SID())
		require.NoError(t, err)
		assert.Equal(t, l.ID(), found.ID())
	})

	t.Run("miss maps to domain error", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, license.ErrLicenseNotFound)

		_, err = repo.GetBySID(ctx, "lic_missing")
		assert.ErrorIs(t, err, license.ErrLicenseNotFound)
	})
}

func TestLicenseRepository_GetCandidatesByKeyPrefix(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewLicenseRepository(gormDB)
	ctx := context.Background()

	// Two licenses collide on the prefix, one does not.
	require.NoError(t, repo.Create(ctx, createTestLicense(t, "hash:key-1", "ABCDE-FG")))
	require.NoError(t, repo.Create(ctx, createTestLicense(t, "hash:key-2", "ABCDE-FG")))
	require.NoError(t, repo.Create(ctx, createTestLicense(t, "hash:key-3", "ZYXWV-UT")))

	candidates, err := repo.GetCandidatesByKeyPrefix(ctx, "ABCDE-FG")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	none, err := repo.GetCandidatesByKeyPrefix(ctx, "QQQQQ-QQ")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLicenseRepository_Update(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewLicenseRepository(gormDB)
	ctx := context.Background()

	l := createTestLicense(t, "hash:key-1", "ABCDE-FG")
	require.NoError(t, repo.Create(ctx, l))

	require.NoError(t, l.Suspend())
	l.RecordActivation()
	require.NoError(t, repo.Update(ctx, l))

	found, err := repo.GetByID(ctx, l.ID())
	require.NoError(t, err)
	assert.Equal(t, valueobjects.StatusSuspended, found.Status())
	assert.Equal(t, 1, found.ActivationCount())
}

func TestLicenseRepository_PreservesExpiry(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewLicenseRepository(gormDB)
	ctx := context.Background()

	expiry := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	l, err := license.NewLicense("hash:key-1", "ABCDE-FG", 1, 10, 3, true, &expiry)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, l))

	found, err := repo.GetByID(ctx, l.ID())
	require.NoError(t, err)
	require.NotNil(t, found.ExpiresAt())
	assert.WithinDuration(t, expiry, *found.ExpiresAt(), time.Second)
	assert.True(t, found.RequireMachineBinding())
}

func TestLicenseRepository_ListByOrder(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewLicenseRepository(gormDB)
	ctx := context.Background()

	first, err := license.NewLicense("hash:key-1", "ABCDE-FG", 1, 77, 3, false, nil)
	require.NoError(t, err)
	second, err := license.NewLicense("hash:key-2", "ZYXWV-UT", 1, 77, 3, false, nil)
	require.NoError(t, err)
	other, err := license.NewLicense("hash:key-3", "MMMMM-MM", 1, 88, 3, false, nil)
	require.NoError(t, err)
	for _, l := range []*license.License{first, second, other} {
		require.NoError(t, repo.Create(ctx, l))
	}

	got, err := repo.ListByOrder(ctx, 77)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
