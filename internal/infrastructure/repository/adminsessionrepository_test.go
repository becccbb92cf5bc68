package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licentia/internal/domain/session"
)

func createTestSession(t *testing.T, repo session.Repository, adminID uint) *session.Session {
	t.Helper()
	s, err := session.NewSession(adminID, "203.0.113.1", "Mozilla/5.0 Chrome/120")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestAdminSessionRepository_CreateAndGet(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewAdminSessionRepository(gormDB)
	ctx := context.Background()

	s := createTestSession(t, repo, 42)

	found, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(42), found.AdminID)
	assert.Equal(t, "203.0.113.1", found.IPAddress)

	_, err = repo.GetByID(ctx, "missing-session-id")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestAdminSessionRepository_UpdateInPlace(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewAdminSessionRepository(gormDB)
	ctx := context.Background()

	s := createTestSession(t, repo, 1)

	s.RecordAnomalies(2, 3)
	s.UpdateActivity()
	require.NoError(t, repo.Update(ctx, s.ID, s))

	found, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.AnomalyCount)
	assert.False(t, found.Suspicious)
}

func TestAdminSessionRepository_UpdateWithRotation(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewAdminSessionRepository(gormDB)
	ctx := context.Background()

	s := createTestSession(t, repo, 1)

	oldID, err := s.Rotate()
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, oldID, s))

	// Old identifier stops resolving, new one carries the state.
	_, err = repo.GetByID(ctx, oldID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	found, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), found.AdminID)

	t.Run("rotation of an unknown session fails", func(t *testing.T) {
		ghost, err := session.NewSession(2, "", "")
		require.NoError(t, err)
		err = repo.Update(ctx, "never-stored", ghost)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestAdminSessionRepository_Delete(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewAdminSessionRepository(gormDB)
	ctx := context.Background()

	s := createTestSession(t, repo, 1)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err := repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, s.ID), session.ErrSessionNotFound)
}

func TestAdminSessionRepository_DeleteByAdminID(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewAdminSessionRepository(gormDB)
	ctx := context.Background()

	first := createTestSession(t, repo, 1)
	second := createTestSession(t, repo, 1)
	other := createTestSession(t, repo, 2)

	require.NoError(t, repo.DeleteByAdminID(ctx, 1))

	_, err := repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = repo.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = repo.GetByID(ctx, other.ID)
	assert.NoError(t, err)
}

func TestAdminSessionRepository_DeleteIdleSince(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewAdminSessionRepository(gormDB)
	ctx := context.Background()

	idle := createTestSession(t, repo, 1)
	fresh := createTestSession(t, repo, 2)

	require.NoError(t, gormDB.Exec(
		"UPDATE admin_sessions SET last_activity_at = ? WHERE id = ?",
		time.Now().UTC().Add(-10*time.Hour), idle.ID,
	).Error)

	require.NoError(t, repo.DeleteIdleSince(ctx, time.Now().UTC().Add(-8*time.Hour)))

	_, err := repo.GetByID(ctx, idle.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = repo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
}
