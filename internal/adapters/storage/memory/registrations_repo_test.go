package memory

import (
	"context"
	"testing"
	"time"

	"double-paws/internal/domain/registration"
	"double-paws/internal/domain/sitters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepo_CopiesOnWriteAndRead(t *testing.T) {
	ctx := context.Background()
	repo := NewRegistrationRepo()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	w := registration.NewWizard("s1", "u1", now)
	require.NoError(t, repo.Create(ctx, w))
	assert.Error(t, repo.Create(ctx, w))

	w.Draft.Services[sitters.ServiceBoarding] = registration.ServiceRate{Active: true, Rate: 10}
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, got.Draft.Services[sitters.ServiceBoarding].Active)

	require.NoError(t, repo.Update(ctx, w))
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.Draft.Services[sitters.ServiceBoarding].Active)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, registration.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, w), registration.ErrNotFound)
}

func TestRegistrationRepo_DeleteIdleSince(t *testing.T) {
	ctx := context.Background()
	repo := NewRegistrationRepo()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, registration.NewWizard("old", "u1", base)))
	require.NoError(t, repo.Create(ctx, registration.NewWizard("new", "u2", base.Add(time.Hour))))

	n, err := repo.DeleteIdleSince(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Get(ctx, "new")
	assert.NoError(t, err)
}
