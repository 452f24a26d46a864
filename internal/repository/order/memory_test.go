package order

import (
	"context"
	"testing"
	"time"

	"readafrik-checkout/internal/common/models"
	"readafrik-checkout/internal/pkg/apperr"
	database "readafrik-checkout/internal/pkg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoUpsertKeepsPendingRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()

	require.NoError(t, repo.Create(ctx, &models.Order{
		Reference:        "READAFRIK-1-000001",
		CustomerEmail:    "ada@example.com",
		AmountKobo:       1500,
		AuthorizationURL: "https://checkout.paystack.com/abc",
		Status:           "pending",
	}))
	pending, err := repo.FindByReference(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)

	paidAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &models.Order{
		Reference:     "READAFRIK-1-000001",
		CustomerEmail: "ada@example.com",
		AmountKobo:    1500,
		Status:        "success",
		Channel:       "card",
		PaidAt:        &paidAt,
	}))

	got, err := repo.FindByReference(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
	assert.Equal(t, "success", got.Status)
	assert.Equal(t, "https://checkout.paystack.com/abc", got.AuthorizationURL)
	assert.Equal(t, &paidAt, got.PaidAt)
}

func TestMemoryRepoCreateDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()

	require.NoError(t, repo.Create(ctx, &models.Order{Reference: "R1"}))
	assert.Error(t, repo.Create(ctx, &models.Order{Reference: "R1"}))
}

func TestMemoryRepoNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewMemoryRepo().FindByReference(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.Kind(err))
}

func TestMemoryRepoListFiltersAndOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, o := range []models.Order{
		{Reference: "A", Status: "success"},
		{Reference: "B", Status: "pending"},
		{Reference: "C", Status: "success"},
	} {
		o := o
		require.NoError(t, repo.Create(ctx, &o))
	}

	got, err := repo.List(ctx, ListFilter{Status: "success"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Reference)
	assert.Equal(t, "A", got[1].Reference)

	got, err = repo.List(ctx, ListFilter{Direction: database.ASC, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Reference)
	assert.Equal(t, "B", got[1].Reference)
}

func TestMemoryRepoMarkNotifiedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Create(ctx, &models.Order{Reference: "R1"}))

	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stamped, err := repo.MarkNotified(ctx, "R1", first)
	require.NoError(t, err)
	assert.True(t, stamped)

	stamped, err = repo.MarkNotified(ctx, "R1", first.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, stamped)

	got, err := repo.FindByReference(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, got.NotifiedAt)
	assert.Equal(t, first, *got.NotifiedAt)

	_, err = repo.MarkNotified(ctx, "missing", first)
	assert.Equal(t, apperr.KindNotFound, apperr.Kind(err))
}

func TestMemoryRepoClearNotified(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Create(ctx, &models.Order{Reference: "R1"}))

	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.MarkNotified(ctx, "R1", at)
	require.NoError(t, err)
	require.NoError(t, repo.ClearNotified(ctx, "R1"))

	stamped, err := repo.MarkNotified(ctx, "R1", at.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, stamped)

	// upserts from later verifications leave the stamp alone
	require.NoError(t, repo.Upsert(ctx, &models.Order{Reference: "R1", Status: "success"}))
	got, err := repo.FindByReference(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, got.NotifiedAt)
}
