package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/stretchr/testify/require"
)

// Helper to create a business for repository tests.
func createTestBusiness(t *testing.T, ctx context.Context) *domain.Business {
	t.Helper()
	repo := NewBusinessRepository(testPool)
	business := &domain.Business{
		Name:     "Apex Heating & Air",
		Slug:     "apex-" + uuid.NewString(), // Ensure unique slug
		Vertical: domain.VerticalHVAC,
		Phone:    "+15550199",
	}
	created, err := repo.Create(ctx, business)
	require.NoError(t, err)
	return created
}

// Helper to create a contact for repository tests.
func createTestContact(t *testing.T, ctx context.Context, businessID int64) *domain.Contact {
	t.Helper()
	repo := NewContactRepository(testPool)
	contact := &domain.Contact{
		BusinessID: businessID,
		FirstName:  "Maria",
		LastName:   "Diaz",
		Phone:      "+15550100",
	}
	created, err := repo.Create(ctx, contact)
	require.NoError(t, err)
	return created
}

// Helper to schedule a job window starting an hour from now.
func testJobWindow() (time.Time, time.Time) {
	start := time.Now().Add(time.Hour).Truncate(time.Second)
	return start, start.Add(2 * time.Hour)
}
