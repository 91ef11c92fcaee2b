package postgres

import (
	"context"
	"testing"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomationRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewAutomationRepository(testPool)
	business := createTestBusiness(t, ctx)

	newRule := &domain.Automation{
		BusinessID: business.ID,
		Name:       "Thank you text",
		Trigger:    domain.TriggerJobCompleted,
		Conditions: map[string]any{"jobType": "repair"},
		Actions: []domain.Action{
			{Type: domain.ActionSendSMS, Params: map[string]string{
				"to":      "{{contactPhone}}",
				"message": "Thanks {{contactName}}!",
			}},
		},
		IsActive: true,
	}

	created, err := repo.Create(ctx, newRule)
	require.NoError(t, err, "Failed to create automation")
	assert.NotZero(t, created.ID)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err, "Failed to get automation by ID")

	assert.Equal(t, "Thank you text", found.Name)
	assert.Equal(t, domain.TriggerJobCompleted, found.Trigger)
	assert.Equal(t, map[string]any{"jobType": "repair"}, found.Conditions)
	require.Len(t, found.Actions, 1)
	assert.Equal(t, domain.ActionSendSMS, found.Actions[0].Type)
	assert.Equal(t, "{{contactPhone}}", found.Actions[0].Params["to"])
	assert.True(t, found.IsActive)
	assert.Nil(t, found.UpdatedAt)
}

func TestAutomationRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewAutomationRepository(testPool)
	business := createTestBusiness(t, ctx)

	rule := &domain.Automation{
		BusinessID: business.ID,
		Name:       "Welcome email",
		Trigger:    domain.TriggerNewCustomer,
		Conditions: map[string]any{},
		Actions: []domain.Action{
			{Type: domain.ActionSendEmail, Params: map[string]string{"to": "{{contactEmail}}"}},
		},
		IsActive: true,
	}
	created, err := repo.Create(ctx, rule)
	require.NoError(t, err)

	created.IsActive = false
	created.Actions = append(created.Actions, domain.Action{
		Type:   domain.ActionNotifyStaff,
		Params: map[string]string{"message": "New customer signed up"},
	})

	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Len(t, updated.Actions, 2)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestAutomationRepository_ListByBusiness(t *testing.T) {
	ctx := context.Background()
	repo := NewAutomationRepository(testPool)
	business := createTestBusiness(t, ctx)
	other := createTestBusiness(t, ctx)

	names := []string{"First rule", "Second rule", "Third rule"}
	for _, name := range names {
		_, err := repo.Create(ctx, &domain.Automation{
			BusinessID: business.ID,
			Name:       name,
			Trigger:    domain.TriggerNewMessage,
			Actions: []domain.Action{
				{Type: domain.ActionNotifyStaff, Params: map[string]string{"message": name}},
			},
			IsActive: true,
		})
		require.NoError(t, err)
	}

	rules, err := repo.ListByBusiness(ctx, business.ID)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	// Creation order is preserved for the engine.
	for i, rule := range rules {
		assert.Equal(t, names[i], rule.Name)
	}

	otherRules, err := repo.ListByBusiness(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, otherRules)
}

func TestAutomationRepository_GetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAutomationRepository(testPool)

	_, err := repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, apperrors.ErrAutomationNotFound)
}
