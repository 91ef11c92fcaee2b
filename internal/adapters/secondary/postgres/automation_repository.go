package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// AutomationRepository is the secondary adapter for automation rule storage.
// Conditions and actions are stored as JSONB documents.
type AutomationRepository struct {
	pool *pgxpool.Pool
}

var _ ports.AutomationRepository = (*AutomationRepository)(nil)

// NewAutomationRepository creates a new automation repository.
func NewAutomationRepository(pool *pgxpool.Pool) ports.AutomationRepository {
	return &AutomationRepository{pool: pool}
}

const automationColumns = `id, business_id, name, description, trigger,
conditions, actions, is_active, created_at, updated_at`

func scanAutomation(row pgx.Row) (*domain.Automation, error) {
	var (
		a           domain.Automation
		description pgtype.Text
		conditions  []byte
		actions     []byte
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&a.ID, &a.BusinessID, &a.Name, &description, &a.Trigger,
		&conditions, &actions, &a.IsActive, &a.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(conditions, &a.Conditions); err != nil {
		return nil, fmt.Errorf("decode automation %d conditions: %w", a.ID, err)
	}
	if err := json.Unmarshal(actions, &a.Actions); err != nil {
		return nil, fmt.Errorf("decode automation %d actions: %w", a.ID, err)
	}

	a.Description = textOrEmpty(description)
	a.UpdatedAt = timeOrNil(updatedAt)
	return &a, nil
}

func encodeRuleDocs(automation *domain.Automation) ([]byte, []byte, error) {
	conditions := automation.Conditions
	if conditions == nil {
		conditions = map[string]any{}
	}
	conditionsJSON, err := json.Marshal(conditions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode automation conditions: %w", err)
	}
	actionsJSON, err := json.Marshal(automation.Actions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode automation actions: %w", err)
	}
	return conditionsJSON, actionsJSON, nil
}

// Create persists a new automation rule.
func (r *AutomationRepository) Create(ctx context.Context, automation *domain.Automation) (*domain.Automation, error) {
	const query = `
INSERT INTO automations (business_id, name, description, trigger,
  conditions, actions, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + automationColumns

	conditionsJSON, actionsJSON, err := encodeRuleDocs(automation)
	if err != nil {
		return nil, err
	}

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		automation.BusinessID, automation.Name,
		textOrNull(automation.Description), string(automation.Trigger),
		conditionsJSON, actionsJSON, automation.IsActive,
	)
	return scanAutomation(row)
}

// GetByID retrieves a single automation rule by its ID.
func (r *AutomationRepository) GetByID(ctx context.Context, id int64) (*domain.Automation, error) {
	const query = `SELECT ` + automationColumns + ` FROM automations WHERE id = $1`

	automation, err := scanAutomation(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAutomationNotFound
		}
		return nil, err
	}
	return automation, nil
}

// Update persists changes to an existing automation rule.
func (r *AutomationRepository) Update(ctx context.Context, automation *domain.Automation) (*domain.Automation, error) {
	const query = `
UPDATE automations
SET name = $2, description = $3, trigger = $4, conditions = $5,
    actions = $6, is_active = $7, updated_at = NOW()
WHERE id = $1
RETURNING ` + automationColumns

	conditionsJSON, actionsJSON, err := encodeRuleDocs(automation)
	if err != nil {
		return nil, err
	}

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		automation.ID, automation.Name,
		textOrNull(automation.Description), string(automation.Trigger),
		conditionsJSON, actionsJSON, automation.IsActive,
	)
	updated, err := scanAutomation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAutomationNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ListByBusiness retrieves every automation rule for one business in creation
// order. The engine depends on a stable order so actions of earlier rules run
// first.
func (r *AutomationRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Automation, error) {
	const query = `SELECT ` + automationColumns + ` FROM automations
WHERE business_id = $1 ORDER BY id ASC`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	automations := make([]*domain.Automation, 0)
	for rows.Next() {
		automation, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		automations = append(automations, automation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return automations, nil
}
