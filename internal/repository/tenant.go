package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dinehub/orderflow/internal/models"
	"github.com/dinehub/orderflow/internal/repository/postgres"
)

const (
	selectTenantQuery = `
						SELECT id, name, timezone, lead_minutes, slot_minutes FROM tenants
						WHERE id = $1
`
)

// TenantRepository implements tenant persistence over postgres
type TenantRepository struct {
	db *postgres.DB
}

// NewTenantRepository creates new TenantRepository instance
func NewTenantRepository(db *postgres.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// GetTenant returns tenant by id
func (tr *TenantRepository) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	tenant := models.Tenant{}
	err := tr.db.QueryRow(ctx, selectTenantQuery, tenantID).Scan(
		&tenant.ID, &tenant.Name, &tenant.Schedule.Timezone,
		&tenant.Schedule.LeadMinutes, &tenant.Schedule.SlotMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &tenant, nil
}
