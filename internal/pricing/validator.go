package pricing

import (
	"context"
	"time"

	"github.com/dinehub/orderflow/internal/catalog"
	"github.com/dinehub/orderflow/internal/models"
)

const (
	minQuantity = 1
	maxQuantity = 99
)

// CatalogGateway resolves menu items for pricing
type CatalogGateway interface {
	// GetItem returns catalog item for tenant
	GetItem(ctx context.Context, tenantID, itemID string) (*catalog.Item, error)
}

// PricedOrder is validator output: normalized lines with authoritative totals
type PricedOrder struct {
	Items         []models.OrderItem
	SubtotalCents int64
	TotalCents    int64
}

// Validator computes authoritative order totals and validates pickup timing.
// Totals are a pure function of the catalog snapshot, tenant schedule and
// current time; client-supplied prices are never trusted.
type Validator struct {
	catalog CatalogGateway
	now     func() time.Time
}

// NewValidator creates new Validator instance
func NewValidator(cg CatalogGateway) *Validator {
	return &Validator{
		catalog: cg,
		now:     time.Now,
	}
}

// PriceOrder resolves every line against the catalog and computes totals
func (v *Validator) PriceOrder(ctx context.Context, tenantID string, lines []models.LineItemRequest) (*PricedOrder, error) {
	if len(lines) == 0 {
		return nil, models.ErrValidation
	}

	priced := PricedOrder{Items: make([]models.OrderItem, 0, len(lines))}

	for _, line := range lines {
		if line.MenuItemID == "" || line.Quantity < minQuantity || line.Quantity > maxQuantity {
			return nil, models.ErrValidation
		}

		item, err := v.catalog.GetItem(ctx, tenantID, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if item.PriceCents <= 0 {
			return nil, models.ErrCatalogMismatch
		}

		defs := ParseAddOns(item.Modifiers)

		unit := item.PriceCents
		for _, selected := range line.AddOns {
			// exact match on name and delta, no partial application
			if !matchAddOn(defs, selected) {
				return nil, models.ErrInvalidAddOn
			}
			unit += selected.PriceDeltaCents
		}

		priced.Items = append(priced.Items, models.OrderItem{
			MenuItemID:     item.ID,
			Name:           item.Name,
			UnitPriceCents: unit,
			Quantity:       line.Quantity,
			Note:           line.Note,
			AddOns:         line.AddOns,
		})
		priced.SubtotalCents += unit * int64(line.Quantity)
	}

	priced.TotalCents = priced.SubtotalCents

	return &priced, nil
}

// ValidateSchedule checks a requested pickup time against tenant scheduling rules
func (v *Validator) ValidateSchedule(requested time.Time, sched models.TenantSchedule) error {
	now := v.now()

	lead := time.Duration(sched.LeadMinutes) * time.Minute
	if requested.Before(now.Add(lead)) {
		return models.NewSchedulingError(models.ScheduleTooSoon)
	}

	loc, err := time.LoadLocation(sched.Timezone)
	if err != nil {
		return models.ErrValidation
	}

	ry, rm, rd := requested.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	if ry != ny || rm != nm || rd != nd {
		return models.NewSchedulingError(models.ScheduleDifferentDay)
	}

	slot := int64(sched.SlotMinutes) * 60
	if slot > 0 && requested.Unix()%slot != 0 {
		return models.NewSchedulingError(models.ScheduleUnaligned)
	}

	return nil
}

func matchAddOn(defs []models.AddOnDefinition, selected models.AddOnDefinition) bool {
	for _, def := range defs {
		if def.Name == selected.Name && def.PriceDeltaCents == selected.PriceDeltaCents {
			return true
		}
	}
	return false
}
