package customers

import (
	"context"
	"fmt"

	"github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/internal/tenants"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/courier"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
)

// phoneSuffixLen is how many trailing digits identify a customer. Country
// codes and leading zeros vary between storefront imports, the trailing
// digits do not.
const phoneSuffixLen = 8

// History is a tenant's track record for one customer phone number, used by
// call-center agents as a confirm-or-reject signal on cash-on-delivery leads.
type History struct {
	Phone       string  `json:"phone"`
	OrderCount  int64   `json:"order_count"`
	ReturnCount int64   `json:"return_count"`
	ReturnRate  float64 `json:"return_rate"`
}

type Service interface {
	History(ctx context.Context, tenantID, phone string) (*History, error)
}

type service struct {
	registry tenants.Registry
	repos    orders.RepositoryFactory
}

func NewService(registry tenants.Registry, repos orders.RepositoryFactory) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("customers service: tenant registry is required")
	}
	if repos == nil {
		return nil, fmt.Errorf("customers service: repository factory is required")
	}
	return &service{registry: registry, repos: repos}, nil
}

func (s *service) History(ctx context.Context, tenantID, phone string) (*History, error) {
	digits := courier.DigitsOnly(phone)
	if len(digits) < phoneSuffixLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("phone must carry at least %d digits", phoneSuffixLen))
	}
	suffix := digits[len(digits)-phoneSuffixLen:]

	tenant, store, err := s.registry.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repos(store, tenant.ID).CustomerHistory(ctx, suffix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customer history lookup")
	}

	history := &History{
		Phone:       phone,
		OrderCount:  counts.OrderCount,
		ReturnCount: counts.ReturnCount,
	}
	if counts.OrderCount > 0 {
		history.ReturnRate = float64(counts.ReturnCount) / float64(counts.OrderCount)
	}
	return history, nil
}
