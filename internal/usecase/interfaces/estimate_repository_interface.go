package interfaces

import (
	"context"
	"seguranca_xpto/internal/domain/entities"
)

// IEstimateRepository abstracts DynamoDB persistence for Estimate.
//
// The portal service must be able to:
//   - create an estimate when a customer requests a quote
//   - load a single estimate so both UIs can resolve its status
//   - list a customer's estimates for the portal overview
//   - write back the full mutated metadata after a lifecycle action

type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error)
	Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
}
