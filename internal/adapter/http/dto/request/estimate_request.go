package request

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEstimateValue = errors.New("invalid estimate value")
)

type EquipmentItemRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required"`
}

type LaborItemRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
}

// CreateEstimateRequest is the quote-request payload coming from the customer
// portal. The estimate total is derived from the itemized equipment and labor.
type CreateEstimateRequest struct {
	CustomerID  string                 `json:"customer_id" binding:"required"`
	SiteAddress string                 `json:"site_address"`
	Equipment   []EquipmentItemRequest `json:"equipment"`
	Labor       []LaborItemRequest     `json:"labor"`
}

func (r CreateEstimateRequest) ResolveCustomerID() string {
	return strings.TrimSpace(r.CustomerID)
}

func (r CreateEstimateRequest) ResolvePrice() (float64, error) {
	total := 0.0
	for _, l := range r.Labor {
		if l.Price > 0 {
			total += l.Price
		}
	}
	for _, eq := range r.Equipment {
		if eq.Price > 0 && eq.Quantity > 0 {
			total += eq.Price * float64(eq.Quantity)
		}
	}
	if total > 0 {
		return total, nil
	}

	return 0, ErrInvalidEstimateValue
}

// SendEstimateRequest carries the admin's choice of whether installation
// photos are required before review.
type SendEstimateRequest struct {
	PhotosRequired bool `json:"photos_required"`
}
