package usecase

import (
	"net/mail"
	"strings"

	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// ValidateItems checks that every line has a product, a non-negative price and a positive quantity.
func ValidateItems(items []model.OrderItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return false
		}
		if item.UnitPrice < 0 || item.Quantity <= 0 {
			return false
		}
	}
	return true
}

// ValidateEmail accepts a bare address such as "jane@example.com".
func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

func validateOrderInput(in CreateOrderInput) error {
	if !ValidateItems(in.Items) {
		return domainErrors.ErrInvalidOrder
	}
	if strings.TrimSpace(in.CustomerName) == "" || !ValidateEmail(in.CustomerEmail) {
		return domainErrors.ErrInvalidOrder
	}
	return nil
}
