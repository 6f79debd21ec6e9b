package usecase

import (
	"testing"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

func TestValidateItems(t *testing.T) {
	cases := []struct {
		name  string
		items []model.OrderItem
		want  bool
	}{
		{"empty", nil, false},
		{"valid", []model.OrderItem{{ProductID: "p", UnitPrice: 100, Quantity: 1}}, true},
		{"free item", []model.OrderItem{{ProductID: "p", UnitPrice: 0, Quantity: 1}}, true},
		{"zero quantity", []model.OrderItem{{ProductID: "p", UnitPrice: 100}}, false},
		{"negative price", []model.OrderItem{{ProductID: "p", UnitPrice: -1, Quantity: 1}}, false},
		{"missing product", []model.OrderItem{{UnitPrice: 1, Quantity: 1}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateItems(tc.items); got != tc.want {
				t.Fatalf("ValidateItems() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"jane@example.com":          true,
		"":                          false,
		"jane":                      false,
		"Jane <jane@example.com>":   false,
		"jane@example.com trailing": false,
	}
	for email, want := range cases {
		if got := ValidateEmail(email); got != want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", email, got, want)
		}
	}
}
