package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validListing() *Listing {
	return &Listing{
		Name:        "Bakso Pak Kumis",
		Description: "Bakso urat",
		Address:     "Jl. Slamet Riyadi 1",
		Category:    "Kuliner",
		Payments:    []PaymentMethod{PaymentCash},
	}
}

func TestListingValidate(t *testing.T) {
	assert.NoError(t, validListing().Validate())

	cases := map[string]func(l *Listing){
		"empty name":        func(l *Listing) { l.Name = "  " },
		"empty address":     func(l *Listing) { l.Address = "" },
		"unknown category":  func(l *Listing) { l.Category = "Otomotif" },
		"sentinel category": func(l *Listing) { l.Category = CategoryAll },
		"bad payment":       func(l *Listing) { l.Payments = []PaymentMethod{"Cek"} },
		"bad status":        func(l *Listing) { l.Status = "archived" },
		"bad location":      func(l *Listing) { l.Location = &Location{Latitude: 91} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			l := validListing()
			mutate(l)
			assert.ErrorIs(t, l.Validate(), ErrInvalidListingData)
		})
	}
}

func TestIsAllCategories(t *testing.T) {
	assert.True(t, IsAllCategories(""))
	assert.True(t, IsAllCategories("Semua"))
	assert.True(t, IsAllCategories("all"))
	assert.False(t, IsAllCategories("Kuliner"))
}
