package domain

import (
	"fmt"
	"strings"
)

func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Validate checks the fields every stored listing must carry.
func (l *Listing) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidListingData)
	}
	if strings.TrimSpace(l.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidListingData)
	}
	if strings.TrimSpace(l.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidListingData)
	}
	if !ValidCategory(l.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidListingData, l.Category)
	}
	for _, p := range l.Payments {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown payment method %q", ErrInvalidListingData, p)
		}
	}
	if l.Status != "" && !l.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidListingData, l.Status)
	}
	if l.Location != nil && !l.Location.Valid() {
		return fmt.Errorf("%w: location out of range", ErrInvalidListingData)
	}
	return nil
}
