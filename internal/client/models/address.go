package models

import (
	"fmt"
	"strings"
)

// Address is a saved delivery address. At most one address per user is the
// default.
type Address struct {
	ID          string `json:"_id,omitempty"`
	Label       string `json:"label"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	IsDefault   bool   `json:"isDefault,omitempty"`
}

// Validate reports the first missing required field.
func (a Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"label", a.Label},
		{"address line", a.AddressLine},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is required", f.name)
		}
	}
	return nil
}

func (a Address) String() string {
	return fmt.Sprintf("%s: %s, %s, %s - %s", a.Label, a.AddressLine, a.City, a.State, a.Pincode)
}
