package enums

import "fmt"

// CourierMode selects which request shape the dispatch client sends.
type CourierMode string

const (
	// CourierModeNewParcel books a fresh parcel; the courier assigns the waybill.
	CourierModeNewParcel CourierMode = "NEW_PARCEL"
	// CourierModeExistingWaybill activates a pre-printed waybill the tenant already holds.
	CourierModeExistingWaybill CourierMode = "EXISTING_WAYBILL"
)

var validCourierModes = []CourierMode{
	CourierModeNewParcel,
	CourierModeExistingWaybill,
}

// String implements fmt.Stringer.
func (c CourierMode) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CourierMode.
func (c CourierMode) IsValid() bool {
	for _, candidate := range validCourierModes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCourierMode converts the raw string to CourierMode.
func ParseCourierMode(value string) (CourierMode, error) {
	for _, candidate := range validCourierModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid courier mode %q", value)
}
