package settings

import (
	"errors"

	"github.com/aristath/folioview/internal/table"
)

// Setting keys
const (
	KeyDefaultPriceBasis = "default_price_basis"
	KeyDefaultPageSize   = "default_page_size"
	KeyReorderMode       = "reorder_mode"
)

// Page size bounds accepted for default_page_size
const (
	MinPageSize = 1
	MaxPageSize = table.MaxPageSize
)

var (
	// ErrUnknownSetting is returned for keys outside SettingDefaults
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidValue is returned when a value does not parse for its key
	ErrInvalidValue = errors.New("invalid setting value")
)

// SettingDefaults holds all default values for configurable settings
var SettingDefaults = map[string]string{
	KeyDefaultPriceBasis: "prevClose", // Basis for watchlist change %: "prevClose" or "open"
	KeyDefaultPageSize:   "10",        // Rows per page when a request carries no size
	KeyReorderMode:       "canonical", // "canonical", "locked_when_sorted" or "within_view"
}

// SettingDescriptions documents each setting; stored alongside the value
var SettingDescriptions = map[string]string{
	KeyDefaultPriceBasis: "Reference price for watchlist percentage change",
	KeyDefaultPageSize:   "Default number of rows per table page",
	KeyReorderMode:       "How manual watchlist reordering interacts with sorting and filtering",
}

// SettingUpdate represents a setting value update request
type SettingUpdate struct {
	Value interface{} `json:"value"`
}
