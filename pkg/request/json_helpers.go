package request

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JS-Ranker/tester/pkg/types"
)

// ReadString trims the input if it is a string and returns an error otherwise.
func ReadString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", fmt.Errorf("string is empty")
		}
		return trimmed, nil
	default:
		return "", fmt.Errorf("value is not a string")
	}
}

// ReadOptionalString accepts null, a string, or an empty string. Null and
// empty both come back as nil so callers can clear the field.
func ReadOptionalString(value interface{}) (*string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		return &trimmed, nil
	default:
		return nil, fmt.Errorf("value is not a string")
	}
}

// ReadWeight converts a JSON number or numeric string into a weight. Null
// clears the value.
func ReadWeight(value interface{}) (*types.Weight, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		w := types.Weight(decimal.NewFromFloat(v).Round(3))
		return &w, nil
	case string:
		w, err := types.NewWeightFromString(v)
		if err != nil {
			return nil, err
		}
		return &w, nil
	default:
		return nil, fmt.Errorf("value is not a number")
	}
}
