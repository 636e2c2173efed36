package validate

import (
	"strings"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Required fails when value is empty or blank.
func Required(value string) types.ErrorCode {
	if strings.TrimSpace(value) == "" {
		return types.CodeRequired
	}
	return types.CodeNone
}

// OneOf fails when value is blank or not one of options. Radio pages
// offer only their options, so anything else reads as "nothing chosen".
func OneOf(value string, options ...string) types.ErrorCode {
	if c := Required(value); !c.OK() {
		return c
	}
	for _, o := range options {
		if value == o {
			return types.CodeNone
		}
	}
	return types.CodeRequired
}
