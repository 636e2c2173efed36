package types

import "errors"

// Country is one entry of the country reference list.
type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameCY string `json:"name_cy,omitempty"`
	EU     bool   `json:"eu"`
}

// DisplayName returns the country name for lang, falling back to English
// when no Welsh name is recorded.
func (c Country) DisplayName(lang string) string {
	if lang == "cy" && c.NameCY != "" {
		return c.NameCY
	}
	return c.Name
}

// Commodity is one entry of the local commodity code dataset.
type Commodity struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Reference store errors.
var (
	ErrStoreDetached   = errors.New("reference store is detached")
	ErrAlreadyAttached = errors.New("reference store is already attached")
	ErrNotFound        = errors.New("entry not found")
)
