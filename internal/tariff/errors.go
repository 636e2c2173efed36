package tariff

import (
	"errors"
	"fmt"
)

// Rejections by the upstream API. Handlers map each onto the page that
// owns the rejected answer.
var (
	ErrInvalidDestination    = errors.New("invalid destination country")
	ErrInvalidOrigin         = errors.New("invalid origin country")
	ErrInvalidTradeType      = errors.New("invalid trade type")
	ErrInvalidAdditionalCode = errors.New("invalid additional code")
	ErrCommodityNotFound     = errors.New("commodity not found")
)

// ErrUpstream wraps every failure that is not a rejection.
var ErrUpstream = errors.New("tariff api unavailable")

// rejectionCodes maps upstream error codes to rejection errors.
var rejectionCodes = map[string]error{
	"INVALID_DESTINATION_COUNTRY": ErrInvalidDestination,
	"INVALID_ORIGIN_COUNTRY":      ErrInvalidOrigin,
	"INVALID_TRADE_TYPE":          ErrInvalidTradeType,
	"INVALID_ADDITIONAL_CODE":     ErrInvalidAdditionalCode,
	"COMMODITY_NOT_FOUND":         ErrCommodityNotFound,
}

// StatusError reports an unexpected upstream HTTP status.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tariff api %s: status %d", e.Path, e.Status)
}

// Unwrap lets errors.Is match ErrUpstream.
func (e *StatusError) Unwrap() error {
	return ErrUpstream
}

// IsRejection reports whether err is one of the rejection errors.
func IsRejection(err error) bool {
	for _, r := range rejectionCodes {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
