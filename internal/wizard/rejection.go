package wizard

import (
	"errors"

	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Rejection maps an upstream rejection onto the page that collected the
// rejected answer and the code that page shows. ok is false for errors
// that are not rejections.
func (f *Flow) Rejection(err error) (path string, code types.ErrorCode, ok bool) {
	switch {
	case errors.Is(err, tariff.ErrInvalidTradeType):
		return PathTypeOfTrade, types.CodeInvalid, true
	case errors.Is(err, tariff.ErrInvalidOrigin):
		return f.OriginStep().Path, types.CodeInvalid, true
	case errors.Is(err, tariff.ErrInvalidDestination):
		return f.DestinationStep().Path, types.CodeInvalid, true
	case errors.Is(err, tariff.ErrInvalidAdditionalCode):
		return PathAdditionalCode, types.CodeInvalid, true
	case errors.Is(err, tariff.ErrCommodityNotFound):
		return f.CommodityStep().Path, types.CodeNotFound, true
	}
	return "", types.CodeNone, false
}
