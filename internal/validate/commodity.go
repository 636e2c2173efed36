package validate

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// CommodityCodeLength is the number of digits in a full commodity code.
const CommodityCodeLength = 10

// CommodityCode checks the format of a commodity code. It cannot detect
// an unknown code; see ResolveCommodity.
func CommodityCode(code string) types.ErrorCode {
	code = strings.TrimSpace(code)
	if code == "" {
		return types.CodeRequired
	}
	if !isDigits(code) {
		return types.CodeNumber
	}
	if len(code) != CommodityCodeLength {
		return types.CodeDigits
	}
	return types.CodeNone
}

// KnownCodes reports whether a code is in the local reference dataset.
type KnownCodes interface {
	HasCommodity(ctx context.Context, code string) (bool, error)
}

// RemoteCodes resolves a code against the upstream API. It returns
// found=false when the upstream rejects the code as unknown.
type RemoteCodes interface {
	CommodityExists(ctx context.Context, code string) (bool, error)
}

// ResolveCommodity runs the format checks and then resolves the code,
// first locally and then upstream. A code that neither side knows is
// reported as types.CodeNotFound. Transport failures are returned as err.
func ResolveCommodity(ctx context.Context, code string, known KnownCodes, remote RemoteCodes) (types.ErrorCode, error) {
	if c := CommodityCode(code); !c.OK() {
		return c, nil
	}
	code = strings.TrimSpace(code)

	if known != nil {
		ok, err := known.HasCommodity(ctx, code)
		if err != nil {
			return types.CodeNone, err
		}
		if ok {
			return types.CodeNone, nil
		}
	}
	if remote == nil {
		return types.CodeNotFound, nil
	}
	ok, err := remote.CommodityExists(ctx, code)
	if err != nil {
		return types.CodeNone, err
	}
	if !ok {
		return types.CodeNotFound, nil
	}
	return types.CodeNone, nil
}
