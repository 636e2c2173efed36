package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

func TestCommodityCode(t *testing.T) {
	tests := []struct {
		code string
		want types.ErrorCode
	}{
		{"", types.CodeRequired},
		{"   ", types.CodeRequired},
		{"02089070a0", types.CodeNumber},
		{"0208 907000", types.CodeNumber},
		{"-208907000", types.CodeNumber},
		{"020890700", types.CodeDigits},
		{"02089070001", types.CodeDigits},
		{"0208", types.CodeDigits},
		{"0208907000", types.CodeNone},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, CommodityCode(tt.code))
		})
	}
}

type knownSet map[string]bool

func (k knownSet) HasCommodity(_ context.Context, code string) (bool, error) {
	return k[code], nil
}

type remoteStub struct {
	found bool
	err   error
	calls int
}

func (r *remoteStub) CommodityExists(_ context.Context, _ string) (bool, error) {
	r.calls++
	return r.found, r.err
}

func TestResolveCommodity(t *testing.T) {
	ctx := context.Background()
	known := knownSet{"0208907000": true}

	t.Run("format failures never reach a lookup", func(t *testing.T) {
		remote := &remoteStub{found: true}
		code, err := ResolveCommodity(ctx, "12ab", known, remote)
		require.NoError(t, err)
		assert.Equal(t, types.CodeNumber, code)
		assert.Zero(t, remote.calls)
	})

	t.Run("known locally skips upstream", func(t *testing.T) {
		remote := &remoteStub{}
		code, err := ResolveCommodity(ctx, "0208907000", known, remote)
		require.NoError(t, err)
		assert.Equal(t, types.CodeNone, code)
		assert.Zero(t, remote.calls)
	})

	t.Run("unknown locally resolved upstream", func(t *testing.T) {
		remote := &remoteStub{found: true}
		code, err := ResolveCommodity(ctx, "0101210000", known, remote)
		require.NoError(t, err)
		assert.Equal(t, types.CodeNone, code)
		assert.Equal(t, 1, remote.calls)
	})

	t.Run("unknown on both sides is not found", func(t *testing.T) {
		remote := &remoteStub{found: false}
		code, err := ResolveCommodity(ctx, "9999999999", known, remote)
		require.NoError(t, err)
		assert.Equal(t, types.CodeNotFound, code)
	})

	t.Run("transport failure is returned", func(t *testing.T) {
		boom := errors.New("boom")
		remote := &remoteStub{err: boom}
		_, err := ResolveCommodity(ctx, "9999999999", known, remote)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no upstream means not found", func(t *testing.T) {
		code, err := ResolveCommodity(ctx, "9999999999", known, nil)
		require.NoError(t, err)
		assert.Equal(t, types.CodeNotFound, code)
	})
}

func TestRequiredAndOneOf(t *testing.T) {
	assert.Equal(t, types.CodeRequired, Required(""))
	assert.Equal(t, types.CodeRequired, Required("  "))
	assert.Equal(t, types.CodeNone, Required("GB"))

	assert.Equal(t, types.CodeNone, OneOf("import", "import", "export"))
	assert.Equal(t, types.CodeRequired, OneOf("transit", "import", "export"))
	assert.Equal(t, types.CodeRequired, OneOf("", "import", "export"))
}
