package refdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

func attachedStore(t *testing.T, dataDir string) *Store {
	t.Helper()
	s := NewStore(nil)
	require.NoError(t, s.Attach(dataDir))
	t.Cleanup(func() { s.Detach() })
	return s
}

func TestStore_AttachLifecycle(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Attach(""))

	assert.ErrorIs(t, s.Attach(""), types.ErrAlreadyAttached)

	require.NoError(t, s.Detach())
	require.NoError(t, s.Detach(), "Detach is idempotent")

	_, err := s.Country(context.Background(), "FR")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = s.Countries(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = s.Commodity(context.Background(), "0208907000")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestStore_EmbeddedSeed(t *testing.T) {
	ctx := context.Background()
	s := attachedStore(t, "")

	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{
			name: "France is an EU member",
			check: func(t *testing.T) {
				eu, err := s.IsEU(ctx, "FR")
				require.NoError(t, err)
				assert.True(t, eu)
			},
		},
		{
			name: "Northern Ireland is not an EU member",
			check: func(t *testing.T) {
				eu, err := s.IsEU(ctx, types.CountryXI)
				require.NoError(t, err)
				assert.False(t, eu)
			},
		},
		{
			name: "unknown country is not EU and not an error",
			check: func(t *testing.T) {
				eu, err := s.IsEU(ctx, "XX")
				require.NoError(t, err)
				assert.False(t, eu)
			},
		},
		{
			name: "unknown country lookup returns ErrNotFound",
			check: func(t *testing.T) {
				_, err := s.Country(ctx, "XX")
				assert.ErrorIs(t, err, types.ErrNotFound)
			},
		},
		{
			name: "Welsh name falls back to English",
			check: func(t *testing.T) {
				fr, err := s.Country(ctx, "FR")
				require.NoError(t, err)
				assert.Equal(t, "Ffrainc", fr.DisplayName("cy"))
				assert.Equal(t, "France", fr.DisplayName("en"))

				sg, err := s.Country(ctx, "SG")
				require.NoError(t, err)
				assert.Equal(t, "Singapore", sg.DisplayName("cy"))
			},
		},
		{
			name: "countries are ordered by name",
			check: func(t *testing.T) {
				list, err := s.Countries(ctx)
				require.NoError(t, err)
				require.NotEmpty(t, list)
				for i := 1; i < len(list); i++ {
					assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
				}
			},
		},
		{
			name: "known commodity resolves",
			check: func(t *testing.T) {
				ok, err := s.HasCommodity(ctx, "0208907000")
				require.NoError(t, err)
				assert.True(t, ok)

				c, err := s.Commodity(ctx, "0208907000")
				require.NoError(t, err)
				assert.Equal(t, "Frogs' legs", c.Description)
			},
		},
		{
			name: "unknown commodity does not resolve",
			check: func(t *testing.T) {
				ok, err := s.HasCommodity(ctx, "9999999999")
				require.NoError(t, err)
				assert.False(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}

func TestStore_DataDirOverrides(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	codes := `{"code":"1234567890","description":"Test widget"}
not json
{"code":"1234567890","description":"duplicate is skipped"}
{"description":"missing code is skipped"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "codes.jsonl"), []byte(codes), 0o644))

	s := attachedStore(t, dataDir)

	_, err := os.Stat(filepath.Join(dataDir, dbFileName))
	require.NoError(t, err, "refdata.db should be created in the data dir")

	c, err := s.Commodity(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "Test widget", c.Description)

	ok, err := s.HasCommodity(ctx, "0208907000")
	require.NoError(t, err)
	assert.False(t, ok, "data dir codes replace the embedded codes")

	eu, err := s.IsEU(ctx, "DE")
	require.NoError(t, err)
	assert.True(t, eu, "countries fall back to the embedded seed")
}

func TestExportSeed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	written, err := ExportSeed(dir)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	f, err := os.Open(filepath.Join(dir, "countries.jsonl"))
	require.NoError(t, err)
	defer f.Close()
	records, err := readJSONL(f)
	require.NoError(t, err)
	assert.NotEmpty(t, records)

	written, err = ExportSeed(dir)
	require.NoError(t, err)
	assert.Empty(t, written, "existing files are not overwritten")

	s := attachedStore(t, dir)
	ok, err := s.HasCommodity(context.Background(), "0208907000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadJSONLFile_Missing(t *testing.T) {
	records, err := readJSONLFile(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	assert.Nil(t, records)
}
