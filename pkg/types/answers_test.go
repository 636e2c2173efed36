package types

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswers_WithDoesNotMutate(t *testing.T) {
	a := NewAnswers(FieldTradeType, TradeImport)
	b := a.With(FieldOriginCountry, "FR")

	assert.False(t, a.Has(FieldOriginCountry), "original set must be unchanged")
	assert.Equal(t, "FR", b.Get(FieldOriginCountry))
	assert.Equal(t, TradeImport, b.TradeType())
}

func TestAnswers_WithoutDoesNotMutate(t *testing.T) {
	a := NewAnswers(FieldIsEdit, "true", FieldOriginal, "FR", FieldCommodity, "0208907000")
	b := a.Without(FieldIsEdit, FieldOriginal)

	assert.True(t, a.IsEdit())
	assert.False(t, b.IsEdit())
	assert.Equal(t, "", b.Get(FieldOriginal))
	assert.Equal(t, "0208907000", b.Get(FieldCommodity))
}

func TestAnswers_Has(t *testing.T) {
	a := NewAnswers(FieldOriginCountry, "  ", FieldDestinationCountry, "GB")
	assert.False(t, a.Has(FieldOriginCountry), "blank value counts as absent")
	assert.True(t, a.Has(FieldDestinationCountry))
	assert.False(t, a.Has(FieldCommodity))
}

func TestAnswers_EncodeIsSorted(t *testing.T) {
	a := NewAnswers(FieldTradeType, TradeImport, FieldCommodity, "0208907000", FieldAdditionalCode, "false")
	assert.Equal(t, "additionalCode=false&commodity=0208907000&tradeType=import", a.Encode())
	assert.Equal(t, "/additional-code?additionalCode=false&commodity=0208907000&tradeType=import", a.URL("/additional-code"))
	assert.Equal(t, "/type-of-trade", Answers{}.URL("/type-of-trade"))
}

func TestAnswers_FromQueryKeepsFirstValue(t *testing.T) {
	q := url.Values{}
	q.Add(FieldOriginCountry, "FR")
	q.Add(FieldOriginCountry, "DE")
	q[""] = []string{"ignored"}

	a := FromQuery(q)
	assert.Equal(t, "FR", a.Get(FieldOriginCountry))
	assert.Equal(t, 1, a.Len())
}

func TestParseAnswers(t *testing.T) {
	a, err := ParseAnswers("tradeType=import&error=required&lang=cy")
	require.NoError(t, err)
	assert.Equal(t, []string{FieldError, FieldLang, FieldTradeType}, a.Fields())

	carried := a.Carried()
	assert.Equal(t, []string{FieldTradeType}, carried.Fields())

	_, err = ParseAnswers("%zz")
	assert.Error(t, err)
}

func TestAnswers_Date(t *testing.T) {
	a := NewAnswers(FieldExportDateDay, "1", FieldExportDateMonth, "2", FieldExportDateYear, "2027")
	d, m, y := a.Date(ExportDate)
	assert.Equal(t, []string{"1", "2", "2027"}, []string{d, m, y})

	d, m, y = a.Date(ImportDate)
	assert.Equal(t, []string{"", "", ""}, []string{d, m, y})
}

func TestAnswers_Merge(t *testing.T) {
	a := NewAnswers(FieldTradeType, TradeImport, FieldOriginCountry, "FR")
	b := a.Merge(NewAnswers(FieldOriginCountry, "DE", FieldDestinationCountry, "GB"))
	assert.Equal(t, "DE", b.Get(FieldOriginCountry))
	assert.Equal(t, "GB", b.Get(FieldDestinationCountry))
	assert.Equal(t, "FR", a.Get(FieldOriginCountry))
}

func TestAnswers_Pick(t *testing.T) {
	a := NewAnswers(FieldCommodity, "0208907000", FieldTradeType, TradeImport, FieldError, "required")
	p := a.Pick(FieldCommodity, FieldAdditionalCode)

	assert.Equal(t, []string{FieldCommodity}, p.Fields())
	assert.Equal(t, 3, a.Len())
}
