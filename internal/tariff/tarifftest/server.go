// Package tarifftest provides an in-process fake of the trade-tariff API
// for tests.
package tarifftest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/tradecheck/internal/tariff"
)

// Fixtures is the data the fake serves.
type Fixtures struct {
	Commodities map[string]tariff.Commodity
	// Search is keyed by term, or by "heading:<code>" for drill-down.
	Search   map[string]tariff.SearchResult
	Measures map[string]tariff.Measures // keyed by commodity
	Duties   map[string]tariff.Duties   // keyed by commodity
	// Reject maps "param=value" to an upstream error code.
	Reject map[string]string
}

// Server is a running fake.
type Server struct {
	*httptest.Server
	calls atomic.Int64
}

// Calls returns the number of requests served.
func (s *Server) Calls() int {
	return int(s.calls.Load())
}

// NewServer starts a fake serving f. Close it when done.
func NewServer(f Fixtures) *Server {
	s := &Server{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.calls.Add(1)
			for key, vals := range r.URL.Query() {
				if code, ok := f.Reject[key+"="+vals[0]]; ok {
					reject(w, http.StatusBadRequest, code)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/commodities/{code}", func(w http.ResponseWriter, r *http.Request) {
		c, ok := f.Commodities[chi.URLParam(r, "code")]
		if !ok {
			reject(w, http.StatusNotFound, "COMMODITY_NOT_FOUND")
			return
		}
		writeJSON(w, c)
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		key := q.Get("term")
		if h := q.Get("heading"); h != "" {
			key = "heading:" + h
		}
		if sh := q.Get("subheading"); sh != "" {
			key = "subheading:" + sh + "-" + q.Get("suffix")
		}
		writeJSON(w, f.Search[key])
	})
	r.Get("/measures", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.Measures[r.URL.Query().Get("commodity")])
	})
	r.Get("/duties", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.Duties[r.URL.Query().Get("commodity")])
	})

	s.Server = httptest.NewServer(r)
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func reject(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]string{{"code": code, "detail": strings.ToLower(code)}},
	})
}

// Default returns fixtures for frogs' legs (0208907000), which carries
// three additional codes, CITES/IAS/organics measures and zero duties,
// plus live plants (0602909100) with non-zero duties.
func Default() Fixtures {
	frogs := tariff.Commodity{
		Code:        "0208907000",
		Description: "Frogs' legs",
		Ancestors: []string{
			"Meat and edible meat offal",
			"Other meat and edible meat offal, fresh, chilled or frozen",
			"Other",
		},
		AdditionalCodes: []tariff.AdditionalCode{
			{Code: "4100", Description: "Produced by Hubei Xinghua"},
			{Code: "4101", Description: "Produced by Zhejiang Mingfeng"},
			{Code: "4999", Description: "Other"},
		},
	}
	plants := tariff.Commodity{
		Code:        "0602909100",
		Description: "Other live plants, outdoor",
		Ancestors:   []string{"Live trees and other plants", "Other live plants", "Outdoor plants"},
	}

	return Fixtures{
		Commodities: map[string]tariff.Commodity{
			frogs.Code:  frogs,
			plants.Code: plants,
			"0101210000": {Code: "0101210000", Description: "Pure-bred breeding horses"},
			"9999000000": {Code: "9999000000", Description: "Upstream only commodity"},
		},
		Search: map[string]tariff.SearchResult{
			"frog": {Term: "frog", Results: []tariff.SearchItem{
				{Code: "0208", Kind: tariff.KindHeading, Description: "Other meat and edible meat offal, fresh, chilled or frozen", Ancestors: []string{"Meat and edible meat offal"}},
				{Code: "0208907000", Kind: tariff.KindCommodity, Description: "Frogs' legs", Ancestors: frogs.Ancestors, Leaf: true},
			}},
			"heading:0208": {Results: []tariff.SearchItem{
				{Code: "0208900000", Suffix: "10", Kind: tariff.KindSubheading, Description: "Other", Ancestors: frogs.Ancestors[:2]},
			}},
			"subheading:0208900000-10": {Results: []tariff.SearchItem{
				{Code: "0208907000", Kind: tariff.KindCommodity, Description: "Frogs' legs", Ancestors: frogs.Ancestors, Leaf: true},
			}},
		},
		Measures: map[string]tariff.Measures{
			frogs.Code: {Measures: []tariff.Measure{
				{ID: "m1", Kind: tariff.MeasureCertificate, Title: "CITES import permit", Certificates: []string{"Y900"},
					Children: []tariff.Measure{
						{ID: "m1a", Kind: tariff.MeasureLicence, Title: "Plant health licence", Gate: &tariff.Gate{Question: "CITES", Answer: "yes"}, Certificates: []string{"Y251"}},
					}},
				{ID: "m2", Kind: tariff.MeasureRestriction, Title: "Invasive alien species", Certificates: []string{"Y067"}},
				{ID: "m3", Kind: tariff.MeasureCertificate, Title: "Organic produce", Certificates: []string{"Y929", "Y999"}},
			}},
			plants.Code: {Measures: []tariff.Measure{
				{ID: "p1", Kind: tariff.MeasureCertificate, Title: "Phytosanitary certificate", Certificates: []string{"Y251", "Y252", "Y253", "Y256"}},
			}},
		},
		Duties: map[string]tariff.Duties{
			frogs.Code: {
				Tariffs: []tariff.DutyLine{{Description: "Third country duty", Value: "0.00%"}},
				Taxes:   []tariff.DutyLine{{Description: "VAT zero rate", Value: "0.00%"}},
			},
			plants.Code: {
				Tariffs: []tariff.DutyLine{{Description: "Third country duty", Value: "8.00%"}},
				Taxes:   []tariff.DutyLine{{Description: "VAT standard rate", Value: "20.00%"}},
			},
		},
		Reject: map[string]string{
			"originCountry=ZZ":      "INVALID_ORIGIN_COUNTRY",
			"destinationCountry=ZZ": "INVALID_DESTINATION_COUNTRY",
			"tradeType=transit":     "INVALID_TRADE_TYPE",
			"additionalCode=0000":   "INVALID_ADDITIONAL_CODE",
		},
	}
}
