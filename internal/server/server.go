package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"deliverytariff/internal/i18n"
	"deliverytariff/internal/logger"
	"deliverytariff/internal/metrics"
	"deliverytariff/internal/model"
	"deliverytariff/internal/pricing"
	"deliverytariff/internal/tariff"
)

// Resolver resolves a delivery tariff. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, regionCode, cityName string, weightKg float64) tariff.Tariff
}

// Catalog is the geography the storefront offers as destinations.
type Catalog interface {
	ListRegions(ctx context.Context) []model.Region
	ListDistricts(regionCode string) []model.District
}

type Server struct {
	tariffs Resolver
	catalog Catalog
}

func New(tariffs Resolver, catalog Catalog) http.Handler {
	s := &Server{tariffs: tariffs, catalog: catalog}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(logger.AccessMiddleware(logger.L()))
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/regions", s.handleListRegions)
	r.Get("/regions/{code}/districts", s.handleListDistricts)
	r.Get("/tariffs", s.handleGetTariff)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Regions
type RegionResponse struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	IsFreeDelivery   bool   `json:"is_free_delivery"`
	DeliveryETAHours int    `json:"delivery_eta_hours"`
}

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	loc := i18n.ParseLocale(r.URL.Query().Get("lang"))
	regions := s.catalog.ListRegions(r.Context())
	out := make([]RegionResponse, 0, len(regions))
	for _, reg := range regions {
		out = append(out, RegionResponse{
			Code:             reg.Code,
			Name:             regionName(reg, loc),
			IsFreeDelivery:   reg.IsFreeDelivery,
			DeliveryETAHours: reg.DeliveryETAHours,
		})
	}
	writeJSON(w, out)
}

type DistrictResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	IsHomeCity  bool   `json:"is_home_city"`
}

func (s *Server) handleListDistricts(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "region code required")
		return
	}
	loc := i18n.ParseLocale(r.URL.Query().Get("lang"))
	districts := s.catalog.ListDistricts(code)
	out := make([]DistrictResponse, 0, len(districts))
	for _, d := range districts {
		display := d.Name
		if loc == i18n.Ru && d.NameRu != "" {
			display = d.NameRu
		}
		out = append(out, DistrictResponse{Name: d.Name, DisplayName: display, IsHomeCity: d.IsHomeCity})
	}
	writeJSON(w, out)
}

// Tariffs
type TariffResponse struct {
	Region     string   `json:"region"`
	City       string   `json:"city"`
	WeightKg   float64  `json:"weight_kg"`
	Price      int64    `json:"price"`
	ETAHours   int      `json:"eta_hours"`
	Provenance []string `json:"provenance"`
	Estimated  bool     `json:"estimated"`
	PriceText  string   `json:"price_text"`
	ETAText    string   `json:"eta_text"`
	WeightText string   `json:"weight_text"`
}

func (s *Server) handleGetTariff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	region := strings.TrimSpace(q.Get("region"))
	if region == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "region required")
		return
	}
	city := strings.TrimSpace(q.Get("city"))
	var weightKg float64
	if raw := q.Get("weight_kg"); raw != "" {
		f, err := parseFloat(raw)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_weight", "weight_kg must be a number")
			return
		}
		weightKg = f
	}
	if weightKg < 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_weight", "weight_kg must not be negative")
		return
	}
	if !pricing.ValidWeight(weightKg) {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_weight", fmt.Sprintf("weight_kg must not exceed %g", pricing.MaxWeightKg))
		return
	}
	loc := i18n.ParseLocale(q.Get("lang"))

	t := s.tariffs.Resolve(r.Context(), region, city, weightKg)
	writeJSON(w, TariffResponse{
		Region:     region,
		City:       city,
		WeightKg:   t.WeightKg,
		Price:      t.Price,
		ETAHours:   t.ETAHours,
		Provenance: t.Provenance.Names(),
		Estimated:  t.Estimated(),
		PriceText:  i18n.FormatPrice(loc, t),
		ETAText:    i18n.FormatETA(loc, t),
		WeightText: i18n.FormatWeight(loc, weightKg),
	})
}

func regionName(r model.Region, loc i18n.Locale) string {
	var name string
	switch loc {
	case i18n.Uz:
		name = r.NameUz
	case i18n.Ru:
		name = r.NameRu
	default:
		name = r.NameEn
	}
	if name == "" {
		return r.Code
	}
	return name
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

func parseFloat(s string) (float64, error) {
	var n json.Number = json.Number(strings.TrimSpace(s))
	return n.Float64()
}
