package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TariffResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariff_resolutions_total",
		Help: "Resolved tariffs by the pipeline stage that produced them",
	}, []string{"stage"})
	TariffResolveDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tariff_resolve_duration_ms",
		Help:    "Tariff resolution duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	TariffCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariff_cache_lookups_total",
		Help: "Tariff cache probes by result (hit, miss, stale)",
	}, []string{"result"})
	TariffSourceErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariff_source_errors_total",
		Help: "Errors swallowed at a pipeline source boundary",
	}, []string{"source"})
	RegionListRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "region_list_refresh_total",
		Help: "Region list refreshes by outcome (store, static)",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(TariffResolutionsTotal)
	prometheus.MustRegister(TariffResolveDurationMs)
	prometheus.MustRegister(TariffCacheLookupsTotal)
	prometheus.MustRegister(TariffSourceErrorsTotal)
	prometheus.MustRegister(RegionListRefreshTotal)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
