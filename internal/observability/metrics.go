package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopsight/internal/logging"
)

var (
	CatalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog loads by result",
		},
		[]string{"result"},
	)

	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Products in the current catalog snapshot",
		},
	)

	CatalogRowsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rows_dropped_total",
			Help: "Source rows dropped during normalization",
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_searches_total",
			Help: "Catalog searches by sort order",
		},
		[]string{"sort_by"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tool_calls_total",
			Help: "Agent tool invocations by tool and status",
		},
		[]string{"tool", "status"},
	)

	AgentIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agent_iterations",
			Help:    "LLM round trips per answered message",
			Buckets: []float64{1, 2, 3, 4, 5, 8},
		},
	)

	EmbeddingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "embeddings_total",
			Help: "Product chunks embedded by the ingestion pipeline",
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CatalogLoadsTotal,
			CatalogProducts,
			CatalogRowsDropped,
			SearchesTotal,
			ToolCallsTotal,
			AgentIterations,
			EmbeddingsTotal,
		)
	})
}

// Start registers the collectors and serves /metrics on port in the background.
func Start(port string) {
	Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logger := logging.Component("metrics")
		logger.Info().Str("port", port).Msg("metrics listening")
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}

// RecordCatalogLoad updates the catalog collectors after a load.
func RecordCatalogLoad(products, dropped int, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	CatalogLoadsTotal.WithLabelValues(result).Inc()
	CatalogProducts.Set(float64(products))
	CatalogRowsDropped.Add(float64(dropped))
}
