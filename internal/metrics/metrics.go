package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Ledger computations
	BalanceComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_computations_total",
			Help: "Total balance/settlement computations served",
		},
	)
	SettlementTransfers = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "settlement_transfers_per_computation",
			Help:    "Number of transfers suggested per settlement computation",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
	)

	// Expenses
	ExpensesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expenses_created_total",
			Help: "Total expenses recorded",
		},
	)

	// Push channel
	WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Currently connected websocket clients",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(BalanceComputations)
	prometheus.MustRegister(SettlementTransfers)
	prometheus.MustRegister(ExpensesCreated)
	prometheus.MustRegister(WebsocketClients)
}
