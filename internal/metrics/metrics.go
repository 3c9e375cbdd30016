// Package metrics provides Prometheus instrumentation for the bot.
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BetsSeen counts bet offers detected in public channels.
	BetsSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketsnipe_bets_seen_total",
		Help: "Bet offers detected in monitored channels",
	})

	// CounterOffers counts counter-offers posted, by chain.
	CounterOffers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketsnipe_counter_offers_total",
		Help: "Counter-offers posted",
	}, []string{"chain"})

	// InsufficientFunds counts offers or latches refused for lack of balance.
	InsufficientFunds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketsnipe_insufficient_funds_total",
		Help: "Balance prechecks that failed",
	}, []string{"stage"})

	PaymentsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketsnipe_payments_sent_total",
		Help: "Escrow payments broadcast",
	}, []string{"chain"})

	DuplicatePaymentsBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketsnipe_duplicate_payments_blocked_total",
		Help: "Payment attempts refused by the idempotency store",
	})

	PayoutsMatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketsnipe_payouts_matched_total",
		Help: "Inbound payouts reconciled against won tickets",
	}, []string{"chain"})

	LockTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketsnipe_lock_timeouts_total",
		Help: "Messages dropped because the channel lock timed out",
	})

	RPCRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketsnipe_rpc_retries_total",
		Help: "Transient RPC failures that were retried",
	}, []string{"chain"})

	QuarantinedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketsnipe_quarantined_records_total",
		Help: "Snapshot records quarantined on restore",
	}, []string{"kind"})

	// TicketsByState tracks live tickets per state.
	TicketsByState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ticketsnipe_tickets",
		Help: "Tickets currently held, by state",
	}, []string{"state"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Router serves /metrics and /healthz.
func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"ticketsnipe"}`))
	})
	r.Handle("/metrics", Handler())
	return r
}
