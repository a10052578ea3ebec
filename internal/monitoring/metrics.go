package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	QuotesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_issued_total",
			Help: "Option contracts issued by the bank",
		},
		[]string{"kind"},
	)

	QuotesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_failed_total",
			Help: "Quote requests rejected or exhausted",
		},
	)

	ContractsSettled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contracts_settled_total",
			Help: "Contracts retired at expiration",
		},
	)

	PayoutTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_payout_total",
			Help: "Cash paid out to option holders",
		},
	)

	DaysSimulated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "days_simulated_total",
			Help: "Simulated trading days completed",
		},
	)
)

func Init() {
	prometheus.MustRegister(QuotesIssued)
	prometheus.MustRegister(QuotesFailed)
	prometheus.MustRegister(ContractsSettled)
	prometheus.MustRegister(PayoutTotal)
	prometheus.MustRegister(DaysSimulated)
}
