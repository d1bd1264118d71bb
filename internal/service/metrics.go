package service

import "github.com/prometheus/client_golang/prometheus"

var (
	AccrualTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roi_accrual_ticks_total",
			Help: "Purchases successfully ticked by the daily ROI job",
		},
	)
	AccrualSweeps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roi_accrual_sweeps_total",
			Help: "ROI sweeps credited to wallet balances",
		},
	)
	AccrualFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roi_accrual_failures_total",
			Help: "Per-purchase tick failures, by reason",
		},
		[]string{"reason"},
	)
	BonusDistributions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_bonus_distributions_total",
			Help: "Completed referral bonus distributions",
		},
	)
)

func init() {
	prometheus.MustRegister(AccrualTicks)
	prometheus.MustRegister(AccrualSweeps)
	prometheus.MustRegister(AccrualFailures)
	prometheus.MustRegister(BonusDistributions)
}
