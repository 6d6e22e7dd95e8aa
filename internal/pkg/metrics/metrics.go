// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gym"

// CheckinsTotal counts admission attempts.
// Labels:
//   - channel: "qr", "manual" or "self-checkin"
//   - result: "admitted" or "denied"
var CheckinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkins_total",
		Help:      "Total number of check-in attempts, by channel and result.",
	},
	[]string{"channel", "result"},
)

// MembershipMutationsTotal counts admin membership changes.
// Label:
//   - action: "activate", "extend" or "deactivate"
var MembershipMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "membership_mutations_total",
		Help:      "Total number of admin membership mutations, by action.",
	},
	[]string{"action"},
)

// SweepDeactivatedTotal counts memberships flipped to inactive by the expiry sweep.
var SweepDeactivatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_deactivated_total",
		Help:      "Total number of memberships deactivated by the expiry sweep.",
	},
)

// SweepRunsTotal counts sweep executions.
// Label:
//   - trigger: "cron", "admin", "endpoint" or "cli"
var SweepRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_runs_total",
		Help:      "Total number of expiry sweep runs, by trigger.",
	},
	[]string{"trigger"},
)

// RemindersSentTotal counts expiry reminder emails handed to the mailer.
var RemindersSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_sent_total",
		Help:      "Total number of membership expiry reminders sent.",
	},
)
