// Package metrics defines the Prometheus collectors brew-bot exports
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelCommand = "command"
	LabelKind    = "kind"
	LabelResult  = "result"

	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brewbot_commands_total",
			Help: "Bot commands handled, by command name",
		},
		[]string{LabelCommand},
	)

	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brewbot_calculations_total",
			Help: "Calculator runs by kind and outcome",
		},
		[]string{LabelKind, LabelResult},
	)

	RemindersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brewbot_reminders_sent_total",
			Help: "Project reminders delivered",
		},
	)

	RecipesImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brewbot_recipes_imported_total",
			Help: "Recipe imports by outcome",
		},
		[]string{LabelResult},
	)
)
