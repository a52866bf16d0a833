// metrics.go — доменные Prometheus метрики сервисного слоя.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// registrationsTotal — количество принятых заявок по типам.
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rm_registrations_total",
			Help: "Количество принятых заявок по типам (member, tournament)",
		},
		[]string{"kind"},
	)

	// statusTransitionsTotal — количество переходов статуса заявок.
	statusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rm_status_transitions_total",
			Help: "Количество переходов статуса заявок (approved, rejected)",
		},
		[]string{"status"},
	)
)
