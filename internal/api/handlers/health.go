// health.go — обработчики health endpoints и Prometheus метрик.
// Liveness — процесс жив, readiness — агрегат проверок зависимостей
// (PostgreSQL, директория загрузок).
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serviceName — имя сервиса в ответах health endpoints.
const serviceName = "registration-module"

// ReadinessChecker — проверка готовности одной зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// namedChecker — проверка с именем для ответа readiness probe.
type namedChecker struct {
	name    string
	checker ReadinessChecker
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	checkers []namedChecker
	metrics  http.Handler
	logger   *slog.Logger
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.Handler(),
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// RegisterChecker добавляет именованную проверку готовности.
func (h *HealthHandler) RegisterChecker(name string, checker ReadinessChecker) {
	h.checkers = append(h.checkers, namedChecker{name: name, checker: checker})
}

// checkResult — результат одной проверки в ответе readiness.
type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthResponse — ответ health endpoints.
type healthResponse struct {
	Status  string                 `json:"status"`
	Service string                 `json:"service"`
	Checks  map[string]checkResult `json:"checks,omitempty"`
}

// HealthLive — GET /health/live. Процесс жив — всегда 200.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}

// HealthReady — GET /health/ready. Агрегирует проверки зависимостей:
// все ok — 200, хотя бы одна fail — 503.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]checkResult, len(h.checkers))
	overall := "ok"

	for _, nc := range h.checkers {
		status, message := nc.checker.CheckReady()
		checks[nc.name] = checkResult{Status: status, Message: message}
		if status != "ok" {
			overall = "fail"
		}
	}

	code := http.StatusOK
	if overall != "ok" {
		code = http.StatusServiceUnavailable
		h.logger.Warn("Readiness probe: сервис не готов")
	}

	writeJSON(w, code, healthResponse{
		Status:  overall,
		Service: serviceName,
		Checks:  checks,
	})
}

// GetMetrics — GET /metrics. Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
