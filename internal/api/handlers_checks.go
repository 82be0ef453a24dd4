// internal/api/handlers_checks.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hol-manager/internal/checks"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/common/metrics"
)

// CheckRunner is the orchestrator contract both trigger endpoints share.
type CheckRunner interface {
	RunChecks(ctx context.Context) *checks.CheckRunResult
}

type ChecksHandler struct {
	runner CheckRunner
	logger logger.Logger
}

func NewChecksHandler(runner CheckRunner, log logger.Logger) *ChecksHandler {
	return &ChecksHandler{runner: runner, logger: log}
}

// RunScheduled handles the scheduler-invoked trigger. The response is always
// 200 once past the caller check: internal failures live in the result body,
// never in the status code, so the external scheduler does not retry-storm.
func (h *ChecksHandler) RunScheduled(c *gin.Context) {
	h.run(c, "scheduled")
}

// RunManual handles the "run now" action from the UI. Same contract as the
// scheduled trigger.
func (h *ChecksHandler) RunManual(c *gin.Context) {
	h.run(c, "manual")
}

func (h *ChecksHandler) run(c *gin.Context, trigger string) {
	start := time.Now()
	result := h.runner.RunChecks(c.Request.Context())
	metrics.CheckRunsTotal.WithLabelValues(trigger).Inc()
	metrics.CheckRunDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())

	respondSuccess(c, http.StatusOK, result)
}
