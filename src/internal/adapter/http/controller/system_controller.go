package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/http/models"
	"github.com/api-sage/timelock-savings/src/internal/commons"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/metrics"
)

// SystemController serves the unauthenticated informational routes.
type SystemController struct {
	clock   domain.Clock
	metrics *metrics.Collector
}

func NewSystemController(clock domain.Clock, collector *metrics.Collector) *SystemController {
	return &SystemController{clock: clock, metrics: collector}
}

func (c *SystemController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /healthz", c.health)
	mux.HandleFunc("GET /lock-options", c.lockOptions)
	mux.HandleFunc("GET /clock", c.blockHeight)
}

func (c *SystemController) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, commons.SuccessResponse("ok", models.HealthResponse{Status: "up"}))
}

func (c *SystemController) lockOptions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	response := commons.SuccessResponse("lock options retrieved", models.NewLockOptionResponses(domain.LockOptions()))
	respond(w, r, http.StatusOK, response, start)
}

func (c *SystemController) blockHeight(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	height := c.clock.BlockHeight()
	c.metrics.SetBlockHeight(height)
	respond(w, r, http.StatusOK, commons.SuccessResponse("clock retrieved", models.ClockResponse{BlockHeight: height}), start)
}
