package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/http/models"
	"github.com/api-sage/timelock-savings/src/internal/commons"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

type LegacyController struct {
	service service_interfaces.LegacyService
	clock   domain.Clock
}

func NewLegacyController(service service_interfaces.LegacyService, clock domain.Clock) *LegacyController {
	return &LegacyController{service: service, clock: clock}
}

func (c *LegacyController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /legacy/deposit", wrap(c.deposit, authMiddleware))
	mux.Handle("POST /legacy/withdraw", wrap(c.withdraw, authMiddleware))
	mux.Handle("GET /legacy", wrap(c.getDeposit, authMiddleware))
}

func (c *LegacyController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LegacyDepositRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	amount, err := c.service.Deposit(r.Context(), domain.NewAccountID(req.Owner), req.Amount, domain.LockOption(req.LockOption))
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusCreated, commons.SuccessResponse("legacy deposit created", models.NewAmountResponse(amount)), start)
}

func (c *LegacyController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LegacyWithdrawRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	amount, err := c.service.Withdraw(r.Context(), domain.NewAccountID(req.Owner), req.Amount)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("withdrawal successful", models.NewAmountResponse(amount)), start)
}

func (c *LegacyController) getDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	owner, ok := queryAccount(w, r, "owner", start)
	if !ok {
		return
	}

	d, found, err := c.service.GetLegacyDeposit(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}
	if !found {
		respondNotFound(w, r, "legacy deposit", start)
		return
	}

	response := commons.SuccessResponse("legacy deposit retrieved", models.NewLegacyDepositResponse(d, c.clock.BlockHeight()))
	respond(w, r, http.StatusOK, response, start)
}
