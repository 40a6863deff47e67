package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/http/models"
	"github.com/api-sage/timelock-savings/src/internal/commons"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

type DepositController struct {
	service service_interfaces.DepositService
	clock   domain.Clock
}

func NewDepositController(service service_interfaces.DepositService, clock domain.Clock) *DepositController {
	return &DepositController{service: service, clock: clock}
}

func (c *DepositController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /deposits", wrap(c.createDeposit, authMiddleware))
	mux.Handle("GET /deposits", wrap(c.listDeposits, authMiddleware))
	mux.Handle("GET /deposits/summary", wrap(c.getSummary, authMiddleware))
	mux.Handle("GET /deposits/{id}", wrap(c.getDeposit, authMiddleware))
	mux.Handle("POST /deposits/{id}/withdraw", wrap(c.withdrawDeposit, authMiddleware))
}

func (c *DepositController) createDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateDepositRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	owner := domain.NewAccountID(req.Owner)
	option := domain.LockOption(req.LockOption)
	id, err := c.service.CreateDeposit(r.Context(), owner, req.Amount, option, req.Name)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	d, _, err := c.service.GetDeposit(r.Context(), owner, id)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	response := commons.SuccessResponse("deposit created", models.CreateDepositResponse{
		ID:         id,
		Owner:      owner.String(),
		Amount:     req.Amount,
		LockExpiry: d.LockExpiry,
	})
	respond(w, r, http.StatusCreated, response, start)
}

func (c *DepositController) withdrawDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}
	var req models.WithdrawDepositRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	amount, err := c.service.WithdrawDeposit(r.Context(), domain.NewAccountID(req.Owner), id, req.Amount)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("withdrawal successful", models.NewAmountResponse(amount)), start)
}

func (c *DepositController) getDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}
	owner, ok := queryAccount(w, r, "owner", start)
	if !ok {
		return
	}

	d, found, err := c.service.GetDeposit(r.Context(), owner, id)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}
	if !found {
		respondNotFound(w, r, "deposit", start)
		return
	}

	response := commons.SuccessResponse("deposit retrieved", models.NewDepositResponse(d, c.clock.BlockHeight()))
	respond(w, r, http.StatusOK, response, start)
}

func (c *DepositController) listDeposits(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	owner, ok := queryAccount(w, r, "owner", start)
	if !ok {
		return
	}

	deposits, err := c.service.ListDeposits(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	now := c.clock.BlockHeight()
	data := make([]models.DepositResponse, 0, len(deposits))
	for _, d := range deposits {
		data = append(data, models.NewDepositResponse(d, now))
	}
	respond(w, r, http.StatusOK, commons.SuccessResponse("deposits retrieved", data), start)
}

func (c *DepositController) getSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	owner, ok := queryAccount(w, r, "owner", start)
	if !ok {
		return
	}

	summary, err := c.service.Summary(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("summary retrieved", models.NewDepositSummaryResponse(summary)), start)
}
