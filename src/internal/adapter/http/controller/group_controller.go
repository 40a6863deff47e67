package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/http/models"
	"github.com/api-sage/timelock-savings/src/internal/commons"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

type GroupController struct {
	service service_interfaces.GroupService
	clock   domain.Clock
}

func NewGroupController(service service_interfaces.GroupService, clock domain.Clock) *GroupController {
	return &GroupController{service: service, clock: clock}
}

func (c *GroupController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /groups", wrap(c.createGroup, authMiddleware))
	mux.Handle("GET /groups/{id}", wrap(c.getGroup, authMiddleware))
	mux.Handle("GET /groups/{id}/members", wrap(c.listMembers, authMiddleware))
	mux.Handle("POST /groups/{id}/join", wrap(c.amountAction("joined group", c.service.JoinGroupWithDeposit), authMiddleware))
	mux.Handle("POST /groups/{id}/deposit", wrap(c.amountAction("group deposit successful", c.service.GroupDeposit), authMiddleware))
	mux.Handle("POST /groups/{id}/withdraw", wrap(c.withdraw, authMiddleware))
	mux.Handle("POST /groups/{id}/close", wrap(c.callerAction("group closed", c.service.CloseGroup), authMiddleware))
	mux.Handle("POST /groups/{id}/start", wrap(c.callerAction("group lock started", c.service.StartGroupLock), authMiddleware))
}

func (c *GroupController) createGroup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateGroupRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	id, err := c.service.CreateGroup(r.Context(), domain.NewAccountID(req.Creator), req.Name, domain.LockOption(req.LockOption), req.Threshold)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusCreated, commons.SuccessResponse("group created", models.CreateGroupResponse{ID: id}), start)
}

func (c *GroupController) getGroup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}

	g, found, err := c.service.GetGroup(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}
	if !found {
		respondNotFound(w, r, "group", start)
		return
	}
	total, err := c.service.GroupTotalBalance(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	response := commons.SuccessResponse("group retrieved", models.NewGroupResponse(g, c.clock.BlockHeight(), total))
	respond(w, r, http.StatusOK, response, start)
}

func (c *GroupController) listMembers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}

	members, err := c.service.ListMembers(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("members retrieved", models.NewGroupMemberResponses(members)), start)
}

func (c *GroupController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}
	var req models.GroupAmountRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	amount, err := c.service.GroupWithdraw(r.Context(), domain.NewAccountID(req.Account), id, req.Amount)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("withdrawal successful", models.NewAmountResponse(amount)), start)
}

type groupAmountFunc func(ctx context.Context, account domain.AccountID, groupID uint64, amount uint64) error

func (c *GroupController) amountAction(message string, fn groupAmountFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id, ok := pathID(w, r, start)
		if !ok {
			return
		}
		var req models.GroupAmountRequest
		if !decodeBody(w, r, &req, start) {
			return
		}

		if err := fn(r.Context(), domain.NewAccountID(req.Account), id, req.Amount); err != nil {
			respondServiceError(w, r, err, start)
			return
		}

		respond(w, r, http.StatusOK, commons.SuccessResponse(message, models.NewAmountResponse(req.Amount)), start)
	}
}

type groupCallerFunc func(ctx context.Context, caller domain.AccountID, groupID uint64) error

func (c *GroupController) callerAction(message string, fn groupCallerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id, ok := pathID(w, r, start)
		if !ok {
			return
		}
		var req models.GroupCallerRequest
		if !decodeBody(w, r, &req, start) {
			return
		}

		if err := fn(r.Context(), domain.NewAccountID(req.Caller), id); err != nil {
			respondServiceError(w, r, err, start)
			return
		}

		phase, _, err := c.service.GetGroupPhase(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, err, start)
			return
		}
		respond(w, r, http.StatusOK, commons.SuccessResponse(message, map[string]string{"phase": string(phase)}), start)
	}
}
