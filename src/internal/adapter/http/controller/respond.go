package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/commons"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/logger"
)

type empty = struct{}

type validatable interface {
	Validate() error
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respond(w http.ResponseWriter, r *http.Request, status int, payload any, start time.Time) {
	writeJSON(w, status, payload)
	logResponse(r, status, payload, start)
}

func respondBadRequest(w http.ResponseWriter, r *http.Request, message string, err error, start time.Time) {
	logError(r, err, nil)
	respond(w, r, http.StatusBadRequest, commons.ErrorResponse[empty](message, err.Error()), start)
}

// respondServiceError maps an engine rejection to its HTTP status and code.
// Anything that is not a ledger error is reported as a 500 without detail.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status, response := errorResponse(err)
	logError(r, err, logger.Fields{"status": status, "code": response.Code})
	respond(w, r, status, response, start)
}

func errorResponse(err error) (int, commons.Response[empty]) {
	le, ok := domain.AsLedgerError(err)
	if !ok {
		return http.StatusInternalServerError, commons.ErrorResponse[empty]("internal server error")
	}
	return statusForLedgerError(le), commons.CodedErrorResponse[empty](le.Code, le.Message)
}

func statusForLedgerError(le *domain.LedgerError) int {
	switch {
	case errors.Is(le, domain.ErrNoDeposit), errors.Is(le, domain.ErrGroupNotFound), errors.Is(le, domain.ErrNotMember):
		return http.StatusNotFound
	}

	switch le.Category {
	case domain.CategoryValidation:
		return http.StatusBadRequest
	case domain.CategoryAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

// decodeBody reads a JSON body into req and runs its Validate. On failure
// the 400 response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, req validatable, start time.Time) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondBadRequest(w, r, "invalid request body", err, start)
		return false
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		respondBadRequest(w, r, "validation failed", err, start)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, start time.Time) (uint64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondBadRequest(w, r, "invalid id", errors.New("id must be a positive integer"), start)
		return 0, false
	}
	return id, true
}

func queryAccount(w http.ResponseWriter, r *http.Request, key string, start time.Time) (domain.AccountID, bool) {
	account := domain.NewAccountID(r.URL.Query().Get(key))
	if !account.Valid() {
		respondBadRequest(w, r, "validation failed", errors.New(key+" is required"), start)
		return "", false
	}
	return account, true
}

func respondNotFound(w http.ResponseWriter, r *http.Request, what string, start time.Time) {
	respond(w, r, http.StatusNotFound, commons.ErrorResponse[empty](what+" not found"), start)
}

func wrap(handler http.HandlerFunc, authMiddleware func(http.Handler) http.Handler) http.Handler {
	if authMiddleware == nil {
		return handler
	}
	return authMiddleware(handler)
}
