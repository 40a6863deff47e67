package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/http/models"
	"github.com/api-sage/timelock-savings/src/internal/commons"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

type WalletController struct {
	service service_interfaces.WalletService
}

func NewWalletController(service service_interfaces.WalletService) *WalletController {
	return &WalletController{service: service}
}

func (c *WalletController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /wallets/fund", wrap(c.fundWallet, authMiddleware))
	mux.Handle("GET /wallets/{account}", wrap(c.getWallet, authMiddleware))
}

func (c *WalletController) fundWallet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.FundWalletRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	wallet, err := c.service.FundWallet(r.Context(), domain.NewAccountID(req.Account), req.Amount)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("wallet funded", models.NewWalletResponse(wallet, nil)), start)
}

// getWallet includes the journal when called with ?entries=true.
func (c *WalletController) getWallet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account := domain.NewAccountID(r.PathValue("account"))
	wallet, err := c.service.GetWallet(r.Context(), account)
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	var entries []domain.WalletEntry
	if r.URL.Query().Get("entries") == "true" {
		entries, err = c.service.ListEntries(r.Context(), account)
		if err != nil {
			respondServiceError(w, r, err, start)
			return
		}
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("wallet retrieved", models.NewWalletResponse(wallet, entries)), start)
}
