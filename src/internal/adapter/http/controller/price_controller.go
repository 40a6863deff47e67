package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/http/models"
	"github.com/api-sage/timelock-savings/src/internal/commons"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

type PriceController struct {
	service service_interfaces.PriceService
}

func NewPriceController(service service_interfaces.PriceService) *PriceController {
	return &PriceController{service: service}
}

func (c *PriceController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("GET /price", wrap(c.getPrice, authMiddleware))
	mux.Handle("POST /price", wrap(c.updatePrice, authMiddleware))
	mux.Handle("POST /price/authority", wrap(c.transferAuthority, authMiddleware))
}

func (c *PriceController) getPrice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	state, err := c.service.GetPrice(r.Context())
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("price retrieved", models.NewPriceResponse(state)), start)
}

func (c *PriceController) updatePrice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UpdatePriceRequest
	if !decodeBody(w, r, &req, start) {
		return
	}
	unitPrice, err := req.ResolveUnitPrice()
	if err != nil {
		respondBadRequest(w, r, "validation failed", err, start)
		return
	}

	if _, err := c.service.UpdatePrice(r.Context(), domain.NewAccountID(req.Caller), unitPrice); err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	state, err := c.service.GetPrice(r.Context())
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}
	respond(w, r, http.StatusOK, commons.SuccessResponse("price updated", models.NewPriceResponse(state)), start)
}

func (c *PriceController) transferAuthority(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransferAuthorityRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	err := c.service.TransferAuthority(r.Context(), domain.NewAccountID(req.Caller), domain.NewAccountID(req.NewAuthority))
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}

	state, err := c.service.GetPrice(r.Context())
	if err != nil {
		respondServiceError(w, r, err, start)
		return
	}
	respond(w, r, http.StatusOK, commons.SuccessResponse("authority transferred", models.NewPriceResponse(state)), start)
}
