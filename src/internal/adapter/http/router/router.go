package router

import "net/http"

type DepositRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type LegacyRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type GroupRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type PriceRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type WalletRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type SystemRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type Controllers struct {
	Deposit DepositRouteRegistrar
	Legacy  LegacyRouteRegistrar
	Group   GroupRouteRegistrar
	Price   PriceRouteRegistrar
	Wallet  WalletRouteRegistrar
	System  SystemRouteRegistrar
}

func New(controllers Controllers, authMiddleware func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	if controllers.Deposit != nil {
		controllers.Deposit.RegisterRoutes(mux, authMiddleware)
	}
	if controllers.Legacy != nil {
		controllers.Legacy.RegisterRoutes(mux, authMiddleware)
	}
	if controllers.Group != nil {
		controllers.Group.RegisterRoutes(mux, authMiddleware)
	}
	if controllers.Price != nil {
		controllers.Price.RegisterRoutes(mux, authMiddleware)
	}
	if controllers.Wallet != nil {
		controllers.Wallet.RegisterRoutes(mux, authMiddleware)
	}
	if controllers.System != nil {
		controllers.System.RegisterRoutes(mux, authMiddleware)
	}

	return mux
}
