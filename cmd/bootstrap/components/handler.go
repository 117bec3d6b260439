package components

import (
	"obsidian/internal/handler"
	"obsidian/internal/handler/api"
	"obsidian/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCouponHandler,
		api.NewCartHandler,
		api.NewFavoritesHandler,
		api.NewProductHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(
		handler.NewRouter,
	),
)
