package components

import (
	"obsidian/internal/pkg/clock"
	"obsidian/internal/usecase"
	"obsidian/internal/usecase/commands"
	"obsidian/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewTokenValidator,

		commands.NewAuthCommands,
		commands.NewCouponCommands,
		commands.NewCartCommands,
		commands.NewFavoritesCommands,

		queries.NewCouponQueries,
		queries.NewCartQueries,
		queries.NewFavoritesQueries,
		queries.NewProductQueries,
		queries.NewUserQueries,
	),
)
