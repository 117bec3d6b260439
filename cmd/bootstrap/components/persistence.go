package components

import (
	"obsidian/internal/infra/db"
	"obsidian/internal/infra/readstore"
	"obsidian/internal/infra/uow"
	"obsidian/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(readstore.NewCouponReadStore, fx.As(new(queries.CouponReadStore))),
		fx.Annotate(readstore.NewCartReadStore, fx.As(new(queries.CartReadStore))),
		fx.Annotate(readstore.NewFavoritesReadStore, fx.As(new(queries.FavoritesReadStore))),
		fx.Annotate(readstore.NewProductReadStore, fx.As(new(queries.ProductReadStore))),
		fx.Annotate(readstore.NewUserReadStore, fx.As(new(queries.UserReadStore))),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
