package handlers

import (
	"github.com/jmoiron/sqlx"

	"kurtikart/internal/cache"
	"kurtikart/internal/repos"
	"kurtikart/internal/services"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	AuthHandler    *AuthHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService, views *cache.Views) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	kurtiRepo := repos.NewKurtiRepo(db)
	otherRepo := repos.NewOtherProductRepo(db)
	offerRepo := repos.NewOfferRepo(db)
	cartRepo := repos.NewCartRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, kurtiRepo, otherRepo, offerRepo, views)
	cartSvc := services.NewCartService(cartRepo, kurtiRepo, views)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		AuthHandler:    &AuthHandler{Auth: auth},
	}
}
