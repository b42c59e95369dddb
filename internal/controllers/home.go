package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"games_hub/internal/models"
	"games_hub/internal/storage/uploads"
	"games_hub/internal/views"
)

type CatalogServicer interface {
	ListActive(ctx context.Context) ([]models.Game, error)
}

type HomeController struct {
	service CatalogServicer
	log     *slog.Logger
	uploads uploads.IUploads
	views   Renderer
}

func NewHomeController(s CatalogServicer, log *slog.Logger, u uploads.IUploads, v Renderer) *HomeController {
	return &HomeController{
		service: s,
		log:     log,
		uploads: u,
		views:   v,
	}
}

func (c *HomeController) Home(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.home.Home"

	games, err := c.service.ListActive(r.Context())
	if err != nil {
		c.log.Error(
			ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGames.Error(), http.StatusInternalServerError)
		return
	}

	cards := make([]views.GameCard, 0, len(games))
	for _, g := range games {
		cards = append(cards, views.GameCard{
			Name:         g.Name,
			Description:  g.Description,
			Link:         g.Link,
			Slug:         g.Slug,
			ThumbnailURL: c.uploads.URL(g.Thumbnail),
			AssetURL:     c.uploads.URL(g.Asset),
		})
	}

	renderPage(w, c.log, c.views, http.StatusOK, views.PageHome, views.HomePage{Games: cards})
}
