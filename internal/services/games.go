package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"games_hub/internal/models"
	"games_hub/internal/storage"
	"games_hub/internal/storage/mariadb"
	"games_hub/utils"

	"gorm.io/gorm"
)

const defaultGameOrder = "order_num ASC, name ASC"

// GameInput is what an administrator submits to create or edit a game.
type GameInput struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description"`
	Link        string `form:"link" validate:"required,max=200,game_link"`
	Slug        string `form:"slug" validate:"max=120,slug"`
	Order       uint   `form:"order"`
	IsActive    bool   `form:"is_active"`
}

var gameLabels = map[string]string{
	"name": "Name",
	"link": "Link",
	"slug": "Slug",
}

// ValidateGame trims the input, derives a missing slug from the name and
// validates the result.
func ValidateGame(in GameInput) (GameInput, ValidationErrors) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Link = strings.TrimSpace(in.Link)
	in.Slug = strings.TrimSpace(in.Slug)

	if in.Slug == "" {
		in.Slug = utils.Slugify(in.Name)
	}

	errs := collect(in, gameLabels, nil)
	if in.Slug == "" && in.Name != "" && !errs.Has("slug") {
		errs.Add("slug", "Slug is required.")
	}

	return in, errs
}

// SortGames orders games by (Order, Name) in place. Ties on Order are broken
// by byte-wise name comparison so the result does not depend on collation.
func SortGames(games []models.Game) {
	slices.SortStableFunc(games, func(a, b models.Game) int {
		return cmp.Or(
			cmp.Compare(a.Order, b.Order),
			strings.Compare(a.Name, b.Name),
		)
	})
}

type GameService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewGameService(s *mariadb.Storage, log *slog.Logger) *GameService {
	return &GameService{
		storage: s,
		log:     log,
	}
}

// ListActive returns the games shown on the homepage.
func (s *GameService) ListActive(ctx context.Context) ([]models.Game, error) {
	const op = "services.games.ListActive"

	results := []models.Game{}

	if err := s.storage.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order(defaultGameOrder).
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	SortGames(results)

	return results, nil
}

// List returns every game, active or not, optionally filtered by a search
// term matched against name, description and slug.
func (s *GameService) List(ctx context.Context, search string) ([]models.Game, error) {
	const op = "services.games.List"

	results := []models.Game{}

	db := s.storage.DB.WithContext(ctx)

	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		db = db.Where("name LIKE ? OR description LIKE ? OR slug LIKE ?", like, like, like)
	}

	if err := db.Order(defaultGameOrder).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	SortGames(results)

	return results, nil
}

func (s *GameService) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	const op = "services.games.GetByID"

	var g models.Game

	if err := s.storage.DB.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &g, nil
}

// Create validates in and inserts a new game with the given media keys.
func (s *GameService) Create(ctx context.Context, in GameInput, thumbnail, asset string) (*models.Game, error) {
	const op = "services.games.Create"

	in, errs := ValidateGame(in)
	if len(errs) > 0 {
		return nil, errs
	}

	g := &models.Game{
		Name:        in.Name,
		Description: in.Description,
		Link:        in.Link,
		Slug:        in.Slug,
		Order:       in.Order,
		IsActive:    in.IsActive,
		Thumbnail:   thumbnail,
		Asset:       asset,
	}

	if err := s.storage.DB.WithContext(ctx).Create(g).Error; err != nil {
		if mariadb.IsDuplicate(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrExists)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrCreateFailed, err)
	}

	s.log.Info("game created", slog.String("operation", op), slog.Int64("id", g.ID), slog.String("slug", g.Slug))

	return g, nil
}

// Update replaces the editable fields of game id. Empty thumbnail or asset
// keys keep the stored ones.
func (s *GameService) Update(ctx context.Context, id int64, in GameInput, thumbnail, asset string) (*models.Game, error) {
	const op = "services.games.Update"

	in, errs := ValidateGame(in)
	if len(errs) > 0 {
		return nil, errs
	}

	var existing models.Game

	err := s.storage.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		existing.Name = in.Name
		existing.Description = in.Description
		existing.Link = in.Link
		existing.Slug = in.Slug
		existing.Order = in.Order
		existing.IsActive = in.IsActive
		if thumbnail != "" {
			existing.Thumbnail = thumbnail
		}
		if asset != "" {
			existing.Asset = asset
		}

		return tx.Model(&existing).
			Select("name", "description", "link", "slug", "order_num", "is_active", "thumbnail", "asset", "updated_at").
			Updates(&existing).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case mariadb.IsDuplicate(err):
		return nil, fmt.Errorf("%s: %w", op, storage.ErrExists)
	default:
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	return &existing, nil
}

// UpdateOrder changes only the homepage position of game id.
func (s *GameService) UpdateOrder(ctx context.Context, id int64, order uint) error {
	const op = "services.games.UpdateOrder"

	res := s.storage.DB.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ?", id).
		Update("order_num", order)
	if res.Error != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (s *GameService) Delete(ctx context.Context, id int64) error {
	const op = "services.games.Delete"

	res := s.storage.DB.WithContext(ctx).Delete(&models.Game{}, id)
	if res.Error != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrDeleteFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
