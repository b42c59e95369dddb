package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"games_hub/internal/middleware"
	"games_hub/internal/models"
	"games_hub/internal/services"
	"games_hub/internal/storage"
	"games_hub/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadSize = 32 << 20

type GameServicer interface {
	List(ctx context.Context, search string) ([]models.Game, error)
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	Create(ctx context.Context, in services.GameInput, thumbnail, asset string) (*models.Game, error)
	Update(ctx context.Context, id int64, in services.GameInput, thumbnail, asset string) (*models.Game, error)
	UpdateOrder(ctx context.Context, id int64, order uint) error
	Delete(ctx context.Context, id int64) error
}

// GameResponse is a stored game plus the public URLs of its media.
type GameResponse struct {
	models.Game
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	AssetURL     string `json:"asset_url,omitempty"`
}

type UpdateOrderRequest struct {
	Order *uint `json:"order"`
}

type errorsResponse struct {
	Errors services.ValidationErrors `json:"errors"`
}

type GameController struct {
	service GameServicer
	log     *slog.Logger
	uploads uploads.IUploads
}

func NewGameController(s GameServicer, log *slog.Logger, u uploads.IUploads) *GameController {
	return &GameController{
		service: s,
		log:     log,
		uploads: u,
	}
}

func (c *GameController) response(g models.Game) GameResponse {
	return GameResponse{
		Game:         g,
		ThumbnailURL: c.uploads.URL(g.Thumbnail),
		AssetURL:     c.uploads.URL(g.Asset),
	}
}

// GetAll lists every game, active or not. An optional ?search= narrows the
// list by name, description or slug.
func (c *GameController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetAll"

	games, err := c.service.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		c.log.Error(
			ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGames.Error(), http.StatusInternalServerError)
		return
	}

	res := make([]GameResponse, 0, len(games))
	for _, g := range games {
		res = append(res, c.response(g))
	}

	writeJSON(w, c.log, http.StatusOK, res)
}

func (c *GameController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetByID"

	id, ok := c.gameID(w, r, op)
	if !ok {
		return
	}

	game, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.serviceError(w, op, err, ErrGetGame)
		return
	}

	writeJSON(w, c.log, http.StatusOK, c.response(*game))
}

// Create takes a multipart form with the game fields and optional
// thumbnail and asset files.
func (c *GameController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Create"

	in, ok := c.parseGameForm(w, r, op)
	if !ok {
		return
	}

	thumbnail, asset, ok := c.saveMedia(w, r, op)
	if !ok {
		return
	}

	game, err := c.service.Create(r.Context(), in, thumbnail, asset)
	if err != nil {
		c.discard(r.Context(), op, thumbnail, asset)
		c.serviceError(w, op, err, ErrCreate)
		return
	}

	c.log.Info("game created", slog.String("operation", op), slog.Int64("id", game.ID), adminID(r))

	writeJSON(w, c.log, http.StatusCreated, c.response(*game))
}

// Update replaces the game fields. Files sent with the request replace the
// stored ones, which are removed once the record is saved.
func (c *GameController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Update"

	id, ok := c.gameID(w, r, op)
	if !ok {
		return
	}

	existing, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.serviceError(w, op, err, ErrGetGame)
		return
	}

	in, ok := c.parseGameForm(w, r, op)
	if !ok {
		return
	}

	thumbnail, asset, ok := c.saveMedia(w, r, op)
	if !ok {
		return
	}

	game, err := c.service.Update(r.Context(), id, in, thumbnail, asset)
	if err != nil {
		c.discard(r.Context(), op, thumbnail, asset)
		c.serviceError(w, op, err, ErrUpdate)
		return
	}

	var stale []string
	if thumbnail != "" && existing.Thumbnail != "" {
		stale = append(stale, existing.Thumbnail)
	}
	if asset != "" && existing.Asset != "" {
		stale = append(stale, existing.Asset)
	}
	c.discard(r.Context(), op, stale...)

	c.log.Info("game updated", slog.String("operation", op), slog.Int64("id", id), adminID(r))

	writeJSON(w, c.log, http.StatusOK, c.response(*game))
}

// UpdateOrder moves a game on the homepage. Body: {"order": n}.
func (c *GameController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.UpdateOrder"

	id, ok := c.gameID(w, r, op)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<10)).Decode(&req); err != nil || req.Order == nil {
		c.log.Debug(ErrBadRequest.Error(), slog.String("operation", op))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if err := c.service.UpdateOrder(r.Context(), id, *req.Order); err != nil {
		c.serviceError(w, op, err, ErrUpdate)
		return
	}

	c.log.Info("game reordered", slog.String("operation", op), slog.Int64("id", id), slog.Uint64("order", uint64(*req.Order)), adminID(r))

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the game and then its stored files. A file that cannot be
// removed is logged and left behind.
func (c *GameController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Delete"

	id, ok := c.gameID(w, r, op)
	if !ok {
		return
	}

	game, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.serviceError(w, op, err, ErrGetGame)
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		c.serviceError(w, op, err, ErrDelete)
		return
	}

	c.discard(r.Context(), op, game.Thumbnail, game.Asset)

	c.log.Info("game deleted", slog.String("operation", op), slog.Int64("id", id), adminID(r))

	w.WriteHeader(http.StatusNoContent)
}

// adminID is the SSO user behind an admin request, for audit logging.
func adminID(r *http.Request) slog.Attr {
	id, _ := middleware.UserIDFromContext(r.Context())
	return slog.Uint64("admin_id", uint64(id))
}

func (c *GameController) gameID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		c.log.Debug(ErrInvalidID.Error(), slog.String("operation", op), slog.String("id", chi.URLParam(r, "id")))
		http.Error(w, ErrInvalidID.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseGameForm reads the text fields of a game form. A missing is_active
// means active; order must be a non-negative integer when given.
func (c *GameController) parseGameForm(w http.ResponseWriter, r *http.Request, op string) (services.GameInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxUploadSize)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, ErrFileTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return services.GameInput{}, false
		}
		c.log.Debug(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrParsingForm.Error(), http.StatusBadRequest)
		return services.GameInput{}, false
	}

	in := services.GameInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Link:        r.FormValue("link"),
		Slug:        r.FormValue("slug"),
		IsActive:    true,
	}

	errs := services.ValidationErrors{}

	if v := strings.TrimSpace(r.FormValue("order")); v != "" {
		order, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			errs.Add("order", "Enter a whole number.")
		}
		in.Order = uint(order)
	}

	if v := strings.TrimSpace(r.FormValue("is_active")); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil && v != "on" {
			errs.Add("is_active", "Enter true or false.")
		}
		in.IsActive = active || v == "on"
	}

	if len(errs) > 0 {
		writeJSON(w, c.log, http.StatusUnprocessableEntity, errorsResponse{Errors: errs})
		return services.GameInput{}, false
	}

	return in, true
}

// saveMedia stores the uploaded thumbnail and asset under fresh keys. Keys
// are empty for files that were not sent.
func (c *GameController) saveMedia(w http.ResponseWriter, r *http.Request, op string) (string, string, bool) {
	thumbnail, err := c.saveFile(r, "thumbnail", true)
	if err != nil {
		c.uploadError(w, op, "thumbnail", err)
		return "", "", false
	}

	asset, err := c.saveFile(r, "asset", false)
	if err != nil {
		c.discard(r.Context(), op, thumbnail)
		c.uploadError(w, op, "asset", err)
		return "", "", false
	}

	return thumbnail, asset, true
}

func (c *GameController) saveFile(r *http.Request, field string, image bool) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrInvalidUpload
	}
	if image && !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", ErrInvalidUpload
	}

	key := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	if err := c.uploads.Save(r.Context(), data, key); err != nil {
		return "", errors.Join(ErrSaveFile, err)
	}

	return key, nil
}

func (c *GameController) uploadError(w http.ResponseWriter, op, field string, err error) {
	if errors.Is(err, ErrInvalidUpload) {
		msg := "The submitted file is empty."
		if field == "thumbnail" {
			msg = "Upload a valid image."
		}
		writeJSON(w, c.log, http.StatusUnprocessableEntity, errorsResponse{
			Errors: services.ValidationErrors{field: {msg}},
		})
		return
	}

	c.log.Error(
		ErrSaveFile.Error(),
		slog.String("operation", op),
		slog.String("field", field),
		slog.String("error", err.Error()))
	http.Error(w, ErrSaveFile.Error(), http.StatusInternalServerError)
}

// discard removes stored files, logging failures.
func (c *GameController) discard(ctx context.Context, op string, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := c.uploads.Delete(ctx, key); err != nil {
			c.log.Warn(
				"failed to delete file",
				slog.String("operation", op),
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}
}

// serviceError maps service errors onto HTTP statuses. fallback names the
// failure reported for anything unexpected.
func (c *GameController) serviceError(w http.ResponseWriter, op string, err error, fallback error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, c.log, http.StatusUnprocessableEntity, errorsResponse{Errors: verrs})
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrExists):
		http.Error(w, ErrExists.Error(), http.StatusConflict)
	default:
		c.log.Error(
			fallback.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, fallback.Error(), http.StatusInternalServerError)
	}
}
