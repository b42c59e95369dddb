package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"games_hub/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ContactMessageLister interface {
	List(ctx context.Context, page, pageSize int) ([]models.ContactMessage, int, error)
}

type PaginationResponse struct {
	Total   int                     `json:"total"`   // all stored messages
	Pages   int                     `json:"pages"`   // number of pages
	Current int                     `json:"current"` // requested page
	Size    int                     `json:"size"`    // messages per page
	Data    []models.ContactMessage `json:"data"`
}

type ContactMessageController struct {
	service ContactMessageLister
	log     *slog.Logger
}

func NewContactMessageController(s ContactMessageLister, log *slog.Logger) *ContactMessageController {
	return &ContactMessageController{
		service: s,
		log:     log,
	}
}

// GetAll returns one page of received messages, newest first.
func (c *ContactMessageController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.contact_messages.GetAll"

	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(query.Get("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	} else if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	messages, total, err := c.service.List(r.Context(), page, pageSize)
	if err != nil {
		c.log.Error(
			ErrGetMessages.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetMessages.Error(), http.StatusInternalServerError)
		return
	}

	if messages == nil {
		messages = []models.ContactMessage{}
	}

	writeJSON(w, c.log, http.StatusOK, PaginationResponse{
		Total:   total,
		Pages:   (total + pageSize - 1) / pageSize,
		Current: page,
		Size:    pageSize,
		Data:    messages,
	})
}
