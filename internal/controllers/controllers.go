package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrBadRequest    = errors.New("bad request")
	ErrGetGames      = errors.New("failed to get games")
	ErrGetGame       = errors.New("failed to get game")
	ErrGetMessages   = errors.New("failed to get contact messages")
	ErrSaveMessage   = errors.New("failed to save message")
	ErrParsingForm   = errors.New("failed to parse form")
	ErrInvalidID     = errors.New("invalid id")
	ErrExists        = errors.New("already exists")
	ErrCreate        = errors.New("failed to create")
	ErrUpdate        = errors.New("failed to update")
	ErrDelete        = errors.New("failed to delete")
	ErrEncoding      = errors.New("failed to encode")
	ErrRender        = errors.New("failed to render page")
	ErrSaveFile      = errors.New("failed to save file")
	ErrFileTooLarge  = errors.New("file too large")
	ErrInvalidUpload = errors.New("invalid upload")
)

// Renderer draws a named page into w.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// renderPage renders into a buffer first so a template failure can still
// produce a clean 500.
func renderPage(w http.ResponseWriter, log *slog.Logger, views Renderer, status int, page string, data any) {
	var buf bytes.Buffer
	if err := views.Render(&buf, page, data); err != nil {
		log.Error(ErrRender.Error(), slog.String("page", page), slog.String("error", err.Error()))
		http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}
