package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"games_hub/internal/models"
	"games_hub/internal/services"
	"games_hub/internal/views"

	"github.com/gorilla/schema"
)

const (
	ContactSuccessPath = "/contact/success/"

	maxContactBody = 64 << 10
)

type ContactServicer interface {
	Submit(ctx context.Context, sub services.ContactSubmission) (*models.ContactMessage, error)
}

// ContactController serves the same contact form three ways. Each handler
// only differs in how it turns the request into a ContactSubmission.
type ContactController struct {
	service ContactServicer
	log     *slog.Logger
	views   Renderer
	decoder *schema.Decoder
}

func NewContactController(s ContactServicer, log *slog.Logger, v Renderer) *ContactController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &ContactController{
		service: s,
		log:     log,
		views:   v,
		decoder: decoder,
	}
}

// Basic reads each field by hand.
func (c *ContactController) Basic(w http.ResponseWriter, r *http.Request) {
	if !c.parse(w, r, views.PageContactBasic) {
		return
	}

	sub := services.ContactSubmission{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
		Company: r.PostForm.Get(services.HoneypotField),
	}

	c.submit(w, r, views.PageContactBasic, sub)
}

// Form decodes the request into a standalone form struct.
func (c *ContactController) Form(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.contact.Form"

	if !c.parse(w, r, views.PageContactForm) {
		return
	}

	var sub services.ContactSubmission
	if err := c.decoder.Decode(&sub, r.PostForm); err != nil {
		c.badForm(w, op, err)
		return
	}

	c.submit(w, r, views.PageContactForm, sub)
}

// Model decodes the request straight onto the stored entity; the honeypot
// is not part of the entity and is read separately.
func (c *ContactController) Model(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.contact.Model"

	if !c.parse(w, r, views.PageContactModel) {
		return
	}

	var msg models.ContactMessage
	if err := c.decoder.Decode(&msg, r.PostForm); err != nil {
		c.badForm(w, op, err)
		return
	}

	sub := services.ContactSubmission{
		Name:    msg.Name,
		Email:   msg.Email,
		Message: msg.Message,
		Company: r.PostForm.Get(services.HoneypotField),
	}

	c.submit(w, r, views.PageContactModel, sub)
}

func (c *ContactController) Success(w http.ResponseWriter, r *http.Request) {
	renderPage(w, c.log, c.views, http.StatusOK, views.PageContactSuccess, nil)
}

// parse renders the empty form for anything but POST and parses the body
// otherwise. It reports whether the handler should go on.
func (c *ContactController) parse(w http.ResponseWriter, r *http.Request, page string) bool {
	const op = "controllers.contact.parse"

	if r.Method != http.MethodPost {
		renderPage(w, c.log, c.views, http.StatusOK, page, views.ContactPage{Action: r.URL.Path})
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := r.ParseForm(); err != nil {
		c.badForm(w, op, err)
		return false
	}

	return true
}

func (c *ContactController) badForm(w http.ResponseWriter, op string, err error) {
	c.log.Debug(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	http.Error(w, ErrParsingForm.Error(), http.StatusBadRequest)
}

func (c *ContactController) submit(w http.ResponseWriter, r *http.Request, page string, sub services.ContactSubmission) {
	const op = "controllers.contact.submit"

	_, err := c.service.Submit(r.Context(), sub)

	var verrs services.ValidationErrors
	switch {
	case err == nil:
		http.Redirect(w, r, ContactSuccessPath, http.StatusSeeOther)
	case errors.As(err, &verrs):
		sub = sub.Normalize()
		renderPage(w, c.log, c.views, http.StatusUnprocessableEntity, page, views.ContactPage{
			Action:  r.URL.Path,
			Name:    sub.Name,
			Email:   sub.Email,
			Message: sub.Message,
			Errors:  verrs,
		})
	default:
		c.log.Error(
			ErrSaveMessage.Error(),
			slog.String("operation", op),
			slog.String("page", page),
			slog.String("error", err.Error()))
		http.Error(w, ErrSaveMessage.Error(), http.StatusInternalServerError)
	}
}
