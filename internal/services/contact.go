package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"games_hub/internal/models"
	"games_hub/internal/storage"
	"games_hub/internal/storage/mariadb"

	"gorm.io/gorm"
)

// HoneypotField is the hidden contact form input that real visitors leave empty.
const HoneypotField = "company"

// ContactSubmission is the raw input of any contact form. The form tags
// double as gorilla/schema keys and validation error keys.
type ContactSubmission struct {
	Company string `form:"company" schema:"company" validate:"isdefault"`
	Name    string `form:"name" schema:"name" validate:"required,max=120"`
	Email   string `form:"email" schema:"email" validate:"required,max=254,email,email_domain"`
	Message string `form:"message" schema:"message" validate:"required,max=5000"`
}

var (
	contactLabels = map[string]string{
		"name":    "Name",
		"email":   "Email",
		"message": "Message",
	}
	contactNonField = map[string]string{
		HoneypotField: "Spam detected.",
	}
)

// Normalize trims surrounding whitespace from every field.
func (s ContactSubmission) Normalize() ContactSubmission {
	return ContactSubmission{
		Company: strings.TrimSpace(s.Company),
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Message: strings.TrimSpace(s.Message),
	}
}

// ValidateContact checks an already normalized submission and returns every
// problem found. An empty result means the submission can be stored.
func ValidateContact(s ContactSubmission) ValidationErrors {
	return collect(s, contactLabels, contactNonField)
}

type ContactService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewContactService(s *mariadb.Storage, log *slog.Logger) *ContactService {
	return &ContactService{
		storage: s,
		log:     log,
	}
}

// Submit validates sub and stores it as a new ContactMessage. Invalid input
// yields a ValidationErrors error and nothing is written; storage failures
// wrap storage.ErrCreateFailed.
func (s *ContactService) Submit(ctx context.Context, sub ContactSubmission) (*models.ContactMessage, error) {
	const op = "services.contact.Submit"

	sub = sub.Normalize()

	if errs := ValidateContact(sub); len(errs) > 0 {
		if errs.Has(NonFieldKey) {
			s.log.Info("contact submission rejected as spam", slog.String("operation", op))
		} else {
			s.log.Debug("contact submission invalid", slog.String("operation", op), slog.Int("fields", len(errs)))
		}
		return nil, errs
	}

	msg := &models.ContactMessage{
		Name:    sub.Name,
		Email:   sub.Email,
		Message: sub.Message,
	}

	if err := s.storage.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrCreateFailed, err)
	}

	s.log.Info("contact message stored", slog.String("operation", op), slog.Int64("id", msg.ID))

	return msg, nil
}

// List returns one page of messages, newest first, with the total count.
func (s *ContactService) List(ctx context.Context, page, pageSize int) ([]models.ContactMessage, int, error) {
	const op = "services.contact.List"

	var (
		results []models.ContactMessage
		count   int64
	)

	db := s.storage.DB.WithContext(ctx).Model(&models.ContactMessage{}).Session(&gorm.Session{})

	if err := db.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	// pages past the end are empty; checked before multiplying so a huge
	// page cannot overflow the offset
	if page > int(count)/pageSize+1 {
		return []models.ContactMessage{}, int(count), nil
	}

	if err := db.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return results, int(count), nil
}
