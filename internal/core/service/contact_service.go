package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
	"github.com/atelier-numerique/agency-api/pkg/metrics"
)

// ContactConfig names the addresses used for contact notifications.
type ContactConfig struct {
	// NotifyTo receives a copy of every message. Empty disables the internal
	// notification.
	NotifyTo string
	SiteName string
}

type ContactService struct {
	repo     ports.ContactRepository
	notifier ports.Notifier
	cfg      ContactConfig
	validate *validation.Validator
	logger   zerolog.Logger
	now      func() time.Time
}

func NewContactService(
	repo ports.ContactRepository,
	notifier ports.Notifier,
	cfg ContactConfig,
	validate *validation.Validator,
	logger zerolog.Logger,
) *ContactService {
	if cfg.SiteName == "" {
		cfg.SiteName = "L'agence"
	}
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit stores the message as NOUVEAU and then queues the two notification
// emails. Once the message is stored the submission counts as received, even
// if no email can be queued or delivered.
func (s *ContactService) Submit(ctx context.Context, in ports.SubmitContactInput) (*domain.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	m := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    domain.MessageNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Msg("failed to store contact message")
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	metrics.ContactMessagesTotal.Inc()
	s.logger.Info().Str("message_id", m.ID).Msg("contact message received")

	s.notify(m)
	return m, nil
}

func (s *ContactService) notify(m *domain.ContactMessage) {
	if s.notifier == nil {
		return
	}
	if s.cfg.NotifyTo != "" {
		if !s.notifier.Enqueue(s.internalNotification(m)) {
			s.logger.Warn().Str("message_id", m.ID).Msg("contact notification dropped")
		}
	}
	if !s.notifier.Enqueue(s.confirmation(m)) {
		s.logger.Warn().Str("message_id", m.ID).Msg("contact confirmation dropped")
	}
}

func (s *ContactService) internalNotification(m *domain.ContactMessage) ports.Email {
	company := m.Company
	if company == "" {
		company = "-"
	}
	text := fmt.Sprintf("Nouveau message de %s <%s>\nEntreprise : %s\nSujet : %s\n\n%s\n",
		m.Name, m.Email, company, m.Subject, m.Message)
	return ports.Email{
		To:       s.cfg.NotifyTo,
		ReplyTo:  m.Email,
		Subject:  "[Contact] " + m.Subject,
		Text:     text,
		HTML:     "<pre>" + html.EscapeString(text) + "</pre>",
		Category: "contact_notification",
	}
}

func (s *ContactService) confirmation(m *domain.ContactMessage) ports.Email {
	text := fmt.Sprintf("Bonjour %s,\n\nNous avons bien reçu votre message « %s » et vous répondrons rapidement.\n\n%s\n",
		m.Name, m.Subject, s.cfg.SiteName)
	return ports.Email{
		To:       m.Email,
		Subject:  s.cfg.SiteName + " : message bien reçu",
		Text:     text,
		HTML:     "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>",
		Category: "contact_confirmation",
	}
}

func (s *ContactService) List(ctx context.Context, status string) ([]*domain.ContactMessage, error) {
	filter := ports.MessageFilter{}
	if status != "" {
		st, err := parseMessageStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	msgs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return msgs, nil
}

func (s *ContactService) Get(ctx context.Context, id string) (*domain.ContactMessage, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*domain.ContactMessage, error) {
	st, err := parseMessageStatus(status)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	audit(ctx, s.logger, "status", "contact_message", id)
	return m, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	audit(ctx, s.logger, "delete", "contact_message", id)
	return nil
}

func parseMessageStatus(s string) (domain.MessageStatus, error) {
	st := domain.MessageStatus(s)
	if !st.Valid() {
		return "", domain.NewValidationError("status", "status must be one of: "+joinStatuses(domain.MessageStatuses))
	}
	return st, nil
}
