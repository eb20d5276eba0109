package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"leadgen-backend/internal/domain"
	"leadgen-backend/pkg/logger"
	"leadgen-backend/pkg/metrics"
	"leadgen-backend/pkg/security"
	"leadgen-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IntakeOptions tunes the intake pipeline
type IntakeOptions struct {
	// NotifyTimeout bounds each detached notification attempt
	NotifyTimeout time.Duration
	// RequireTargeting rejects orders with empty geography, companySizes or roles
	RequireTargeting bool
	// Clock and ID generator; nil means time.Now and uuid.NewString
	Now   func() time.Time
	NewID func() string
}

type intakeUsecase struct {
	repo     domain.SubmissionRepository
	notifier domain.Notifier
	validate *validator.Validate
	opts     IntakeOptions
	inflight sync.WaitGroup
}

// NewIntakeUsecase creates the form intake pipeline
func NewIntakeUsecase(repo domain.SubmissionRepository, notifier domain.Notifier, validate *validator.Validate, opts IntakeOptions) domain.IntakeUsecase {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &intakeUsecase{
		repo:     repo,
		notifier: notifier,
		validate: validate,
		opts:     opts,
	}
}

func (uc *intakeUsecase) SubmitContact(ctx context.Context, body []byte) (*domain.ContactRecord, error) {
	var req domain.ContactRequest
	if err := uc.check(domain.KindContact, body, &req, nil); err != nil {
		return nil, err
	}
	if err := uc.screen(domain.KindContact, req.Website); err != nil {
		return nil, err
	}

	rec := req.ToRecord()
	rec.ID, rec.CreatedAt = uc.stamp()
	if err := uc.repo.CreateContact(ctx, rec); err != nil {
		return nil, uc.persistFailed(domain.KindContact, rec.CreatedAt, err)
	}
	metrics.SubmissionsTotal.WithLabelValues(string(domain.KindContact), metrics.OutcomeAccepted).Inc()

	snapshot := *rec
	uc.dispatch(domain.KindContact, snapshot.Email, func(ctx context.Context) error {
		return uc.notifier.NotifyContact(ctx, snapshot)
	})
	return rec, nil
}

func (uc *intakeUsecase) SubmitBookCall(ctx context.Context, body []byte) (*domain.BookCallRecord, error) {
	var req domain.BookCallRequest
	if err := uc.check(domain.KindBookCall, body, &req, nil); err != nil {
		return nil, err
	}
	if err := uc.screen(domain.KindBookCall, req.Website); err != nil {
		return nil, err
	}

	rec := req.ToRecord()
	rec.ID, rec.CreatedAt = uc.stamp()
	if err := uc.repo.CreateBookCall(ctx, rec); err != nil {
		return nil, uc.persistFailed(domain.KindBookCall, rec.CreatedAt, err)
	}
	metrics.SubmissionsTotal.WithLabelValues(string(domain.KindBookCall), metrics.OutcomeAccepted).Inc()

	snapshot := *rec
	uc.dispatch(domain.KindBookCall, snapshot.Email, func(ctx context.Context) error {
		return uc.notifier.NotifyBookCall(ctx, snapshot)
	})
	return rec, nil
}

func (uc *intakeUsecase) SubmitOrder(ctx context.Context, body []byte) (*domain.OrderRecord, error) {
	var req domain.OrderRequest
	var policy func() []validation.FieldViolation
	if uc.opts.RequireTargeting {
		policy = func() []validation.FieldViolation { return targetingViolations(&req) }
	}
	if err := uc.check(domain.KindOrder, body, &req, policy); err != nil {
		return nil, err
	}
	if err := uc.screen(domain.KindOrder, req.Website); err != nil {
		return nil, err
	}

	rec := req.ToRecord()
	rec.ID, rec.CreatedAt = uc.stamp()
	if err := uc.repo.CreateOrder(ctx, rec); err != nil {
		return nil, uc.persistFailed(domain.KindOrder, rec.CreatedAt, err)
	}
	metrics.SubmissionsTotal.WithLabelValues(string(domain.KindOrder), metrics.OutcomeAccepted).Inc()

	snapshot := *rec
	snapshot.Geography = append([]string(nil), rec.Geography...)
	snapshot.CompanySizes = append([]string(nil), rec.CompanySizes...)
	snapshot.Roles = append([]string(nil), rec.Roles...)
	snapshot.TechFilters = append([]string(nil), rec.TechFilters...)
	uc.dispatch(domain.KindOrder, snapshot.ContactEmail, func(ctx context.Context) error {
		return uc.notifier.NotifyOrder(ctx, snapshot)
	})
	return rec, nil
}

// Drain waits for detached notifications, typically during shutdown.
func (uc *intakeUsecase) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// check decodes and validates body into dst. extra runs only on payloads that
// decoded as an object, and its violations are merged into the same list.
func (uc *intakeUsecase) check(kind domain.Kind, body []byte, dst any, extra func() []validation.FieldViolation) error {
	violations, err := validation.Check(uc.validate, body, dst)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(kind), metrics.OutcomeInvalid).Inc()
		return domain.ErrMalformedPayload
	}
	if extra != nil {
		violations = mergeViolations(violations, extra())
		validation.SortViolations(dst, violations)
	}
	if len(violations) > 0 {
		metrics.SubmissionsTotal.WithLabelValues(string(kind), metrics.OutcomeInvalid).Inc()
		return &domain.ValidationError{Kind: kind, Violations: violations}
	}
	return nil
}

// screen applies the honeypot rule to an already validated payload.
func (uc *intakeUsecase) screen(kind domain.Kind, website *string) error {
	if website != nil && strings.TrimSpace(*website) != "" {
		metrics.SubmissionsTotal.WithLabelValues(string(kind), metrics.OutcomeSpam).Inc()
		return domain.ErrSpam
	}
	return nil
}

func (uc *intakeUsecase) stamp() (string, time.Time) {
	return uc.opts.NewID(), uc.opts.Now().UTC()
}

func (uc *intakeUsecase) persistFailed(kind domain.Kind, at time.Time, err error) error {
	metrics.SubmissionsTotal.WithLabelValues(string(kind), metrics.OutcomeFailed).Inc()
	logger.Log.Error("failed to persist submission",
		"kind", kind,
		"created_at", at.Format(time.RFC3339Nano),
		"error", err,
	)
	return fmt.Errorf("persist %s submission: %w", kind, err)
}

// dispatch runs send on a detached goroutine bounded by NotifyTimeout.
// The outcome is logged and counted but never reported to the caller.
func (uc *intakeUsecase) dispatch(kind domain.Kind, replyTo string, send func(context.Context) error) {
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), uc.opts.NotifyTimeout)
		defer cancel()

		err := send(ctx)
		switch {
		case err == nil:
			metrics.NotificationsTotal.WithLabelValues(string(kind), metrics.NotifySent).Inc()
		case errors.Is(err, domain.ErrNotificationDisabled):
			metrics.NotificationsTotal.WithLabelValues(string(kind), metrics.NotifySkipped).Inc()
			logger.Log.Warn("notification skipped: email not configured", "kind", kind)
		default:
			metrics.NotificationsTotal.WithLabelValues(string(kind), metrics.NotifyFailed).Inc()
			logger.Log.Error("failed to send notification email",
				"kind", kind,
				"reply_to", security.MaskEmail(replyTo),
				"error", err,
			)
		}
	}()
}

func targetingViolations(req *domain.OrderRequest) []validation.FieldViolation {
	var out []validation.FieldViolation
	check := func(field, label string, values []string) {
		if values != nil && len(values) == 0 {
			out = append(out, validation.FieldViolation{Field: field, Message: "At least one " + label + " is required"})
		}
	}
	check("geography", "region", req.Geography)
	check("companySizes", "company size", req.CompanySizes)
	check("roles", "role", req.Roles)
	return out
}

// mergeViolations appends extra violations for fields not already reported.
func mergeViolations(base, extra []validation.FieldViolation) []validation.FieldViolation {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v.Field] = true
	}
	for _, v := range extra {
		if !seen[v.Field] {
			base = append(base, v)
			seen[v.Field] = true
		}
	}
	return base
}
