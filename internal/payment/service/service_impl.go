package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tabwise/epos/internal/clock"
	"github.com/tabwise/epos/internal/config"
	"github.com/tabwise/epos/internal/gateway"
	"github.com/tabwise/epos/internal/intentstore"
	obsmetrics "github.com/tabwise/epos/internal/observability/metrics"
	"github.com/tabwise/epos/internal/payment/domain"
	tabdomain "github.com/tabwise/epos/internal/tab/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orphanedSecretReason = "Client secret expired"

type Params struct {
	fx.In

	Cfg     config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	TabRepo tabdomain.Repository
	Secrets intentstore.Store
	Gateway gateway.Gateway
	Metrics *obsmetrics.PaymentMetrics `optional:"true"`
}

// Service drives the payment state machine: intent creation with
// idempotent re-issue, confirmation through the gateway, and tab
// closure on success.
type Service struct {
	cfg     config.Config
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	tabRepo tabdomain.Repository
	secrets intentstore.Store
	gateway gateway.Gateway
	metrics *obsmetrics.PaymentMetrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:     p.Cfg,
		db:      p.DB,
		log:     p.Log.Named("payment.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		tabRepo: p.TabRepo,
		secrets: p.Secrets,
		gateway: p.Gateway,
		metrics: p.Metrics,
	}
}

func (s *Service) CreateIntent(ctx context.Context, tabID string) (*domain.IntentResponse, error) {
	id, err := parseID(tabID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tab, err := s.tabRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tab == nil {
		return nil, tabdomain.ErrNotFound
	}
	if tab.Status != tabdomain.StatusOpen {
		return nil, tabdomain.ErrTabNotOpen
	}

	itemCount, err := s.tabRepo.CountItems(ctx, s.db, tab.ID)
	if err != nil {
		return nil, err
	}
	if itemCount == 0 {
		return nil, domain.ErrEmptyTab
	}

	active, err := s.repo.FindActiveByTab(ctx, s.db, tab.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		secret, ok, err := s.secrets.ReverseLookup(ctx, active.PaymentIntentID)
		if err != nil {
			return nil, err
		}
		if ok {
			// Idempotent re-issue of the outstanding intent.
			return &domain.IntentResponse{
				ClientSecret: secret,
				Status:       active.Status,
				Amount:       active.Amount,
				Currency:     active.Currency,
			}, nil
		}

		// The secret expired before the intent was ever confirmed.
		// Retire the orphaned row so the tab keeps at most one active
		// payment, then issue a fresh intent below.
		reason := orphanedSecretReason
		if _, err := s.repo.TransitionStatus(ctx, s.db, active.ID,
			domain.StatusRequiresConfirmation, domain.StatusFailed, &reason, s.clock.Now()); err != nil {
			return nil, err
		}
		s.log.Info("retired orphaned payment intent",
			zap.String("tab_id", snowflake.ID(tab.ID).String()),
			zap.String("payment_id", snowflake.ID(active.ID).String()),
		)
	}

	intent, err := s.gateway.CreateIntent(ctx, tab.Total, gateway.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:              s.genID.Generate().Int64(),
		TabID:           tab.ID,
		PaymentIntentID: intent.IntentID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		Status:          domain.StatusRequiresConfirmation,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.repo.Create(ctx, s.db, payment); err != nil {
		return nil, err
	}

	if err := s.secrets.Put(ctx, intent.ClientSecret, intent.IntentID, s.cfg.SecretTTL); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IntentsCreated.Inc()
	}
	s.log.Info("payment intent created",
		zap.String("tab_id", snowflake.ID(tab.ID).String()),
		zap.String("payment_id", snowflake.ID(payment.ID).String()),
		zap.Int64("amount", payment.Amount),
	)

	return &domain.IntentResponse{
		ClientSecret: intent.ClientSecret,
		Status:       payment.Status,
		Amount:       payment.Amount,
		Currency:     payment.Currency,
	}, nil
}

func (s *Service) TakePayment(ctx context.Context, tabID, clientSecret string) (*domain.PaymentResponse, error) {
	id, err := parseID(tabID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	clientSecret = strings.TrimSpace(clientSecret)
	intentID, ok, err := s.secrets.Get(ctx, clientSecret)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSecretNotFound
	}

	payment, err := s.repo.FindByTabAndIntent(ctx, s.db, id, intentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}

	// Idempotency: a succeeded payment returns the same payload without
	// touching the gateway or the tab again.
	if payment.Status == domain.StatusSucceeded {
		return toResponse(payment), nil
	}
	if payment.Status == domain.StatusFailed {
		return nil, domain.ErrAlreadyFailed
	}

	result, err := s.gateway.Confirm(ctx, intentID, payment.Amount)
	if err != nil {
		return nil, err
	}

	if result.Status == gateway.StatusFailed {
		return s.recordDecline(ctx, payment, clientSecret, result.Reason)
	}
	return s.recordSuccess(ctx, payment)
}

// recordDecline moves the payment to failed and drops the secret; a
// declined transaction's secret must not linger.
func (s *Service) recordDecline(ctx context.Context, payment *domain.Payment, clientSecret, reason string) (*domain.PaymentResponse, error) {
	now := s.clock.Now()
	won, err := s.repo.TransitionStatus(ctx, s.db, payment.ID,
		domain.StatusRequiresConfirmation, domain.StatusFailed, &reason, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// A concurrent caller already settled this payment.
		settled, err := s.repo.FindByID(ctx, s.db, payment.ID)
		if err != nil {
			return nil, err
		}
		if settled != nil && settled.Status == domain.StatusSucceeded {
			return toResponse(settled), nil
		}
		return nil, domain.ErrAlreadyFailed
	}

	if err := s.secrets.Delete(ctx, clientSecret); err != nil {
		s.log.Warn("failed to drop declined payment secret", zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.Declined.Inc()
	}
	s.log.Info("payment declined",
		zap.String("payment_id", snowflake.ID(payment.ID).String()),
		zap.String("reason", reason),
	)

	return nil, &domain.DeclinedError{Reason: reason}
}

// recordSuccess settles the payment and closes the tab inside a single
// transaction; either both states move or neither does. The secret
// mapping is deliberately kept alive so repeated TakePayment calls stay
// idempotent until it expires naturally.
func (s *Service) recordSuccess(ctx context.Context, payment *domain.Payment) (*domain.PaymentResponse, error) {
	now := s.clock.Now()
	var raced bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := s.repo.TransitionStatus(ctx, tx, payment.ID,
			domain.StatusRequiresConfirmation, domain.StatusSucceeded, nil, now)
		if err != nil {
			return err
		}
		if !won {
			raced = true
			return nil
		}
		return s.tabRepo.MarkPaid(ctx, tx, payment.TabID, now)
	})
	if err != nil {
		return nil, err
	}

	if raced {
		settled, err := s.repo.FindByID(ctx, s.db, payment.ID)
		if err != nil {
			return nil, err
		}
		if settled == nil || settled.Status == domain.StatusFailed {
			return nil, domain.ErrAlreadyFailed
		}
		return toResponse(settled), nil
	}

	if s.metrics != nil {
		s.metrics.Confirmed.Inc()
	}
	s.log.Info("payment succeeded",
		zap.String("payment_id", snowflake.ID(payment.ID).String()),
		zap.String("tab_id", snowflake.ID(payment.TabID).String()),
		zap.Int64("amount", payment.Amount),
	)

	payment.Status = domain.StatusSucceeded
	payment.ConfirmedAt = &now
	return toResponse(payment), nil
}

func toResponse(payment *domain.Payment) *domain.PaymentResponse {
	return &domain.PaymentResponse{
		Status:      payment.Status,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		ConfirmedAt: payment.ConfirmedAt,
	}
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
