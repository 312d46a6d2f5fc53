package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/models"
	"salonbook/services/payment"
	"salonbook/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrKeyReused          = errors.New("idempotency key already used")
	ErrPaymentUnconfirmed = errors.New("payment could not be confirmed; retry with the same idempotency key")
)

// Store is the persistence the wallet service needs.
type Store interface {
	Balance(ctx context.Context, userID string) (float64, error)
	// Credit adds tx.Amount to the balance and records tx with its BalanceAfter filled in.
	Credit(ctx context.Context, tx *models.WalletTransaction) error
	Transactions(ctx context.Context, userID string, limit int64) ([]models.WalletTransaction, error)
}

// RechargeStore holds the write-ahead recharge intents.
type RechargeStore interface {
	CreateRecharge(ctx context.Context, r *models.RechargeIntent) error
	GetRecharge(ctx context.Context, id string) (*models.RechargeIntent, error)
	UpdateRecharge(ctx context.Context, r *models.RechargeIntent) error
}

type WalletService interface {
	Balance(ctx context.Context, userID string) (float64, error)
	History(ctx context.Context, userID string, limit int64) ([]models.WalletTransaction, error)
	Recharge(ctx context.Context, userID string, req RechargeRequest) (*RechargeResult, error)
	CompleteRecharge(ctx context.Context, rechargeID string) error
	HandlePaymentEvent(ctx context.Context, ev *payment.WebhookEvent) error
	// Credit fails with models.ErrDuplicate when source and reference were already credited.
	Credit(ctx context.Context, userID string, amount float64, source, reference, description string) (*models.WalletTransaction, error)
}

type DefaultWalletService struct {
	Store     Store
	Recharges RechargeStore
	Gateway   payment.Gateway
	Currency  string
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewWalletService(store Store, recharges RechargeStore, gateway payment.Gateway, currency string, logger *zap.Logger) *DefaultWalletService {
	return &DefaultWalletService{
		Store:     store,
		Recharges: recharges,
		Gateway:   gateway,
		Currency:  currency,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *DefaultWalletService) Balance(ctx context.Context, userID string) (float64, error) {
	return s.Store.Balance(ctx, userID)
}

func (s *DefaultWalletService) History(ctx context.Context, userID string, limit int64) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Store.Transactions(ctx, userID, limit)
}

func (s *DefaultWalletService) Credit(ctx context.Context, userID string, amount float64, source, reference, description string) (*models.WalletTransaction, error) {
	amount = pricing.Round2(amount)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	tx := &models.WalletTransaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        models.TransactionCredit,
		Source:      source,
		Amount:      amount,
		Reference:   reference,
		Description: description,
		CreatedAt:   s.Now(),
	}
	if err := s.Store.Credit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}
	s.Logger.Info("wallet credited",
		zap.String("userID", userID),
		zap.String("source", source),
		zap.Float64("amount", amount),
		zap.Float64("balanceAfter", tx.BalanceAfter))
	return tx, nil
}
