package booking

import (
	"context"
	"time"

	"salonbook/models"
	"salonbook/services/auth"
	"salonbook/services/payment"
	"salonbook/services/promo"
	"salonbook/services/wallet"
	"salonbook/services/wizard"

	"go.uber.org/zap"
)

// BookingStore is the bookings collection.
type BookingStore interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateStatus writes status, payment and cancellation fields only if the stored
	// version still equals expectedVersion, then bumps the version.
	UpdateStatus(ctx context.Context, b *models.Booking, expectedVersion int64) error
	// CancelWithRefund is UpdateStatus plus the refund row, both or neither.
	CancelWithRefund(ctx context.Context, b *models.Booking, expectedVersion int64, refund *models.Refund) error
	SetPaymentStatus(ctx context.Context, id, status string) error
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListBySalons(ctx context.Context, salonIDs []string, status models.BookingStatus) ([]models.Booking, error)
	List(ctx context.Context, status models.BookingStatus, limit int64) ([]models.Booking, error)
	Delete(ctx context.Context, id string) error
}

// SettlementStore holds the write-ahead intents and performs the atomic commit.
type SettlementStore interface {
	CreateIntent(ctx context.Context, intent *models.SettlementIntent) error
	GetIntent(ctx context.Context, id string) (*models.SettlementIntent, error)
	UpdateIntent(ctx context.Context, intent *models.SettlementIntent) error
	// CommitSettlement debits intent.WalletUsed (only while the balance covers it),
	// records the debit, inserts the booking and marks the intent committed, all or nothing.
	// It returns models.ErrInsufficientBalance when the debit condition fails.
	CommitSettlement(ctx context.Context, intent *models.SettlementIntent, b *models.Booking) error
}

// RefundStore reads and updates refunds. Rows are inserted with the cancellation.
type RefundStore interface {
	GetByID(ctx context.Context, id string) (*models.Refund, error)
	Update(ctx context.Context, r *models.Refund) error
}

// UserStore covers the customer fields the booking flow reads and updates.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	IncrementHistory(ctx context.Context, userID string, delta models.BookingHistory, points int) error
	SetMembershipTier(ctx context.Context, userID, tier string) error
}

type SettingsReader interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
}

type SalonFinder interface {
	GetByID(ctx context.Context, id string) (*models.Salon, error)
}

// Sessions is the wizard side the checkout consumes.
type Sessions interface {
	Load(ctx context.Context, userID, sessionID string) (*wizard.Wizard, error)
	VerifySlot(ctx context.Context, w *wizard.Wizard) error
	Discard(ctx context.Context, sessionID string) error
}

// Notifier pushes a message to a customer or salon owner.
type Notifier interface {
	Notify(ctx context.Context, recipientID, title, body string, data map[string]string) error
}

// TaskQueue schedules background work for bookings.
type TaskQueue interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, at time.Time) error
	EnqueueRefund(ctx context.Context, refundID string) error
	EnqueueReconcile(ctx context.Context, intentID string) error
}

// BookingService is checkout plus the lifecycle of persisted bookings.
type BookingService interface {
	Quote(ctx context.Context, userID string, req CheckoutRequest) (*Quote, error)
	Settle(ctx context.Context, userID string, req SettleRequest) (*SettleResult, error)
	Reconcile(ctx context.Context, intentID string) error
	HandlePaymentEvent(ctx context.Context, ev *payment.WebhookEvent) error

	Get(ctx context.Context, sess *auth.Session, id string) (*models.Booking, error)
	ListMine(ctx context.Context, userID string) ([]models.Booking, error)
	ListForOwner(ctx context.Context, sess *auth.Session, status models.BookingStatus) ([]models.Booking, error)
	ListAll(ctx context.Context, status models.BookingStatus, limit int64) ([]models.Booking, error)
	Transition(ctx context.Context, sess *auth.Session, id string, target models.BookingStatus, expectedVersion int64) (*models.Booking, error)
	ProcessRefund(ctx context.Context, refundID string) error
	Delete(ctx context.Context, id string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings      BookingStore
	Settlements   SettlementStore
	Refunds       RefundStore
	Users         UserStore
	Salons        SalonFinder
	Settings      SettingsReader
	Sessions      Sessions
	Wallet        wallet.WalletService
	Gateway       payment.Gateway
	Promos        *promo.Registry
	Notifier      Notifier
	Tasks         TaskQueue
	Logger        *zap.Logger
	Currency      string
	EnforceExpiry bool
	Now           func() time.Time
}
