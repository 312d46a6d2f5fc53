package booking

import (
	"time"

	"salonbook/services/payment"
	"salonbook/services/promo"
	"salonbook/services/wallet"

	"go.uber.org/zap"
)

// Stores groups the persistence the booking service needs.
type Stores struct {
	Bookings    BookingStore
	Settlements SettlementStore
	Refunds     RefundStore
	Users       UserStore
	Salons      SalonFinder
	Settings    SettingsReader
}

func NewBookingService(
	stores Stores,
	sessions Sessions,
	walletSvc wallet.WalletService,
	gateway payment.Gateway,
	promos *promo.Registry,
	notifier Notifier,
	tasks TaskQueue,
	currency string,
	enforcePromoExpiry bool,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:      stores.Bookings,
		Settlements:   stores.Settlements,
		Refunds:       stores.Refunds,
		Users:         stores.Users,
		Salons:        stores.Salons,
		Settings:      stores.Settings,
		Sessions:      sessions,
		Wallet:        walletSvc,
		Gateway:       gateway,
		Promos:        promos,
		Notifier:      notifier,
		Tasks:         tasks,
		Logger:        logger,
		Currency:      currency,
		EnforceExpiry: enforcePromoExpiry,
		Now:           time.Now,
	}
}
