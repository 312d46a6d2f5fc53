package repository

import (
	bookingRepo "salonbook/database/repository/booking"
	ownerRepo "salonbook/database/repository/owner"
	salonRepo "salonbook/database/repository/salon"
	settingsRepo "salonbook/database/repository/settings"
	userRepo "salonbook/database/repository/user"
	walletRepo "salonbook/database/repository/wallet"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type SalonFilter = salonRepo.SalonFilter

// Repositories bundles every Mongo-backed store the services are built from.
type Repositories struct {
	Users       *userRepo.MongoUserRepo
	Owners      *ownerRepo.MongoOwnerRepo
	Salons      *salonRepo.MongoSalonRepo
	Bookings    *bookingRepo.MongoBookingRepo
	Settlements *bookingRepo.MongoSettlementRepo
	Refunds     *bookingRepo.MongoRefundRepo
	Settings    *settingsRepo.MongoSettingsRepo
	Wallets     *walletRepo.MongoWalletRepo
}

func New(db *mongo.Database, logger *zap.Logger) *Repositories {
	return &Repositories{
		Users:       userRepo.NewMongoUserRepo(db, logger),
		Owners:      ownerRepo.NewMongoOwnerRepo(db, logger),
		Salons:      salonRepo.NewMongoSalonRepo(db, logger),
		Bookings:    bookingRepo.NewMongoBookingRepo(db, logger),
		Settlements: bookingRepo.NewMongoSettlementRepo(db, logger),
		Refunds:     bookingRepo.NewMongoRefundRepo(db, logger),
		Settings:    settingsRepo.NewMongoSettingsRepo(db, logger),
		Wallets:     walletRepo.NewMongoWalletRepo(db, logger),
	}
}
