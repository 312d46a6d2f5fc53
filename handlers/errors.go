package handlers

import (
	"errors"
	"net/http"

	"salonbook/models"
	"salonbook/services/admin"
	"salonbook/services/auth"
	"salonbook/services/booking"
	"salonbook/services/payment"
	"salonbook/services/promo"
	"salonbook/services/salon"
	"salonbook/services/wallet"
	"salonbook/services/wizard"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error onto a status code and the shared error body.
func respondError(c *gin.Context, err error) {
	var (
		settleErr   *booking.SettlementError
		transErr    *booking.TransitionError
		stageErr    *wizard.StageError
		salonErr    *salon.ValidationError
		settingsErr *admin.SettingsError
		payErr      *payment.PaymentError
	)

	switch {
	case errors.As(err, &settleErr):
		utils.JSONErrorCode(c, settlementStatus(settleErr.Code), settleErr.Code, settleErr.Message, "")
	case errors.As(err, &transErr):
		utils.JSONErrorCode(c, http.StatusUnprocessableEntity, "invalid_transition", transErr.Error(), "")
	case errors.As(err, &stageErr):
		utils.JSONErrorCode(c, http.StatusUnprocessableEntity, "invalid_step", stageErr.Reason, stageErr.Stage.String())
	case errors.As(err, &salonErr):
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalid_salon", salonErr.Error(), "")
	case errors.As(err, &settingsErr):
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalid_settings", settingsErr.Error(), settingsErr.Field)
	case errors.As(err, &payErr):
		utils.JSONErrorCode(c, http.StatusPaymentRequired, booking.CodePaymentFailed, payErr.Message, payErr.Code)

	case errors.Is(err, promo.ErrInvalidCode), errors.Is(err, promo.ErrExpiredCode):
		utils.JSONErrorCode(c, http.StatusUnprocessableEntity, "invalid_promo", err.Error(), "")
	case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrKeyReused), errors.Is(err, admin.ErrInvalidApproval):
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalid_request", err.Error(), "")
	case errors.Is(err, wallet.ErrPaymentUnconfirmed):
		utils.JSONErrorCode(c, http.StatusBadGateway, "payment_unconfirmed", wallet.ErrPaymentUnconfirmed.Error(), "")

	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", err.Error(), "")
	case errors.Is(err, auth.ErrAccountDisabled), errors.Is(err, auth.ErrRegistrationClosed),
		errors.Is(err, salon.ErrOwnerNotApproved), errors.Is(err, auth.ErrNotCustomer):
		utils.JSONErrorCode(c, http.StatusForbidden, "forbidden", err.Error(), "")
	case errors.Is(err, booking.ErrForbidden), errors.Is(err, salon.ErrForbidden):
		utils.JSONErrorCode(c, http.StatusForbidden, "forbidden", err.Error(), "")

	case errors.Is(err, wizard.ErrSessionNotFound), errors.Is(err, salon.ErrImageNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "not_found", err.Error(), "")
	case errors.Is(err, models.ErrNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "not_found", "Resource not found", "")

	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, models.ErrDuplicate):
		utils.JSONErrorCode(c, http.StatusConflict, "conflict", err.Error(), "")
	case errors.Is(err, models.ErrVersionConflict):
		utils.JSONErrorCode(c, http.StatusConflict, "version_conflict", "Booking was modified by someone else, reload and retry", "")
	case errors.Is(err, wizard.ErrSalonClosed):
		utils.JSONErrorCode(c, http.StatusConflict, "salon_closed", err.Error(), "")
	case errors.Is(err, salon.ErrImagesDisabled):
		utils.JSONErrorCode(c, http.StatusServiceUnavailable, "unavailable", err.Error(), "")

	default:
		getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONErrorCode(c, http.StatusInternalServerError, booking.CodeInternal, "Something went wrong, please try again", "")
	}
}

func settlementStatus(code string) int {
	switch code {
	case booking.CodePaymentFailed, booking.CodeInsufficientBalance:
		return http.StatusPaymentRequired
	case booking.CodeLimitReached:
		return http.StatusUnprocessableEntity
	case booking.CodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// badRequest answers a binding failure.
func badRequest(c *gin.Context, err error) {
	utils.JSONErrorCode(c, http.StatusBadRequest, "invalid_request", "Invalid request", err.Error())
}
