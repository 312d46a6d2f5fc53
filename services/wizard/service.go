package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/models"
	"salonbook/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalonFinder loads a salon with its catalogue and staff.
type SalonFinder interface {
	GetByID(ctx context.Context, id string) (*models.Salon, error)
}

// BookingLister returns a salon's bookings on a date.
type BookingLister interface {
	ListBySalonDate(ctx context.Context, salonID, date string) ([]models.Booking, error)
}

// View is what the client renders for the current step.
type View struct {
	Session         *models.BookingSession `json:"session"`
	Stage           string                 `json:"stage"`
	Summary         pricing.Summary        `json:"summary"`
	CanAdvance      bool                   `json:"canAdvance"`
	Blocker         string                 `json:"blocker,omitempty"`
	CompatibleStaff []models.Staff         `json:"compatibleStaff"`
}

type SessionService interface {
	Start(ctx context.Context, userID, salonID string) (*View, error)
	Get(ctx context.Context, userID, sessionID string) (*View, error)
	ToggleService(ctx context.Context, userID, sessionID, serviceID string) (*View, error)
	SelectStaff(ctx context.Context, userID, sessionID, staffID string) (*View, error)
	SelectDate(ctx context.Context, userID, sessionID, date string) (*View, error)
	SelectTime(ctx context.Context, userID, sessionID, clock string) (*View, error)
	SetSpecialRequests(ctx context.Context, userID, sessionID, text string) (*View, error)
	Next(ctx context.Context, userID, sessionID string) (*View, error)
	Back(ctx context.Context, userID, sessionID string) (*View, error)
	Slots(ctx context.Context, userID, sessionID, date string) ([]models.TimeSlot, error)
	VerifySlot(ctx context.Context, w *Wizard) error
	Load(ctx context.Context, userID, sessionID string) (*Wizard, error)
	Discard(ctx context.Context, sessionID string) error
}

type DefaultSessionService struct {
	Store    SessionStore
	Salons   SalonFinder
	Bookings BookingLister
	TTL      time.Duration
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewSessionService(store SessionStore, salons SalonFinder, bookings BookingLister, ttl time.Duration, logger *zap.Logger) *DefaultSessionService {
	return &DefaultSessionService{
		Store:    store,
		Salons:   salons,
		Bookings: bookings,
		TTL:      ttl,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (s *DefaultSessionService) Start(ctx context.Context, userID, salonID string) (*View, error) {
	salon, err := s.Salons.GetByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if !salon.IsActive {
		return nil, ErrSalonClosed
	}
	now := s.Now()
	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		SalonID:   salon.ID,
		Stage:     int(StageServices),
		Services:  []models.ServiceItem{},
		CreatedAt: now,
	}
	if err := s.Store.Save(ctx, session, s.TTL); err != nil {
		return nil, err
	}
	s.Logger.Debug("booking session started",
		zap.String("sessionID", session.SessionID),
		zap.String("userID", userID),
		zap.String("salonID", salonID))
	return s.view(s.wizard(session, salon)), nil
}

func (s *DefaultSessionService) Get(ctx context.Context, userID, sessionID string) (*View, error) {
	w, err := s.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(w), nil
}

// Load rebuilds the wizard for a session owned by userID against the salon's current catalogue.
func (s *DefaultSessionService) Load(ctx context.Context, userID, sessionID string) (*Wizard, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	salon, err := s.Salons.GetByID(ctx, session.SalonID)
	if err != nil {
		return nil, err
	}
	return s.wizard(session, salon), nil
}

func (s *DefaultSessionService) ToggleService(ctx context.Context, userID, sessionID, serviceID string) (*View, error) {
	return s.mutate(ctx, userID, sessionID, func(w *Wizard) error {
		return w.ToggleService(serviceID)
	})
}

func (s *DefaultSessionService) SelectStaff(ctx context.Context, userID, sessionID, staffID string) (*View, error) {
	return s.mutate(ctx, userID, sessionID, func(w *Wizard) error {
		return w.SelectStaff(staffID)
	})
}

func (s *DefaultSessionService) SelectDate(ctx context.Context, userID, sessionID, date string) (*View, error) {
	return s.mutate(ctx, userID, sessionID, func(w *Wizard) error {
		return w.SelectDate(date)
	})
}

// SelectTime only accepts a start time that is open for the selected staff member.
func (s *DefaultSessionService) SelectTime(ctx context.Context, userID, sessionID, clock string) (*View, error) {
	return s.mutate(ctx, userID, sessionID, func(w *Wizard) error {
		if w.Session().Date == "" {
			return &StageError{Stage: StageDateTime, Reason: "choose a date first"}
		}
		slots, err := s.slotsFor(ctx, w, w.Session().Date)
		if err != nil {
			return err
		}
		if !IsAvailable(slots, clock) {
			return &StageError{Stage: StageDateTime, Reason: fmt.Sprintf("%s is not available", clock)}
		}
		return w.SelectTime(clock)
	})
}

func (s *DefaultSessionService) SetSpecialRequests(ctx context.Context, userID, sessionID, text string) (*View, error) {
	return s.mutate(ctx, userID, sessionID, func(w *Wizard) error {
		w.SetSpecialRequests(text)
		return nil
	})
}

// Next leaves the date/time step only while the chosen slot is still open.
func (s *DefaultSessionService) Next(ctx context.Context, userID, sessionID string) (*View, error) {
	return s.mutate(ctx, userID, sessionID, func(w *Wizard) error {
		if err := w.CanAdvance(); err != nil {
			return err
		}
		if w.Stage() == StageDateTime {
			if err := s.VerifySlot(ctx, w); err != nil {
				return err
			}
		}
		return w.Next()
	})
}

func (s *DefaultSessionService) Back(ctx context.Context, userID, sessionID string) (*View, error) {
	return s.mutate(ctx, userID, sessionID, func(w *Wizard) error {
		w.Back()
		return nil
	})
}

// Slots returns the availability grid for the session's staff member on date.
func (s *DefaultSessionService) Slots(ctx context.Context, userID, sessionID, date string) ([]models.TimeSlot, error) {
	w, err := s.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.slotsFor(ctx, w, date)
}

// VerifySlot re-runs the availability check for the session's staff, date, time and
// current appointment length.
func (s *DefaultSessionService) VerifySlot(ctx context.Context, w *Wizard) error {
	sess := w.Session()
	if sess.Date == "" || sess.Time == "" {
		return &StageError{Stage: StageDateTime, Reason: "select a date and a time"}
	}
	slots, err := s.slotsFor(ctx, w, sess.Date)
	if err != nil {
		return err
	}
	if !IsAvailable(slots, sess.Time) {
		return &StageError{Stage: StageDateTime, Reason: fmt.Sprintf("%s on %s is no longer available", sess.Time, sess.Date)}
	}
	return nil
}

func (s *DefaultSessionService) Discard(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

func (s *DefaultSessionService) slotsFor(ctx context.Context, w *Wizard, date string) ([]models.TimeSlot, error) {
	bookings, err := s.Bookings.ListBySalonDate(ctx, w.Salon().ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for availability: %w", err)
	}
	duration := w.Summary().TotalDuration
	return BuildSlots(w.Salon(), w.Session().StaffID, date, duration, bookings, s.Now())
}

// mutate applies fn and saves the session only if fn succeeds.
func (s *DefaultSessionService) mutate(ctx context.Context, userID, sessionID string, fn func(w *Wizard) error) (*View, error) {
	w, err := s.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, w.Session(), s.TTL); err != nil {
		return nil, err
	}
	return s.view(w), nil
}

func (s *DefaultSessionService) wizard(session *models.BookingSession, salon *models.Salon) *Wizard {
	return New(session, salon).WithClock(s.Now)
}

func (s *DefaultSessionService) view(w *Wizard) *View {
	v := &View{
		Session:         w.Session(),
		Stage:           w.Stage().String(),
		Summary:         w.Summary(),
		CompatibleStaff: w.CompatibleStaff(),
	}
	if err := w.CanAdvance(); err != nil {
		var se *StageError
		if errors.As(err, &se) {
			v.Blocker = se.Reason
		}
	} else {
		v.CanAdvance = true
	}
	if v.CompatibleStaff == nil {
		v.CompatibleStaff = []models.Staff{}
	}
	return v
}
