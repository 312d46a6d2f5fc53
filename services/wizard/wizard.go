package wizard

import (
	"fmt"
	"strings"
	"time"

	"salonbook/models"
	"salonbook/services/pricing"
)

// Stage is a step of the booking wizard.
type Stage int

const (
	StageServices Stage = iota + 1
	StageStaff
	StageDateTime
	StageConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageServices:
		return "services"
	case StageStaff:
		return "staff"
	case StageDateTime:
		return "datetime"
	case StageConfirmation:
		return "confirmation"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StageError reports a blocked transition or a selection made at the wrong step.
type StageError struct {
	Stage  Stage
	Reason string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
}

// Wizard is the linear services -> staff -> date/time -> confirmation machine
// over a BookingSession. It holds no I/O.
type Wizard struct {
	session *models.BookingSession
	salon   *models.Salon
	now     func() time.Time
}

func New(session *models.BookingSession, salon *models.Salon) *Wizard {
	if session.Stage < int(StageServices) || session.Stage > int(StageConfirmation) {
		session.Stage = int(StageServices)
	}
	return &Wizard{session: session, salon: salon, now: time.Now}
}

// WithClock replaces the time source used for past-date checks.
func (w *Wizard) WithClock(now func() time.Time) *Wizard {
	w.now = now
	return w
}

func (w *Wizard) Stage() Stage                    { return Stage(w.session.Stage) }
func (w *Wizard) Session() *models.BookingSession { return w.session }
func (w *Wizard) Salon() *models.Salon            { return w.salon }

func (w *Wizard) Selection() pricing.Selection {
	return pricing.Selection(w.session.Services)
}

func (w *Wizard) Summary() pricing.Summary {
	return pricing.Calculate(w.session.Services)
}

func (w *Wizard) requireStage(s Stage) error {
	if w.Stage() != s {
		return &StageError{Stage: w.Stage(), Reason: fmt.Sprintf("only allowed at the %s step", s)}
	}
	return nil
}

// ToggleService adds or removes a catalogue service. A selected staff member who can no
// longer perform every selected category is cleared, and a chosen time is cleared once
// the appointment length changes.
func (w *Wizard) ToggleService(serviceID string) error {
	if err := w.requireStage(StageServices); err != nil {
		return err
	}
	item, ok := w.salon.FindService(serviceID)
	if !ok {
		return &StageError{Stage: StageServices, Reason: "service not offered by this salon"}
	}

	before := w.Summary().TotalDuration
	sel := w.Selection()
	sel.Toggle(item)
	w.session.Services = sel

	if st, ok := w.SelectedStaff(); ok && !st.CanPerform(sel.Categories()) {
		w.session.StaffID = ""
		w.session.Time = ""
	}
	if w.Summary().TotalDuration != before {
		w.session.Time = ""
	}
	return nil
}

// CompatibleStaff lists staff able to perform every selected category.
func (w *Wizard) CompatibleStaff() []models.Staff {
	cats := w.Selection().Categories()
	var out []models.Staff
	for _, st := range w.salon.Staff {
		if st.CanPerform(cats) {
			out = append(out, st)
		}
	}
	return out
}

func (w *Wizard) SelectedStaff() (models.Staff, bool) {
	if w.session.StaffID == "" {
		return models.Staff{}, false
	}
	return w.salon.FindStaff(w.session.StaffID)
}

// SelectStaff picks a staff member. Incompatible staff are not selectable. Switching
// staff clears the chosen time.
func (w *Wizard) SelectStaff(staffID string) error {
	if err := w.requireStage(StageStaff); err != nil {
		return err
	}
	st, ok := w.salon.FindStaff(staffID)
	if !ok {
		return &StageError{Stage: StageStaff, Reason: "staff member not found"}
	}
	if !st.CanPerform(w.Selection().Categories()) {
		return &StageError{Stage: StageStaff, Reason: "staff member cannot perform all selected services"}
	}
	if st.ID != w.session.StaffID {
		w.session.Time = ""
	}
	w.session.StaffID = st.ID
	return nil
}

// SelectDate sets the appointment day and clears any chosen time.
func (w *Wizard) SelectDate(date string) error {
	if err := w.requireStage(StageDateTime); err != nil {
		return err
	}
	now := w.now()
	day, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return &StageError{Stage: StageDateTime, Reason: "date must be YYYY-MM-DD"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return &StageError{Stage: StageDateTime, Reason: "date is in the past"}
	}
	if date != w.session.Date {
		w.session.Time = ""
	}
	w.session.Date = date
	return nil
}

// SelectTime sets the time slot. Availability is checked by the caller.
func (w *Wizard) SelectTime(clock string) error {
	if err := w.requireStage(StageDateTime); err != nil {
		return err
	}
	if w.session.Date == "" {
		return &StageError{Stage: StageDateTime, Reason: "choose a date first"}
	}
	if _, err := models.ParseClock(clock); err != nil {
		return &StageError{Stage: StageDateTime, Reason: "time must be HH:MM"}
	}
	w.session.Time = clock
	return nil
}

func (w *Wizard) SetSpecialRequests(text string) {
	w.session.SpecialRequests = strings.TrimSpace(text)
}

// CanAdvance returns nil when the current stage's completeness predicate holds.
func (w *Wizard) CanAdvance() error {
	switch w.Stage() {
	case StageServices:
		if w.Selection().Len() == 0 {
			return &StageError{Stage: StageServices, Reason: "select at least one service"}
		}
	case StageStaff:
		st, ok := w.SelectedStaff()
		if !ok {
			return &StageError{Stage: StageStaff, Reason: "select a staff member"}
		}
		if !st.CanPerform(w.Selection().Categories()) {
			return &StageError{Stage: StageStaff, Reason: "staff member cannot perform all selected services"}
		}
	case StageDateTime:
		if w.session.Date == "" || w.session.Time == "" {
			return &StageError{Stage: StageDateTime, Reason: "select a date and a time"}
		}
	case StageConfirmation:
		return &StageError{Stage: StageConfirmation, Reason: "submit the booking to continue"}
	}
	return nil
}

// Next moves one stage forward when the current stage is complete.
func (w *Wizard) Next() error {
	if err := w.CanAdvance(); err != nil {
		return err
	}
	w.session.Stage++
	return nil
}

// Back moves one stage backward and keeps every later selection.
func (w *Wizard) Back() {
	if w.Stage() > StageServices {
		w.session.Stage--
	}
}

// Ready verifies the wizard is at confirmation with every earlier predicate intact.
func (w *Wizard) Ready() error {
	if w.Stage() != StageConfirmation {
		return &StageError{Stage: w.Stage(), Reason: "booking is not ready for checkout"}
	}
	for _, s := range []Stage{StageServices, StageStaff, StageDateTime} {
		trial := *w
		sess := *w.session
		sess.Stage = int(s)
		trial.session = &sess
		if err := trial.CanAdvance(); err != nil {
			return err
		}
	}
	return nil
}
