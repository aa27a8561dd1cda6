// Package dashboard holds the state machine behind the transfer admin
// dashboard.  A Controller owns the fetched records, the search and date
// criteria, the create/edit form and the pending delete confirmation.  State
// only changes through its methods; handlers read it back with State and
// Visible to render pages.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/model"
	"github.com/iliyamo/flight-transfer-admin/internal/repository"
)

var (
	// ErrBusy is returned when a submit or delete is triggered while another
	// one is still in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrUnknownTransfer is returned when an action names an id that is not
	// among the loaded records.
	ErrUnknownTransfer = errors.New("transfer is not in the loaded list")
	// ErrNoForm is returned by Submit when the form is closed.
	ErrNoForm = errors.New("form is not open")
	// ErrNothingToDelete is returned by ConfirmDelete without a pending
	// delete request.
	ErrNothingToDelete = errors.New("no delete awaiting confirmation")
)

// User facing messages for store failures.
const (
	msgLoadFailed   = "Could not load flights. Please try again."
	msgSaveFailed   = "Could not save the flight. Please try again."
	msgDeleteFailed = "Could not delete the flight. Please try again."
)

// FormMode tells whether the form is closed, creating or editing.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Form is the create/edit form state.
type Form struct {
	Mode   FormMode
	Draft  model.Draft
	Errors model.FieldErrors
}

// State is a snapshot of everything the dashboard shows.
type State struct {
	Records      []model.Transfer
	Query        string
	SelectedDate time.Time
	Form         Form
	Loading      bool
	Submitting   bool
	Deleting     bool
	// PendingDelete is the id awaiting confirmation; zero when none.
	PendingDelete uint64
	// Error is the last store failure shown to the user; cleared by the
	// next successful store call.
	Error string
}

// Controller drives the dashboard.  It is safe for concurrent use; the
// store is called without holding the lock so reads of State stay cheap
// while a call is in flight.
type Controller struct {
	store  repository.TransferStore
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	rawDate  string
	criteria model.Criteria
}

// New returns a controller over store with no records loaded.
func New(store repository.TransferStore, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, logger: logger}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Records = append([]model.Transfer(nil), c.state.Records...)
	if c.state.Form.Errors != nil {
		s.Form.Errors = make(model.FieldErrors, len(c.state.Form.Errors))
		for k, v := range c.state.Form.Errors {
			s.Form.Errors[k] = v
		}
	}
	return s
}

// Criteria returns the active search criteria.
func (c *Controller) Criteria() model.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// Visible returns the records that pass the current search and date filter.
func (c *Controller) Visible() []model.Transfer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Filter(c.state.Records, c.criteria)
}

// Load fetches the full list and replaces the records.  A failed fetch
// keeps the previous records and sets the user facing error; Load itself
// never fails.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()

	items, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	if err != nil {
		c.logger.Error("fetching transfers failed", zap.Error(err))
		c.state.Error = msgLoadFailed
		return
	}
	c.state.Records = items
	c.state.Error = ""
}

// SetQuery changes the free text search.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = q
	c.criteria = model.ParseCriteria(q, c.rawDate)
}

// SetDate restricts the view to one calendar day.
func (c *Controller) SetDate(d time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedDate = d
	c.rawDate = ""
	if !d.IsZero() {
		c.rawDate = d.Format(model.DateLayout)
	}
	c.criteria = model.ParseCriteria(c.state.Query, c.rawDate)
}

// SetDateParam applies a date taken from a request parameter.  A value
// that is not a YYYY-MM-DD date matches no record.
func (c *Controller) SetDateParam(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = model.ParseCriteria(c.state.Query, s)
	c.rawDate = c.criteria.DateParam()
	c.state.SelectedDate = c.criteria.Date
}

// ClearDate removes the date filter.
func (c *Controller) ClearDate() {
	c.SetDate(time.Time{})
}

// OpenCreate opens the form with an empty draft.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Form = Form{Mode: FormCreate, Draft: model.NewDraft(), Errors: model.FieldErrors{}}
}

// OpenEdit opens the form on a copy of the loaded transfer with id.
func (c *Controller) OpenEdit(id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.state.Records {
		if t.ID == id {
			c.state.Form = Form{Mode: FormEdit, Draft: model.EditDraft(t), Errors: model.FieldErrors{}}
			return nil
		}
	}
	return ErrUnknownTransfer
}

// CloseForm discards the draft and its errors.
func (c *Controller) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Form = Form{}
}

// Submit validates f as the new content of the open draft.  Invalid input
// keeps the form open and returns model.FieldErrors.  Valid input is
// inserted or updated depending on the draft; on success the list is
// reloaded and the form closed, on failure the form stays open and the
// store error is returned.
func (c *Controller) Submit(ctx context.Context, f model.TransferFields) error {
	c.mu.Lock()
	if c.state.Form.Mode == FormClosed {
		c.mu.Unlock()
		return ErrNoForm
	}
	if c.state.Submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	f = f.Normalize()
	errs := model.Validate(f)
	if _, ok := c.state.Form.Draft.ID(); ok {
		f = f.KeepUnchanged(c.state.Form.Draft.Fields) // untouched legacy values are written back as stored
	}
	draft := c.state.Form.Draft.WithFields(f)
	c.state.Form.Draft = draft
	if len(errs) > 0 {
		c.state.Form.Errors = errs
		c.mu.Unlock()
		return errs
	}
	c.state.Form.Errors = model.FieldErrors{}
	c.state.Submitting = true
	c.mu.Unlock()

	var err error
	if id, ok := draft.ID(); ok {
		err = c.store.Update(ctx, id, f)
	} else {
		_, err = c.store.Insert(ctx, f)
	}

	c.mu.Lock()
	c.state.Submitting = false
	if err != nil {
		c.logger.Error("saving transfer failed", zap.Error(err), zap.String("mode", c.state.Form.Mode.String()))
		c.state.Error = msgSaveFailed
		c.mu.Unlock()
		return err
	}
	c.state.Error = ""
	c.mu.Unlock()

	c.Load(ctx)
	c.CloseForm()
	return nil
}

// RequestDelete asks for confirmation before deleting the transfer with id.
func (c *Controller) RequestDelete(id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.state.Records {
		if t.ID == id {
			c.state.PendingDelete = id
			return nil
		}
	}
	return ErrUnknownTransfer
}

// CancelDelete dismisses the confirmation without touching the store.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Deleting {
		c.state.PendingDelete = 0
	}
}

// ConfirmDelete deletes the transfer awaiting confirmation.  On success the
// list is re-fetched with the current filters kept.  Either way the
// confirmation is dismissed; a failure is logged, shown as the dashboard
// error and returned.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Deleting {
		c.mu.Unlock()
		return ErrBusy
	}
	id := c.state.PendingDelete
	if id == 0 {
		c.mu.Unlock()
		return ErrNothingToDelete
	}
	c.state.Deleting = true
	c.mu.Unlock()

	err := c.store.Delete(ctx, id)

	c.mu.Lock()
	c.state.Deleting = false
	c.state.PendingDelete = 0
	if err != nil {
		c.logger.Error("deleting transfer failed", zap.Error(err), zap.Uint64("transfer_id", id))
		c.state.Error = msgDeleteFailed
		c.mu.Unlock()
		return err
	}
	c.state.Error = ""
	c.mu.Unlock()

	c.Load(ctx)
	return nil
}
