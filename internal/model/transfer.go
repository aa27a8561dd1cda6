package model

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format of TransferFields.TransferDate.
const DateLayout = "2006-01-02"

// displayDateLayout is how dates are shown in the dashboard table.
const displayDateLayout = "02 Jan 2006"

// TransferFields holds every column of a flight transfer except the
// store-assigned id.  It is the payload of inserts and updates and the
// content of a form draft.
//
// Fields:
//  FlightCode         – airline flight code, e.g. BA12.
//  TransferDate       – calendar day of the transfer (YYYY-MM-DD).
//  TransferTime       – local pickup time (HH:MM).
//  DestinationPickup  – where the guest is collected.
//  DestinationDropoff – where the guest is taken.
//  GuestName          – lead guest.
//  GuestCount         – party size, at least 1.
//  Notes              – free text; empty means absent.
type TransferFields struct {
	FlightCode         string `json:"flight_code" form:"flight_code"`                 // transfers.flight_code
	TransferDate       string `json:"transfer_date" form:"transfer_date"`             // transfers.transfer_date
	TransferTime       string `json:"transfer_time" form:"transfer_time"`             // transfers.transfer_time
	DestinationPickup  string `json:"destination_pickup" form:"destination_pickup"`   // transfers.destination_pickup
	DestinationDropoff string `json:"destination_dropoff" form:"destination_dropoff"` // transfers.destination_dropoff
	GuestName          string `json:"guest_name" form:"guest_name"`                   // transfers.guest_name
	GuestCount         int    `json:"guest_count" form:"guest_count"`                 // transfers.guest_count
	Notes              string `json:"notes,omitempty" form:"notes"`                   // transfers.notes (nullable)
}

// Transfer is a flight transfer that has been persisted and carries the id
// the store assigned to it.
type Transfer struct {
	ID uint64 `json:"id"` // transfers.id
	TransferFields
}

// Normalize trims surrounding whitespace from every text field and applies
// the guest count default.  A guest count below one becomes one.
func (f TransferFields) Normalize() TransferFields {
	f.FlightCode = strings.TrimSpace(f.FlightCode)
	f.TransferDate = strings.TrimSpace(f.TransferDate)
	f.TransferTime = strings.TrimSpace(f.TransferTime)
	f.DestinationPickup = strings.TrimSpace(f.DestinationPickup)
	f.DestinationDropoff = strings.TrimSpace(f.DestinationDropoff)
	f.GuestName = strings.TrimSpace(f.GuestName)
	f.Notes = strings.TrimSpace(f.Notes)
	if f.GuestCount < 1 {
		f.GuestCount = 1
	}
	return f
}

// KeepUnchanged returns f with every text field whose trimmed stored value
// in orig equals the submitted one set back to the stored value, so that an
// edit only rewrites the fields the user actually changed.  f is expected to
// be normalized.
func (f TransferFields) KeepUnchanged(orig TransferFields) TransferFields {
	keep := func(dst *string, stored string) {
		if *dst == strings.TrimSpace(stored) {
			*dst = stored
		}
	}
	keep(&f.FlightCode, orig.FlightCode)
	keep(&f.TransferDate, orig.TransferDate)
	keep(&f.TransferTime, orig.TransferTime)
	keep(&f.DestinationPickup, orig.DestinationPickup)
	keep(&f.DestinationDropoff, orig.DestinationDropoff)
	keep(&f.GuestName, orig.GuestName)
	keep(&f.Notes, orig.Notes)
	return f
}

// Draft is a transfer being created or edited.  It is either a new draft
// with no id or an edit of a persisted transfer whose id is carried along
// untouched; ID reports which.
type Draft struct {
	Fields TransferFields
	id     uint64
	edit   bool
}

// NewDraft returns an empty draft for the create form.
func NewDraft() Draft {
	return Draft{Fields: TransferFields{GuestCount: 1}}
}

// EditDraft returns a draft pre-populated from a persisted transfer.
func EditDraft(t Transfer) Draft {
	return Draft{Fields: t.TransferFields, id: t.ID, edit: true}
}

// ID returns the id of the persisted transfer being edited and true, or
// zero and false for a new draft.
func (d Draft) ID() (uint64, bool) {
	return d.id, d.edit
}

// WithFields returns a copy of the draft holding f while keeping its
// identity.
func (d Draft) WithFields(f TransferFields) Draft {
	d.Fields = f
	return d
}

// FormatDate renders a YYYY-MM-DD transfer date as "02 Jan 2006".  Values
// that do not parse are returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(displayDateLayout)
}
