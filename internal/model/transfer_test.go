package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraft(t *testing.T) {
	d := NewDraft()
	id, ok := d.ID()
	assert.False(t, ok)
	assert.Zero(t, id)
	assert.Equal(t, 1, d.Fields.GuestCount)

	persisted := Transfer{ID: 42, TransferFields: validFields()}
	e := EditDraft(persisted)
	id, ok = e.ID()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, persisted.TransferFields, e.Fields)

	changed := e.WithFields(TransferFields{FlightCode: "X"})
	id, ok = changed.ID()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, "X", changed.Fields.FlightCode)
}

func TestNormalize(t *testing.T) {
	f := TransferFields{FlightCode: "  BA12 ", GuestName: "\tJo\n", GuestCount: 0, Notes: "  "}
	n := f.Normalize()
	assert.Equal(t, "BA12", n.FlightCode)
	assert.Equal(t, "Jo", n.GuestName)
	assert.Equal(t, 1, n.GuestCount)
	assert.Equal(t, "", n.Notes)

	assert.Equal(t, 5, TransferFields{GuestCount: 5}.Normalize().GuestCount)
	assert.Equal(t, 1, TransferFields{GuestCount: -3}.Normalize().GuestCount)
}

func TestKeepUnchanged(t *testing.T) {
	stored := TransferFields{
		FlightCode:        "BA12 ",
		TransferDate:      "2024-05-01",
		DestinationPickup: "  LHR T5",
		GuestName:         "Jo",
		GuestCount:        2,
		Notes:             " old ",
	}
	submitted := TransferFields{
		FlightCode:        "BA12",
		TransferDate:      "2024-05-01",
		DestinationPickup: "LHR T5",
		GuestName:         "Jo Smith ",
		GuestCount:        2,
		Notes:             "new",
	}.Normalize()

	got := submitted.KeepUnchanged(stored)
	assert.Equal(t, "BA12 ", got.FlightCode)
	assert.Equal(t, "  LHR T5", got.DestinationPickup)
	assert.Equal(t, "Jo Smith", got.GuestName)
	assert.Equal(t, "new", got.Notes)
	assert.Equal(t, 2, got.GuestCount)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "01 May 2024", FormatDate("2024-05-01"))
	assert.Equal(t, "tomorrow", FormatDate("tomorrow"))
	assert.Equal(t, "", FormatDate(""))
}
