package model

import (
	"sort"
	"strings"
)

// FieldErrors maps a form field name to a human readable message.  A draft
// is valid when Validate returns an empty FieldErrors.
type FieldErrors map[string]string

// Error lists the failing fields in a stable order.
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// requiredFields lists the mandatory columns and their messages.
var requiredFields = []struct {
	name    string
	message string
	value   func(TransferFields) string
}{
	{"flight_code", "Flight code is required", func(f TransferFields) string { return f.FlightCode }},
	{"transfer_date", "Transfer date is required", func(f TransferFields) string { return f.TransferDate }},
	{"transfer_time", "Transfer time is required", func(f TransferFields) string { return f.TransferTime }},
	{"guest_name", "Guest name is required", func(f TransferFields) string { return f.GuestName }},
	{"destination_pickup", "Pickup location is required", func(f TransferFields) string { return f.DestinationPickup }},
	{"destination_dropoff", "Dropoff location is required", func(f TransferFields) string { return f.DestinationDropoff }},
}

// Validate checks that every required field is present.  Guest count and
// notes are never required.
func Validate(f TransferFields) FieldErrors {
	errs := FieldErrors{}
	for _, rf := range requiredFields {
		if rf.value(f) == "" {
			errs[rf.name] = rf.message
		}
	}
	return errs
}
