package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validFields() TransferFields {
	return TransferFields{
		FlightCode:         "BA12",
		TransferDate:       "2024-05-01",
		TransferTime:       "10:00",
		GuestName:          "Jo",
		DestinationPickup:  "A",
		DestinationDropoff: "B",
	}
}

func TestValidate(t *testing.T) {
	t.Run("complete draft is valid", func(t *testing.T) {
		assert.Empty(t, Validate(validFields()))
	})

	t.Run("missing flight code reports only that field", func(t *testing.T) {
		f := validFields()
		f.FlightCode = ""
		assert.Equal(t, FieldErrors{"flight_code": "Flight code is required"}, Validate(f))
	})

	t.Run("empty draft reports all six fields", func(t *testing.T) {
		errs := Validate(TransferFields{})
		assert.Equal(t, FieldErrors{
			"flight_code":         "Flight code is required",
			"transfer_date":       "Transfer date is required",
			"transfer_time":       "Transfer time is required",
			"guest_name":          "Guest name is required",
			"destination_pickup":  "Pickup location is required",
			"destination_dropoff": "Dropoff location is required",
		}, errs)
	})

	t.Run("guest count and notes are optional", func(t *testing.T) {
		f := validFields()
		f.GuestCount = 0
		f.Notes = ""
		assert.Empty(t, Validate(f))
	})
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{"transfer_time": "Transfer time is required", "flight_code": "Flight code is required"}
	assert.Equal(t, "validation failed: flight_code: Flight code is required; transfer_time: Transfer time is required", errs.Error())
}
