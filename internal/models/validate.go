package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the shape of an inbound frame: a known event type and,
// when a room id is supplied, a well-formed one. Content rules that depend
// on configuration (message length, rate caps) are enforced later by the
// relay; this runs before any state is touched.
func (e *ClientEvent) Validate() error {
	return validate.Struct(e)
}
