package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTerm         = errors.New("invalid_term")
	ErrInvalidChargeDate   = errors.New("invalid_charge_date")
	ErrInvalidChargePeriod = errors.New("invalid_charge_period")
	ErrChargeNotFound      = errors.New("charge_not_found")
)

// ValidationError names the charge and field that failed validation.
type ValidationError struct {
	PlanID   string
	ChargeID string
	Field    string
	Err      error
}

func (e *ValidationError) Error() string {
	if e.ChargeID == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("charge %s: %s: %v", e.ChargeID, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
