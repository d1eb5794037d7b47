package domain

import "errors"

var (
	ErrUnknownTable    = errors.New("unknown table")
	ErrTableOccupied   = errors.New("table already has an active match")
	ErrTableIdle       = errors.New("no active match on table")
	ErrMatchNotFound   = errors.New("match not found")
	ErrEndBeforeStart  = errors.New("end time is before start time")
	ErrTooShortToBill  = errors.New("match too short to bill")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrRateNotOffered  = errors.New("rate is not in the current rate list")
	ErrInvalidRate     = errors.New("rate must be positive")
)
