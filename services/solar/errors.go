package solar

import "errors"

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrNoSolarData     = errors.New("no solar data for location")
	ErrInvalidBill     = errors.New("monthly bill must be positive")
)
