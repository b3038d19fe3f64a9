package domain

import "errors"

var (
	// Inventory
	ErrFlightNotFound  = errors.New("flight not found")
	ErrSeatUnavailable = errors.New("seat unavailable")
	ErrInvalidSeat     = errors.New("seat does not exist")

	// Bookings
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingAlreadyExists = errors.New("booking already exists")
	ErrAlreadyCancelled     = errors.New("booking already cancelled")
	ErrAlreadyConfirmed     = errors.New("booking already confirmed")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrNotRefundable        = errors.New("booking is not refundable this close to departure")
	ErrInvalidPassenger     = errors.New("passenger name and email are required")

	// Payments
	ErrInvalidAmount = errors.New("amount is less than ticket price")
	ErrPaymentFailed = errors.New("payment failed")
	ErrUnknownMethod = errors.New("unknown payment method")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrFlightNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrSeatUnavailable) ||
		errors.Is(err, ErrBookingAlreadyExists) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrAlreadyConfirmed) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNotRefundable)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSeat) ||
		errors.Is(err, ErrInvalidPassenger) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrUnknownMethod)
}
