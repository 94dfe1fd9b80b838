// Package services holds the write-side logic of the back office: keeping
// the day ledger consistent with the reservation table and keeping
// Reservation.PaidAmount consistent with the payment rows. Handlers in the
// routes package translate these errors to HTTP responses.
package services

import "errors"

var (
	// ErrInvalidDateRange means check-out is not after check-in.
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	// ErrOverpaidAmount means a write would leave paidAmount above totalAmount.
	ErrOverpaidAmount = errors.New("paid amount exceeds total amount")
	// ErrInvalidAmount means a payment amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrInvalidEnum means a status, concept, method or recipient is outside
	// its closed set.
	ErrInvalidEnum = errors.New("value outside the allowed set")
	// ErrNotFound means the reservation or payment id does not exist.
	ErrNotFound = errors.New("record not found")
)
