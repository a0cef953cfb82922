package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a caller-contract violation (non-positive ids or amounts).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCustomerNotFound marks a reference to a customer that does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrOrderNotFound marks a lookup of an order id that was never assigned.
	ErrOrderNotFound = errors.New("order not found")
)

// InvalidArgumentError names the parameter that failed validation.
type InvalidArgumentError struct {
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid argument %s", e.Param)
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Param, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// CustomerNotFoundError carries the id that could not be resolved.
type CustomerNotFoundError struct {
	ID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer id %d does not exist", e.ID)
}

func (e *CustomerNotFoundError) Is(target error) bool {
	return target == ErrCustomerNotFound
}
