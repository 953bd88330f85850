package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBrandNotFound   = errors.New("brand not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrProductInactive   = errors.New("product is inactive")
	ErrDuplicateSKU      = errors.New("SKU already exists")
	ErrDuplicateBrand    = errors.New("brand name or tax id already exists")
	ErrDuplicateUser     = errors.New("username already exists")
	ErrTotalMismatch     = errors.New("sale total does not match the sum of its line subtotals")
	ErrInvalidLineItem   = errors.New("invalid line item")
	ErrEmptySale         = errors.New("a sale needs at least one line item")
	ErrInvalidRowIndex   = errors.New("row index out of range")
	ErrLastAdministrator = errors.New("cannot remove the last administrator")
)

// ValidationError rejects input before anything is persisted.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the product whose stock could not cover a line.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID.String()
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", name, e.Requested, e.Available)
}

// ReferentialIntegrityError is returned when a delete would orphan history.
type ReferentialIntegrityError struct {
	Entity string
	ID     uuid.UUID
	Reason string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %s: %s", e.Entity, e.ID, e.Reason)
}

// StorageError wraps an unexpected database failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// storageErr passes typed service errors through and wraps everything else.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isServiceError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func isServiceError(err error) bool {
	var (
		ve *ValidationError
		ie *InsufficientStockError
		re *ReferentialIntegrityError
		se *StorageError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ie), errors.As(err, &re), errors.As(err, &se):
		return true
	}
	for _, sentinel := range []error{
		ErrProductNotFound, ErrBrandNotFound, ErrSaleNotFound, ErrUserNotFound,
		ErrProductInactive, ErrDuplicateSKU, ErrDuplicateBrand, ErrDuplicateUser,
		ErrTotalMismatch, ErrInvalidRowIndex, ErrLastAdministrator,
		ErrInvalidCredentials, ErrUserInactive, ErrWrongPassword,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// notFound maps gorm's missing-row error onto the entity sentinel.
func notFound(err error, sentinel error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return storageErr(op, err)
}
