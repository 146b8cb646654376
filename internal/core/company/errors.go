package company

import "errors"

var (
	ErrCompanyNotFound      = errors.New("company: not found")
	ErrHandleAlreadyExists  = errors.New("company: handle already exists")
	ErrInvalidHandle        = errors.New("company: invalid handle")
	ErrInvalidName          = errors.New("company: invalid name")
	ErrInvalidEmployeeRange = errors.New("company: min employees exceeds max employees")
	ErrInvalidNumEmployees  = errors.New("company: invalid number of employees")
	ErrNoUpdateFields       = errors.New("company: no fields to update")
)
