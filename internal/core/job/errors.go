package job

import "errors"

var (
	ErrJobNotFound     = errors.New("job: not found")
	ErrCompanyNotFound = errors.New("job: company not found")
	ErrInvalidID       = errors.New("job: invalid id")
	ErrInvalidTitle    = errors.New("job: invalid title")
	ErrInvalidSalary   = errors.New("job: invalid salary")
	ErrInvalidEquity   = errors.New("job: invalid equity")
	ErrNoUpdateFields  = errors.New("job: no fields to update")
)
