package account

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrInvalidTier      = errors.New("unknown subscription tier")
)
