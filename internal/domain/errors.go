package domain

import "errors"

var (
	// ErrNotFound is returned when a knowledge-base title does not resolve
	ErrNotFound = errors.New("entry not found")

	// ErrSourceUnavailable is returned when an external source fails to answer
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrCircuitOpen is returned while the knowledge-base client is backing off
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrJobNotFound is returned when a job ID is unknown or expired
	ErrJobNotFound = errors.New("job not found")

	// ErrJobsDisabled is returned when the job queue is not configured
	ErrJobsDisabled = errors.New("job queue is disabled")
)
