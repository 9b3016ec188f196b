package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Table Conversion Errors
	ErrNoTable = errors.New("no table found in document")

	// Price History Errors
	ErrNoQuotes          = errors.New("price history contains no quotes")
	ErrMissingColumn     = errors.New("price history is missing a required column")
	ErrNoQuoteBeforeDate = errors.New("no quote on or before the holding date")
	ErrEmptyWindow       = errors.New("no quotes left in the holding window")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrNotFound     = errors.New("requested item not found")
)
