package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeTransport represents network, timeout and non-2xx failures
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeValidation represents rejected input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypePersistence represents storage errors
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents an error raised while collecting offers
type ScrapeError struct {
	Type    ErrorType
	Agency  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Agency, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Agency, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	return e.Type == ErrorTypeTransport
}

// New creates a new ScrapeError
func New(errType ErrorType, agency, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Agency:  agency,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewTransport creates a new transport error
func NewTransport(agency, message string, err error) *ScrapeError {
	return New(ErrorTypeTransport, agency, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(agency string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, agency, message, nil)
}

// NewParsing creates a new parsing error
func NewParsing(agency, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, agency, message, err)
}

// NewValidation creates a new validation error
func NewValidation(agency, message string) *ScrapeError {
	return New(ErrorTypeValidation, agency, message, nil)
}

// NewPersistence creates a new persistence error
func NewPersistence(agency, message string, err error) *ScrapeError {
	return New(ErrorTypePersistence, agency, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the type of the first ScrapeError in err's chain, or ""
func TypeOf(err error) ErrorType {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type
	}
	return ""
}

// IsType reports whether err's chain holds a ScrapeError of the given type
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// IsTransport reports whether err is a transport failure. Rate limiting
// counts as one.
func IsTransport(err error) bool {
	t := TypeOf(err)
	return t == ErrorTypeTransport || t == ErrorTypeRateLimit
}
