package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInsufficientData     ErrorCode = 103

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 203

	// Trading errors (500-599)
	ErrCodeOrderFailed      ErrorCode = 500
	ErrCodePositionNotFound ErrorCode = 501

	// Simulation errors (600-699)
	ErrCodeSimulationNotReset ErrorCode = 600
	ErrCodeSimulationEnded    ErrorCode = 601
	ErrCodeEnvNotReset        ErrorCode = 602

	// Recorder errors (700-799)
	ErrCodeRecorderNotInitialized ErrorCode = 700
	ErrCodeRecorderWriteFailed    ErrorCode = 701
)
