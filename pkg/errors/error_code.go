package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 102
	ErrCodeInvalidInterval      ErrorCode = 103
	ErrCodeInvalidDirection     ErrorCode = 104
	ErrCodeInvalidLegList       ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataUnavailable  ErrorCode = 200
	ErrCodeQueryFailed      ErrorCode = 201
	ErrCodeCacheUnavailable ErrorCode = 202

	// Leg errors (300-399): recoverable, never abort a render
	ErrCodeMalformedLeg     ErrorCode = 300
	ErrCodeLegTimestamp     ErrorCode = 301
	ErrCodeLegOutOfRange    ErrorCode = 302

	// Render errors (400-499)
	ErrCodeRenderFailed ErrorCode = 400
	ErrCodeEncodeFailed ErrorCode = 401

	// Market data errors (700-799)
	ErrCodeFetchFailed         ErrorCode = 700
	ErrCodeUnsupportedProvider ErrorCode = 701
	ErrCodeWriteFailed         ErrorCode = 702
)
