package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter      ErrorCode = 100
	ErrCodeInvalidConfiguration  ErrorCode = 101
	ErrCodeMissingParameter      ErrorCode = 102
	ErrCodeInvalidType           ErrorCode = 103
	ErrCodeInvalidRange          ErrorCode = 104
	ErrCodeInvalidVersion        ErrorCode = 105
	ErrCodeInvalidTradingParams  ErrorCode = 106
	ErrCodeInvalidPeriod         ErrorCode = 107
	ErrCodeInvalidVariant        ErrorCode = 108
	ErrCodeInvalidSchedulePolicy ErrorCode = 109

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeMissingColumn         ErrorCode = 203
	ErrCodeEmptySeries           ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302
	ErrCodeMixedIndicatorBatch    ErrorCode = 303

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError ErrorCode = 400
	ErrCodeExitOnlyAsEntry     ErrorCode = 401
	ErrCodeVersionMismatch     ErrorCode = 402

	// Simulation errors (500-599)
	ErrCodeCombinationFailed     ErrorCode = 500
	ErrCodeInvalidExecutionPrice ErrorCode = 501
	ErrCodeSignalShapeMismatch   ErrorCode = 502
	ErrCodeUndefinedLogReturn    ErrorCode = 503

	// Resource errors (600-699)
	ErrCodeInsufficientResources ErrorCode = 600
	ErrCodeHostProbeFailed       ErrorCode = 601

	// Run errors (700-799)
	ErrCodeRunCancelled      ErrorCode = 700
	ErrCodeRunInitFailed     ErrorCode = 701
	ErrCodeNoStrategies      ErrorCode = 702
	ErrCodeResultWriteFailed ErrorCode = 703

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
