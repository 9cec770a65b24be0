package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Account errors
	ErrCodeRegistrationFailed  = "registration_failed"
	ErrCodeLoginFailed         = "login_failed"
	ErrCodeGuestCreationFailed = "guest_creation_failed"
	ErrCodeRefreshFailed       = "refresh_failed"
	ErrCodeEmailTaken          = "email_taken"

	// Session errors
	ErrCodeSessionCreationFailed = "session_creation_failed"
	ErrCodeSessionNotFound       = "session_not_found"
	ErrCodeSessionSuperseded     = "session_superseded"
	ErrCodeNoQuestionsAvailable  = "no_questions_available"
	ErrCodeSubmitFailed          = "submit_failed"
	ErrCodeSessionComplete       = "session_complete"

	// Question supply errors
	ErrCodeQuestionFetchFailed = "question_fetch_failed"

	// Progress errors
	ErrCodeProgressSyncFailed = "progress_sync_failed"
	ErrCodeStatsFetchFailed   = "stats_fetch_failed"

	// Settings errors
	ErrCodeSettingsFetchFailed = "settings_fetch_failed"
	ErrCodeSettingsSaveFailed  = "settings_save_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
