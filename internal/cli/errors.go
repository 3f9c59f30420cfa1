// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Product directory errors
	ErrProductDirNotFound = "PRODUCT_DIR_NOT_FOUND"
	ErrConfigInvalid      = "CONFIG_INVALID"

	// Entity errors
	ErrBacklogNotFound  = "BACKLOG_NOT_FOUND"
	ErrFeedbackNotFound = "FEEDBACK_NOT_FOUND"
	ErrEntityNotFound   = "ENTITY_NOT_FOUND"
	ErrAlreadyPromoted  = "ALREADY_PROMOTED"

	// Plan errors
	ErrPlanInvalid  = "PLAN_INVALID"
	ErrPlanNotFound = "PLAN_NOT_FOUND"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrInvalidStatus    = "INVALID_STATUS"
	ErrInvalidInput     = "INVALID_INPUT"
	ErrMissingArgument  = "MISSING_ARGUMENT"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Check errors
	ErrCheckFailed = "CHECK_FAILED"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)
