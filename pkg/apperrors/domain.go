package apperrors

import (
	"net/http"
)

// Factories and predeclared variables for common domain errors.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a duplicate into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation is the generic 400 factory for illegal operations.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus is the 400 factory for status-machine violations.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrExternalService wraps an upstream provider failure into a 502.
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// --- Auth & accounts ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken covers refresh, verification and reset tokens alike.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// --- Cases ---

// ErrInvalidCaseStatus rejects a status value outside the fixed enum.
var ErrInvalidCaseStatus = New(
	CodeValidationFailed,
	"case",
	"Unknown case status",
	http.StatusBadRequest,
)

// ErrCaseLocked guards the APPROVED state: only an administrator may
// move a case out of it.
var ErrCaseLocked = New(
	CodeInvalidStatus,
	"case",
	"An approved case can only be modified by an administrator",
	http.StatusBadRequest,
)

var ErrNotAssignedAgent = New(
	CodeForbidden,
	"case",
	"Only the assigned agent may update this case",
	http.StatusForbidden,
)

// --- Calls ---

// ErrNoRealtimeIdentity means the user has no identity with the realtime
// backend, so no signaling operation can be attributed to them.
var ErrNoRealtimeIdentity = New(
	CodeNotFound,
	"call",
	"No realtime identity registered for this user",
	http.StatusNotFound,
)

// --- Documents ---

var ErrInvalidDocumentStatus = New(
	CodeValidationFailed,
	"document",
	"Unknown document review status",
	http.StatusBadRequest,
)
