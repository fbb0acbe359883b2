package httputil

// Machine-readable error codes returned alongside error messages. Clients
// should branch on these, not on message text.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInvalidID          = "INVALID_ID"

	CodeNameRequired       = "NAME_REQUIRED"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeInvalidPages       = "INVALID_PAGES"

	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"

	CodeMissingAuth       = "MISSING_AUTH"
	CodeInvalidAuthHeader = "INVALID_AUTH_HEADER"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeInvalidToken      = "INVALID_TOKEN"

	CodeNotFound      = "NOT_FOUND"
	CodeForbidden     = "FORBIDDEN"
	CodeInternalError = "INTERNAL_ERROR"
)
