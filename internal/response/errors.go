package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials  ErrCode = "INVALID_CREDENTIALS"
	ErrRegistrationFailed  ErrCode = "REGISTRATION_FAILED"
	ErrNotAuthenticated    ErrCode = "NOT_AUTHENTICATED"
	ErrTokenRequired       ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid        ErrCode = "TOKEN_INVALID"
	ErrProfileUpdateFailed ErrCode = "PROFILE_UPDATE_FAILED"
	ErrUnknownSchool       ErrCode = "UNKNOWN_SCHOOL"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Invitations ───────────────────────────────────────────────────
	ErrInvitationInvalid    ErrCode = "INVITATION_INVALID"
	ErrInvitationExpired    ErrCode = "INVITATION_EXPIRED"
	ErrPasswordMismatch     ErrCode = "PASSWORD_MISMATCH"
	ErrPasswordTooShort     ErrCode = "PASSWORD_TOO_SHORT"
	ErrParentEmailRequired  ErrCode = "PARENT_EMAIL_REQUIRED"
	ErrRelationshipRequired ErrCode = "RELATIONSHIP_REQUIRED"
	ErrAcceptFailed         ErrCode = "ACCOUNT_CREATION_FAILED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Bulk import ───────────────────────────────────────────────────
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrInvalidCSV   ErrCode = "INVALID_CSV"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the user-facing message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Login failed. Please check your credentials."
	case ErrRegistrationFailed:
		return "Registration failed. Please try again."
	case ErrNotAuthenticated:
		return "No user logged in."
	case ErrTokenRequired:
		return "Authentication token required."
	case ErrTokenInvalid:
		return "Your session is invalid or has expired. Please log in again."
	case ErrProfileUpdateFailed:
		return "Failed to update profile"
	case ErrUnknownSchool:
		return "School code not recognized."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Invitations ───────────────────────────────────────────────────
	case ErrInvitationInvalid:
		return "Invalid Invitation"
	case ErrInvitationExpired:
		return "This invitation has expired."
	case ErrPasswordMismatch:
		return "Passwords do not match"
	case ErrPasswordTooShort:
		return "Password must be at least 8 characters long"
	case ErrParentEmailRequired:
		return "Parent email is required for student accounts"
	case ErrRelationshipRequired:
		return "Relationship to student is required"
	case ErrAcceptFailed:
		return "Failed to create account. Please try again."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Bulk import ───────────────────────────────────────────────────
	case ErrFileRequired:
		return "A CSV file upload is required."
	case ErrInvalidCSV:
		return "The uploaded file is not a valid CSV."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
