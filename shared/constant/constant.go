package constant

import (
	"time"
)

const (
	ContextGuest = "guest"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleDirector = "director"
	RoleDoctor   = "doctor"
	RolePatient  = "patient"
)

const (
	OccupancyFree     = "FREE"
	OccupancyOccupied = "OCCUPIED"
)

const (
	BookingStatusInProcess = "IN_PROCESS"
	BookingStatusDone      = "DONE"
)

const (
	CardStatusActive   = "ACTIVE"
	CardStatusInactive = "INACTIVE"
)

const (
	PaymentStatusNotPaid = "NOT_PAID"
	PaymentStatusPaid    = "PAID"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID = "id"
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
	FieldDeleted    = "deleted"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
	PqErrorCodeCheckViolation  = "23514"
)

// Named constraints the ledger inspects to tell retryable collisions apart.
const (
	ConstraintCardNumberUnique     = "cards_card_number_unique"
	ConstraintCardPatientUnique    = "cards_patient_id_unique"
	ConstraintPaymentBookingUnique = "payment_records_booking_id_unique"
)

const (
	DateFormat        = time.RFC3339
	CalendarDayFormat = "2006-01-02"
	TimeOfDayFormat   = "15:04"
)

const (
	MinutesToSeconds = 60
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelExternalScopeName   = "external"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderAPIKey             = "X-API-Key"
)

const (
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	// Card numbers are drawn uniformly from [CardNumberMin, CardNumberMax).
	CardNumberMin = int64(1_0000_0000_0000_0000)
	CardNumberMax = int64(9_9999_9999_9999_9999)
)

const (
	Asterix = "*"
	Empty   = ""
)
