package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTimeout            ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeExternalService    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
)

// Credential pool error codes.
const (
	ErrCodePoolStateLoad    ErrorCode = "POOL_001"
	ErrCodePoolStateSave    ErrorCode = "POOL_002"
	ErrCodePoolExhausted    ErrorCode = "POOL_003"
	ErrCodePoolStateInvalid ErrorCode = "POOL_004"
)

// Chemistry provider error codes.
const (
	ErrCodeChemLookupFailed  ErrorCode = "CHEM_001"
	ErrCodeChemParseFailed   ErrorCode = "CHEM_002"
	ErrCodeChemBadStatus     ErrorCode = "CHEM_003"
	ErrCodeChemEmptyCompound ErrorCode = "CHEM_004"
)

// Web search provider error codes.
const (
	ErrCodeSearchFailed     ErrorCode = "SRCH_001"
	ErrCodeSearchBadStatus  ErrorCode = "SRCH_002"
	ErrCodeSearchParseError ErrorCode = "SRCH_003"
	ErrCodeSearchNoKey      ErrorCode = "SRCH_004"
)

// Patent family provider error codes.
const (
	ErrCodeFamilyLookupFailed ErrorCode = "FAM_001"
	ErrCodeFamilyBadStatus    ErrorCode = "FAM_002"
	ErrCodeFamilyParseError   ErrorCode = "FAM_003"
	ErrCodeFamilyNoLink       ErrorCode = "FAM_004"
)

// Jurisdiction crawler error codes.
const (
	ErrCodeCrawlFailed     ErrorCode = "CRAWL_001"
	ErrCodeCrawlBadStatus  ErrorCode = "CRAWL_002"
	ErrCodeCrawlParseError ErrorCode = "CRAWL_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodePoolStateLoad:    http.StatusInternalServerError,
	ErrCodePoolStateSave:    http.StatusInternalServerError,
	ErrCodePoolExhausted:    http.StatusTooManyRequests,
	ErrCodePoolStateInvalid: http.StatusInternalServerError,

	ErrCodeChemLookupFailed:  http.StatusBadGateway,
	ErrCodeChemParseFailed:   http.StatusBadGateway,
	ErrCodeChemBadStatus:     http.StatusBadGateway,
	ErrCodeChemEmptyCompound: http.StatusNotFound,

	ErrCodeSearchFailed:     http.StatusBadGateway,
	ErrCodeSearchBadStatus:  http.StatusBadGateway,
	ErrCodeSearchParseError: http.StatusBadGateway,
	ErrCodeSearchNoKey:      http.StatusTooManyRequests,

	ErrCodeFamilyLookupFailed: http.StatusBadGateway,
	ErrCodeFamilyBadStatus:    http.StatusBadGateway,
	ErrCodeFamilyParseError:   http.StatusBadGateway,
	ErrCodeFamilyNoLink:       http.StatusNotFound,

	ErrCodeCrawlFailed:     http.StatusBadGateway,
	ErrCodeCrawlBadStatus:  http.StatusBadGateway,
	ErrCodeCrawlParseError: http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeExternalService:    "external service error",
	ErrCodeServiceUnavailable: "service unavailable",

	ErrCodePoolStateLoad:    "failed to load credential pool state",
	ErrCodePoolStateSave:    "failed to save credential pool state",
	ErrCodePoolExhausted:    "all credentials are at their monthly cap",
	ErrCodePoolStateInvalid: "credential pool state is invalid",

	ErrCodeChemLookupFailed:  "chemistry lookup failed",
	ErrCodeChemParseFailed:   "failed to parse chemistry provider response",
	ErrCodeChemBadStatus:     "chemistry provider returned non-success status",
	ErrCodeChemEmptyCompound: "no compound data for molecule",

	ErrCodeSearchFailed:     "web search failed",
	ErrCodeSearchBadStatus:  "search provider returned non-success status",
	ErrCodeSearchParseError: "failed to parse search provider response",
	ErrCodeSearchNoKey:      "no search credential available",

	ErrCodeFamilyLookupFailed: "patent family lookup failed",
	ErrCodeFamilyBadStatus:    "family provider returned non-success status",
	ErrCodeFamilyParseError:   "failed to parse family provider response",
	ErrCodeFamilyNoLink:       "family result has no continuation link",

	ErrCodeCrawlFailed:     "jurisdiction crawl failed",
	ErrCodeCrawlBadStatus:  "crawler returned non-success status",
	ErrCodeCrawlParseError: "failed to parse crawler response",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
