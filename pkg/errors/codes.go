package errors

// Error Categories
const (
	ConfigurationCategory = "CON"
	PlatformCategory      = "PLT"
	MessageCategory       = "MSG"
	NetworkCategory       = "NET"
	ValidationCategory    = "VAL"
	SystemCategory        = "SYS"
)

// Configuration Error Codes
const (
	ErrInvalidConfig    Code = "CON001" // Invalid configuration
	ErrConfigLoadFailed Code = "CON005" // Failed to load configuration
)

// Platform Error Codes
const (
	ErrPlatformNotFound Code = "PLT001" // Channel kind not registered
	ErrUnexpectedStatus Code = "PLT008" // Remote endpoint answered with a non-2xx status
)

// Message Error Codes
const (
	ErrMessageEncoding   Code = "MSG004" // Message could not be built
	ErrMessageSendFailed Code = "MSG005" // Message could not be delivered
)

// Network Error Codes
const (
	ErrNetworkConnection Code = "NET002" // Request could not be completed
)

// Validation Error Codes
const (
	ErrValidationFailed  Code = "VAL001" // Validation failed
	ErrInvalidFormat     Code = "VAL002" // Invalid format
	ErrUnknownParseMode  Code = "VAL006" // Unknown Telegram parse mode
	ErrInvalidTargetChat Code = "VAL007" // Invalid Telegram target chat
)

// System Error Codes
const (
	ErrInternalError        Code = "SYS002" // Internal error
	ErrProcessSpawn         Code = "SYS007" // Process could not be started
	ErrNonSuccessExit       Code = "SYS008" // Process exited unsuccessfully
	ErrUnsupportedTransport Code = "SYS009" // Requested transport is not available
)

// ErrorInfo contains metadata about error codes
type ErrorInfo struct {
	Code        Code   `json:"code"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var errorInfoMap = map[Code]ErrorInfo{
	ErrInvalidConfig:    {ErrInvalidConfig, ConfigurationCategory, "Invalid configuration provided"},
	ErrConfigLoadFailed: {ErrConfigLoadFailed, ConfigurationCategory, "Failed to load configuration"},

	ErrPlatformNotFound: {ErrPlatformNotFound, PlatformCategory, "Channel not registered"},
	ErrUnexpectedStatus: {ErrUnexpectedStatus, PlatformCategory, "Unexpected response status"},

	ErrMessageEncoding:   {ErrMessageEncoding, MessageCategory, "Message encoding error"},
	ErrMessageSendFailed: {ErrMessageSendFailed, MessageCategory, "Failed to send message"},

	ErrNetworkConnection: {ErrNetworkConnection, NetworkCategory, "Network connection error"},

	ErrValidationFailed:  {ErrValidationFailed, ValidationCategory, "Validation failed"},
	ErrInvalidFormat:     {ErrInvalidFormat, ValidationCategory, "Invalid format"},
	ErrUnknownParseMode:  {ErrUnknownParseMode, ValidationCategory, "Unknown parse mode"},
	ErrInvalidTargetChat: {ErrInvalidTargetChat, ValidationCategory, "Invalid target chat"},

	ErrInternalError:        {ErrInternalError, SystemCategory, "Internal error"},
	ErrProcessSpawn:         {ErrProcessSpawn, SystemCategory, "Process could not be started"},
	ErrNonSuccessExit:       {ErrNonSuccessExit, SystemCategory, "Process exited unsuccessfully"},
	ErrUnsupportedTransport: {ErrUnsupportedTransport, SystemCategory, "Transport not available"},
}

// GetErrorInfo returns metadata for a given error code
func GetErrorInfo(code Code) ErrorInfo {
	if info, exists := errorInfoMap[code]; exists {
		return info
	}
	return ErrorInfo{
		Code:        code,
		Category:    "UNKNOWN",
		Description: "Unknown error code",
	}
}

// GetCategory returns the category for an error code
func GetCategory(code Code) string {
	return GetErrorInfo(code).Category
}

// NewPlatformError creates an error attributed to a channel
func NewPlatformError(code Code, platform string, message string) *NotifyError {
	return New(code, message).WithPlatform(platform)
}

// NewValidationError creates a validation error for a field
func NewValidationError(code Code, field string, message string) *NotifyError {
	return New(code, message).WithContext("field", field)
}
