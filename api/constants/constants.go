package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidForm        = "invalid multipart form"
	ErrFileRequired       = "file is required"
	ErrCSVOnly            = "only csv training files are supported"
	ErrFileTooLarge       = "uploaded file exceeds the size limit"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrModelNotTrained    = "no trained model available"
	ErrCatalogUnavailable = "loan catalog unavailable"
	ErrDB                 = "DB error"
)

// Content types
const (
	ContentTypeJSON   = "application/json"
	ContentTypeHeader = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
)
