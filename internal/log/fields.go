package log

// Canonical field names for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldIntent    = "intent"
	FieldPrinterID = "printer_id"
	FieldEventType = "event_type"
	FieldPath      = "path"
)
