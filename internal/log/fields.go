package log

// Field names shared by the request middleware and the component logger.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
)

// ComponentApp tags log lines emitted by top-level command wiring.
const ComponentApp = "app"
