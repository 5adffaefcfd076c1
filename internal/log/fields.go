package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldTable      = "table"
	FieldSession    = "session"
	FieldFilterKey  = "filter_key"
	FieldSortKey    = "sort_key"
	FieldPage       = "page"
	FieldDataset    = "dataset"
	FieldBackend    = "backend"
	FieldRows       = "rows"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentTable    = "table"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSeeder   = "seeder"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
	ComponentSecurity = "security"
	ComponentBackend  = "backend"
	ComponentTemplate = "template"
)

// Operations defines standard operation names
const (
	OpFilter   = "filter"
	OpSort     = "sort"
	OpPage     = "page"
	OpReset    = "reset"
	OpList     = "list"
	OpAppend   = "append"
	OpIngest   = "ingest"
	OpLoad     = "load"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds the error message; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTable adds the table name and the session that owns its state.
func (f LogFields) WithTable(table, session string) LogFields {
	f[FieldTable] = table
	if session != "" {
		f[FieldSession] = session
	}
	return f
}

// WithFilter adds the filter key being changed.
func (f LogFields) WithFilter(key string) LogFields {
	f[FieldFilterKey] = key
	return f
}

func (f LogFields) WithSort(key string) LogFields {
	f[FieldSortKey] = key
	return f
}

func (f LogFields) WithPage(page int) LogFields {
	f[FieldPage] = page
	return f
}

func (f LogFields) WithDataset(name string) LogFields {
	f[FieldDataset] = name
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to key/value pairs for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
