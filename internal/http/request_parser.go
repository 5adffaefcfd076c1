package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrBadRequest marks malformed table commands.
var ErrBadRequest = errors.New("bad request")

// maxBodyBytes caps table command bodies; they carry a handful of fields.
const maxBodyBytes = 64 << 10

// formValues is satisfied by url.Values and *RequestBodyParser.
type formValues interface {
	Get(key string) string
}

// rawValues returns values without trimming; *RequestBodyParser has it.
type rawValues interface {
	Raw(key string) string
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and keeps it for Parse.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns the sanitized value of key from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Raw returns the value of key with control characters removed but
// surrounding whitespace kept.
func (p *RequestBodyParser) Raw(key string) string {
	if p.jsonData != nil {
		return stripControl(stringValue(p.jsonData[key]))
	}
	if p.formData != nil {
		return stripControl(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData.Has(key)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FilterRequest sets one filter input. An empty Value clears the filter.
// Value is passed through untrimmed so text filters match what was typed.
type FilterRequest struct {
	Key   string
	Value string
}

func ParseFilterRequest(v formValues) (FilterRequest, error) {
	key := v.Get("key")
	if key == "" {
		return FilterRequest{}, fmt.Errorf("%w: filter key is required", ErrBadRequest)
	}
	value := v.Get("value")
	if raw, ok := v.(rawValues); ok {
		value = raw.Raw("value")
	}
	return FilterRequest{Key: key, Value: stripControl(value)}, nil
}

func ParseSortRequest(v formValues) (string, error) {
	key := v.Get("key")
	if key == "" {
		return "", fmt.Errorf("%w: sort key is required", ErrBadRequest)
	}
	return key, nil
}

// Page directions.
const (
	DirNext = "next"
	DirPrev = "prev"
)

// PageRequest moves either by direction or to an absolute page.
type PageRequest struct {
	Direction string
	Page      int
}

func ParsePageRequest(v formValues) (PageRequest, error) {
	switch dir := strings.ToLower(v.Get("dir")); dir {
	case DirNext, DirPrev:
		return PageRequest{Direction: dir}, nil
	case "":
	default:
		return PageRequest{}, fmt.Errorf("%w: unknown page direction %q", ErrBadRequest, dir)
	}

	raw := v.Get("page")
	if raw == "" {
		return PageRequest{}, fmt.Errorf("%w: page or dir is required", ErrBadRequest)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return PageRequest{}, fmt.Errorf("%w: page %q is not a number", ErrBadRequest, raw)
	}
	return PageRequest{Page: n}, nil
}

// PaginationRequest changes the page size, the pagination switch, or both.
// Values below 1 are passed through so the table can reject them.
type PaginationRequest struct {
	RowsPerPage *int
	Enabled     *bool
}

func ParsePaginationRequest(v formValues) (PaginationRequest, error) {
	var req PaginationRequest
	if raw := v.Get("rows_per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: rows_per_page %q is not a number", ErrBadRequest, raw)
		}
		req.RowsPerPage = &n
	}
	if raw := v.Get("enabled"); raw != "" {
		on, err := parseSwitch(raw)
		if err != nil {
			return req, err
		}
		req.Enabled = &on
	}
	if req.RowsPerPage == nil && req.Enabled == nil {
		return req, fmt.Errorf("%w: rows_per_page or enabled is required", ErrBadRequest)
	}
	return req, nil
}

func parseSwitch(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: enabled %q is not a switch value", ErrBadRequest, raw)
}
