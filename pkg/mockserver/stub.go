package mockserver

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Response is the canned answer of a stub.
type Response struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"-"`
}

// JSON builds a response carrying body as application/json.
func JSON(status int, body []byte) Response {
	return Response{
		Status:  status,
		Headers: map[string]string{echo.HeaderContentType: "application/json"},
		Body:    body,
	}
}

// Stub pairs a request pattern with a canned response. Stubs are values;
// the builder methods return modified copies.
type Stub struct {
	Name     string            `json:"name"`
	Method   string            `json:"method"`
	Path     string            `json:"path"`
	Query    map[string]string `json:"query,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Response Response          `json:"response"`
}

// Request starts a stub for method and path.
func Request(method, path string) Stub {
	return Stub{Method: strings.ToUpper(method), Path: path, Response: Response{Status: http.StatusOK}}
}

// Get starts a stub for GET path.
func Get(path string) Stub {
	return Request(http.MethodGet, path)
}

// Named sets the stub name reported by the admin API.
func (s Stub) Named(name string) Stub {
	s.Name = name
	return s
}

// WithHeader requires one element of the comma separated request header key
// to equal value. Media types are compared without their parameters, so
// "application/json" matches "text/html, application/json;q=0.9" but not
// "application/jsonx".
func (s Stub) WithHeader(key, value string) Stub {
	s.Headers = with(s.Headers, http.CanonicalHeaderKey(key), value)
	return s
}

// WithQuery requires the query parameter key to equal value.
func (s Stub) WithQuery(key, value string) Stub {
	s.Query = with(s.Query, key, value)
	return s
}

// WillReturn sets the response.
func (s Stub) WillReturn(r Response) Stub {
	if r.Status == 0 {
		r.Status = http.StatusOK
	}
	s.Response = r
	return s
}

func (s Stub) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Method + " " + s.Path
}

func (s Stub) matches(r *http.Request) bool {
	if s.Method != "" && !strings.EqualFold(s.Method, r.Method) {
		return false
	}
	if s.Path != r.URL.Path {
		return false
	}
	query := r.URL.Query()
	for k, v := range s.Query {
		if query.Get(k) != v {
			return false
		}
	}
	for k, v := range s.Headers {
		if !headerMatches(r.Header.Values(k), v) {
			return false
		}
	}
	return true
}

func headerMatches(values []string, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	wantType, _, err := mime.ParseMediaType(want)
	isMediaType := err == nil && strings.Contains(wantType, "/")
	for _, value := range values {
		for _, element := range strings.Split(value, ",") {
			element = strings.TrimSpace(element)
			if element == "" {
				continue
			}
			if !isMediaType {
				if strings.EqualFold(element, want) {
					return true
				}
				continue
			}
			got, params, err := mime.ParseMediaType(element)
			if err != nil || rejected(params) {
				continue
			}
			if mediaTypeMatches(got, wantType) {
				return true
			}
		}
	}
	return false
}

// rejected reports an explicit q=0 weight.
func rejected(params map[string]string) bool {
	q, ok := params["q"]
	if !ok {
		return false
	}
	weight, err := strconv.ParseFloat(q, 64)
	return err == nil && weight == 0
}

// mediaTypeMatches accepts */* and type/* ranges on the request side.
func mediaTypeMatches(got, want string) bool {
	switch {
	case got == want, got == "*/*":
		return true
	case strings.HasSuffix(got, "/*"):
		return strings.HasPrefix(want, strings.TrimSuffix(got, "*"))
	}
	return false
}

func with(m map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}
