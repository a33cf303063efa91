package testhelpers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Stub is a single expected request and its canned response. Build it with
// New and the chainable setters; a stub answers at most one request.
type Stub struct {
	method  string
	url     *url.URL
	status  int
	body    []byte
	headers http.Header

	consumed bool
}

type stubTransport struct {
	mu    sync.Mutex
	stubs []*Stub
}

var (
	transport = &stubTransport{}

	savedTransport http.RoundTripper = http.DefaultTransport
)

// New registers a stub rooted at baseURL on the shared transport.
func New(baseURL string) *Stub {
	u, err := url.Parse(baseURL)
	if err != nil {
		panic(fmt.Sprintf("httpmock: invalid base URL: %v", err))
	}
	if u.Scheme == "" || u.Host == "" {
		panic(fmt.Sprintf("httpmock: base URL needs scheme and host, got %q", baseURL))
	}

	s := &Stub{url: u, headers: make(http.Header)}

	transport.mu.Lock()
	transport.stubs = append(transport.stubs, s)
	transport.mu.Unlock()

	return s
}

func (s *Stub) Get(path string) *Stub {
	s.method = http.MethodGet
	u, err := url.Parse(path)
	if err != nil {
		panic(fmt.Sprintf("httpmock: invalid path: %v", err))
	}
	s.url.Path = u.Path
	s.url.RawQuery = u.RawQuery
	return s
}

func (s *Stub) Post(path string) *Stub {
	s.method = http.MethodPost
	s.url.Path = path
	return s
}

func (s *Stub) Reply(status int) *Stub {
	s.status = status
	return s
}

func (s *Stub) BodyString(body string) *Stub {
	s.body = []byte(body)
	return s
}

func (s *Stub) Body(body []byte) *Stub {
	s.body = body
	return s
}

func (s *Stub) JSON(v interface{}) *Stub {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("httpmock: marshal JSON: %v", err))
	}
	s.body = data
	s.headers.Set("Content-Type", "application/json")
	return s
}

func (s *Stub) Header(key, value string) *Stub {
	s.headers.Set(key, value)
	return s
}

// Activate routes http.DefaultClient through the stub transport.
func Activate() {
	if http.DefaultClient.Transport == transport {
		return
	}

	if http.DefaultClient.Transport != nil {
		savedTransport = http.DefaultClient.Transport
	} else {
		savedTransport = http.DefaultTransport
	}

	http.DefaultClient.Transport = transport
}

// Deactivate restores the real transport and drops all stubs.
func Deactivate() {
	http.DefaultClient.Transport = savedTransport

	transport.mu.Lock()
	transport.stubs = nil
	transport.mu.Unlock()
}

// IsDone reports whether every registered stub answered a request.
func IsDone() bool {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	for _, s := range transport.stubs {
		if !s.consumed {
			return false
		}
	}
	return true
}

func (t *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var nearMisses []string
	for _, s := range t.stubs {
		if s.consumed {
			continue
		}
		if reason := s.mismatch(req); reason == "" {
			s.consumed = true
			return s.response(req), nil
		} else {
			nearMisses = append(nearMisses, reason)
		}
	}

	detail := ""
	if len(nearMisses) > 0 {
		detail = " (" + strings.Join(nearMisses, "; ") + ")"
	}
	return nil, fmt.Errorf("httpmock: no stub for %s %s%s", req.Method, req.URL, detail)
}

// mismatch returns an empty string on a match, or a short reason otherwise.
// Query parameters on the stub must all be present on the request; extra
// request parameters are ignored only when the stub declares none.
func (s *Stub) mismatch(req *http.Request) string {
	if s.method != "" && s.method != req.Method {
		return fmt.Sprintf("want method %s, got %s", s.method, req.Method)
	}
	if s.url.Scheme != req.URL.Scheme || s.url.Host != req.URL.Host {
		return fmt.Sprintf("want host %s://%s, got %s://%s", s.url.Scheme, s.url.Host, req.URL.Scheme, req.URL.Host)
	}
	if s.url.Path != req.URL.Path {
		return fmt.Sprintf("want path %s, got %s", s.url.Path, req.URL.Path)
	}

	want := s.url.Query()
	got := req.URL.Query()
	for key, values := range want {
		actual, ok := got[key]
		if !ok {
			return fmt.Sprintf("missing query key %s", key)
		}
		if len(actual) != len(values) {
			return fmt.Sprintf("query %s: want %v, got %v", key, values, actual)
		}
		for i := range values {
			if actual[i] != values[i] {
				return fmt.Sprintf("query %s: want %s, got %s", key, values[i], actual[i])
			}
		}
	}

	return ""
}

func (s *Stub) response(req *http.Request) *http.Response {
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		StatusCode:    status,
		Body:          io.NopCloser(bytes.NewReader(s.body)),
		Header:        s.headers,
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		ContentLength: int64(len(s.body)),
	}
}

// CreateMockZipArchive wraps data in a single-file zip, the shape registry
// documents arrive in.
func CreateMockZipArchive(filename string, data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	f, err := w.Create(filename)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
