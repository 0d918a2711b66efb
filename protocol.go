package webwindow

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trevwilson/webwindow/platform"
)

// ProtocolRequest describes one custom-scheme fetch from page content,
// e.g. app://bundle/index.html.
type ProtocolRequest struct {
	Scheme string
	URL    string
	Path   string // path portion after scheme://host, always /-prefixed
}

// ProtocolResponse is what a handler returns. Zero Status means 200; a
// zero MimeType is served as application/octet-stream.
type ProtocolResponse struct {
	Status   int
	MimeType string
	Body     []byte
}

// ProtocolHandler serves one registered scheme. It may run off the loop
// goroutine and must be safe for concurrent calls.
type ProtocolHandler func(req ProtocolRequest) ProtocolResponse

// RegisterProtocol installs a handler for scheme (lowercase letters and
// digits, starting with a letter). Registration must happen before the
// webview that uses the scheme is attached; re-registering a scheme
// fails.
func (a *App) RegisterProtocol(scheme string, handler ProtocolHandler) error {
	if !validScheme(scheme) {
		a.setLastError("register protocol: invalid scheme %q", scheme)
		return ErrInvalidParameter
	}
	if handler == nil {
		a.setLastError("register protocol: nil handler for %q", scheme)
		return ErrInvalidParameter
	}
	a.protoMu.Lock()
	defer a.protoMu.Unlock()
	if _, exists := a.protocols[scheme]; exists {
		a.setLastError("register protocol: scheme %q already registered", scheme)
		return fmt.Errorf("%w: scheme %q already registered", ErrInvalidParameter, scheme)
	}
	a.protocols[scheme] = handler
	return nil
}

func validScheme(scheme string) bool {
	if scheme == "" || scheme[0] < 'a' || scheme[0] > 'z' {
		return false
	}
	for i := 0; i < len(scheme); i++ {
		c := scheme[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// resolveScheme is the hook handed to every webview: it maps a custom
// URL to a registered handler's response. Unregistered schemes report
// unhandled, which the backend turns into a 404 for the page.
func (a *App) resolveScheme(rawURL string) (platform.SchemeResponse, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return platform.SchemeResponse{}, false
	}
	a.protoMu.RLock()
	handler := a.protocols[u.Scheme]
	a.protoMu.RUnlock()
	if handler == nil {
		return platform.SchemeResponse{}, false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	resp := a.callProtocolHandler(handler, ProtocolRequest{
		Scheme: u.Scheme,
		URL:    rawURL,
		Path:   path,
	})
	return platform.SchemeResponse{
		Status:   resp.Status,
		MimeType: resp.MimeType,
		Body:     resp.Body,
	}, true
}

// callProtocolHandler runs a handler under a recover guard; a panic is
// served to the page as a 500.
func (a *App) callProtocolHandler(h ProtocolHandler, req ProtocolRequest) (resp ProtocolResponse) {
	defer func() {
		if r := recover(); r != nil {
			a.setLastError("protocol %s handler panicked: %v", req.Scheme, r)
			resp = ProtocolResponse{Status: http.StatusInternalServerError}
		}
	}()
	return h(req)
}

// protocolServer bridges registered schemes to backends without native
// scheme interception: it serves them over loopback HTTP, mapping
// /<scheme>/<path> to the scheme's handler.
type protocolServer struct {
	listener net.Listener
	server   *http.Server
	base     string
}

// ProtocolBaseURL starts the loopback bridge on first use and returns
// its base URL. scheme://host/path is then reachable at
// <base><scheme>/host/path.
func (a *App) ProtocolBaseURL() (string, error) {
	a.protoMu.Lock()
	defer a.protoMu.Unlock()
	if a.protoSrv != nil {
		return a.protoSrv.base, nil
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		a.setLastError("protocol server: listen: %v", err)
		return "", fmt.Errorf("%w: protocol server: %v", ErrNativeFailure, err)
	}
	srv := &protocolServer{
		listener: ln,
		base:     fmt.Sprintf("http://%s/", ln.Addr().String()),
	}
	srv.server = &http.Server{
		Handler:     http.HandlerFunc(a.serveProtocolHTTP),
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.setLastError("protocol server: %v", err)
		}
	}()
	a.protoSrv = srv
	return srv.base, nil
}

func (a *App) serveProtocolHTTP(rw http.ResponseWriter, r *http.Request) {
	// Path layout: /<scheme>/<host-and-path...>
	trimmed := strings.TrimPrefix(r.URL.Path, "/")
	scheme, rest, _ := strings.Cut(trimmed, "/")

	a.protoMu.RLock()
	handler := a.protocols[scheme]
	a.protoMu.RUnlock()
	if handler == nil {
		http.NotFound(rw, r)
		return
	}

	host, path, found := strings.Cut(rest, "/")
	if !found {
		host, path = rest, ""
	}
	resp := a.callProtocolHandler(handler, ProtocolRequest{
		Scheme: scheme,
		URL:    fmt.Sprintf("%s://%s/%s", scheme, host, path),
		Path:   "/" + path,
	})
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	mime := resp.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	rw.Header().Set("Content-Type", mime)
	rw.WriteHeader(status)
	_, _ = rw.Write(resp.Body)
}

func (s *protocolServer) close() {
	_ = s.server.Close()
}
