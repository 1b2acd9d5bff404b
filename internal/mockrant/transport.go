package mockrant

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
)

// Transport routes client exchanges into a fiber app in-process, so tests
// exercise the full request/decode path without a listener.
type Transport struct {
	App *fiber.App
}

// NewTransport wraps a fake platform in a client transport.
func NewTransport(s *Server) *Transport {
	return &Transport{App: s.App()}
}

func (t *Transport) Exchange(ctx context.Context, method, rawURL string, header http.Header, body io.Reader) (int, []byte, error) {
	req := httptest.NewRequest(method, rawURL, body)
	req = req.WithContext(ctx)
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := t.App.Test(req, -1)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}
