package doublepaws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"double-paws/internal/platform/httpclient"
)

var (
	// ErrUpstream envuelve cualquier fallo del backend (red, 5xx, JSON inválido).
	ErrUpstream = errors.New("double paws api error")
	// ErrMalformed: el backend devolvió un dato que no se puede usar (p.ej. una fecha).
	ErrMalformed = errors.New("double paws api returned malformed data")
)

// Client habla con el backend REST de Double Paws. Cada llamada reenvía el
// bearer del usuario; no guarda estado entre requests.
type Client struct {
	http *httpclient.Client
}

func NewClient(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

func (c *Client) get(ctx context.Context, token, path string, q url.Values, out any) error {
	return c.http.DoJSON(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  q,
		Token:  token,
	}, out)
}

func (c *Client) post(ctx context.Context, token, path string, body, out any) error {
	return c.http.DoJSON(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Token:  token,
		Body:   body,
	}, out)
}

// mapErr traduce el error del transporte al sentinel del dominio.
// 404 => notFound (si el dominio lo tiene); todo lo demás => unavailable.
func mapErr(err error, notFound, unavailable error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && httpclient.StatusCode(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", notFound, err)
	}
	if errors.Is(err, ErrMalformed) || unavailable == ErrUpstream {
		return fmt.Errorf("%w: %w", unavailable, err)
	}
	return fmt.Errorf("%w: %w: %w", unavailable, ErrUpstream, err)
}
