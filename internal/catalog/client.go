package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tillpoint/pos-terminal/internal/session"
	"github.com/tillpoint/pos-terminal/pkg/config"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

// Client talks to the back office product API on behalf of the operator
// whose session is carried in the request context.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

func NewClient(cfg config.CatalogConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		logg:    logg,
	}, nil
}

type listResponse struct {
	Success bool      `json:"success"`
	Data    []Product `json:"data"`
}

type productResponse struct {
	Success bool    `json:"success"`
	Data    Product `json:"data"`
}

type upstreamError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (u upstreamError) text() string {
	if u.Error.Message != "" {
		return u.Error.Message
	}
	return u.Message
}

// ListProducts fetches the full sellable catalog page for this store.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out listResponse
	if err := c.getJSON(ctx, "/api/v1/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FindByCode resolves a scanned barcode or SKU to a product. A miss is
// reported as a NOT_FOUND coded error so callers can distinguish it from
// transport failure.
func (c *Client) FindByCode(ctx context.Context, code string) (*Product, error) {
	query := url.Values{"code": []string{code}}
	var out productResponse
	if err := c.getJSON(ctx, "/api/v1/products/lookup", query, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building catalog request")
	}
	req.Header.Set("Accept", "application/json")
	if sess, ok := session.FromContext(ctx); ok && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading catalog response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case resp.StatusCode == http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "catalog rejected credentials")
	case resp.StatusCode >= 400:
		var upstream upstreamError
		_ = json.Unmarshal(body, &upstream)
		message := upstream.text()
		if message == "" {
			message = fmt.Sprintf("catalog returned status %d", resp.StatusCode)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding catalog response")
	}
	return nil
}
