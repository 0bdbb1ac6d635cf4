// Package checkout drives the commit of a cart to the back office sales
// ledger and everything that follows a successful commit.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tillpoint/pos-terminal/internal/session"
	"github.com/tillpoint/pos-terminal/pkg/config"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

// CommitItem is one cart line in the commit payload. The ledger prices
// items itself; the terminal only states what was sold.
type CommitItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CommitRequest is the sale submission payload.
type CommitRequest struct {
	TerminalID string       `json:"terminal_id"`
	Items      []CommitItem `json:"items"`
}

// CommitResult carries the ledger's identifier for the committed sale.
type CommitResult struct {
	SaleID int64 `json:"sale_id"`
}

// Client submits sales to the back office ledger.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

func NewClient(cfg config.LedgerConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("ledger base url is required")
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

type commitEnvelope struct {
	Success bool         `json:"success"`
	Data    CommitResult `json:"data"`
}

type ledgerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// CommitSale posts the sale and returns the ledger's sale id. Failures
// surface the server's own message so the operator sees why the sale was
// refused, not a generic transport error.
func (c *Client) CommitSale(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding sale")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/sales", bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building commit request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if sess, ok := session.FromContext(ctx); ok && sess.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCommitFailed, err, "sales ledger unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCommitFailed, err, "reading ledger response")
	}

	if resp.StatusCode >= 400 {
		var upstream ledgerError
		_ = json.Unmarshal(body, &upstream)
		message := upstream.Error.Message
		if message == "" {
			message = upstream.Message
		}
		if message == "" {
			message = fmt.Sprintf("ledger returned status %d", resp.StatusCode)
		}
		return nil, pkgerrors.New(pkgerrors.CodeCommitFailed, message)
	}

	var envelope commitEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCommitFailed, err, "decoding ledger response")
	}
	if envelope.Data.SaleID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCommitFailed, "ledger response missing sale id")
	}
	return &envelope.Data, nil
}
