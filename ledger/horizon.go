package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HorizonClient implements Service over the ledger's REST API.
type HorizonClient struct {
	base   string
	client *http.Client
}

// NewHorizonClient creates a REST client for the given base URL. The
// client maintains a connection pool and applies a 30-second timeout
// per request.
func NewHorizonClient(baseURL string) *HorizonClient {
	return &HorizonClient{
		base: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// LoadAccount fetches account state by strkey address.
func (c *HorizonClient) LoadAccount(ctx context.Context, accountID string) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/accounts/"+url.PathEscape(accountID), nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(body))
	}

	var acct Account
	if err := json.NewDecoder(resp.Body).Decode(&acct); err != nil {
		return nil, fmt.Errorf("%w: decode account: %w", ErrInvalidResponse, err)
	}
	return &acct, nil
}

// submitSuccess is the REST body for an accepted transaction.
type submitSuccess struct {
	Hash       string `json:"hash"`
	Ledger     int64  `json:"ledger"`
	Successful bool   `json:"successful"`
}

// submitFailure is the REST body for a rejected transaction. The result
// codes name the reason (e.g. tx_insufficient_balance, tx_bad_seq).
type submitFailure struct {
	Extras struct {
		ResultCodes struct {
			Transaction string   `json:"transaction"`
			Operations  []string `json:"operations"`
		} `json:"result_codes"`
	} `json:"extras"`
}

// SubmitTransaction posts a signed envelope. A rejected transaction
// comes back as an unsuccessful SubmitResult with the ledger's result
// codes in ErrorDetail; only transport and decode problems are errors.
func (c *HorizonClient) SubmitTransaction(ctx context.Context, envelope string) (*SubmitResult, error) {
	form := url.Values{"tx": {envelope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/transactions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("ledger: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrInvalidResponse, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var ok submitSuccess
		if err := json.Unmarshal(body, &ok); err != nil {
			return nil, fmt.Errorf("%w: decode submission: %w", ErrInvalidResponse, err)
		}
		return &SubmitResult{Successful: ok.Successful, Hash: ok.Hash, Ledger: ok.Ledger}, nil

	case resp.StatusCode == http.StatusBadRequest:
		var fail submitFailure
		if err := json.Unmarshal(body, &fail); err != nil {
			return nil, fmt.Errorf("%w: decode rejection: %w", ErrInvalidResponse, err)
		}
		detail := fail.Extras.ResultCodes.Transaction
		if ops := fail.Extras.ResultCodes.Operations; len(ops) > 0 {
			detail = detail + " [" + strings.Join(ops, ", ") + "]"
		}
		if detail == "" {
			detail = "transaction rejected"
		}
		return &SubmitResult{Successful: false, ErrorDetail: detail}, nil

	default:
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode,
			string(body[:min(len(body), 256)]))
	}
}
