package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// RPCClient is a JSON-RPC 2.0 client for the contract runtime endpoint.
// It handles request serialization, authentication, and response
// parsing. The InvocationService methods are built on top of Call.
type RPCClient struct {
	url    string
	user   string
	pass   string
	client *http.Client
	nextID atomic.Int64
}

// RPCConfig holds the connection parameters for the contract runtime's
// JSON-RPC interface.
type RPCConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// rpcRequest represents a JSON-RPC 2.0 request payload.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response payload.
type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// rpcError represents an error returned by the JSON-RPC server.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRPCClient creates a new JSON-RPC client with the given
// configuration. Basic Auth is applied when User is non-empty.
func NewRPCClient(cfg RPCConfig) *RPCClient {
	return &RPCClient{
		url:  cfg.URL,
		user: cfg.User,
		pass: cfg.Password,
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

// Call invokes a JSON-RPC method. If result is non-nil the response
// result is unmarshalled into it.
//
// Call returns ErrConnectionFailed if the HTTP request fails and
// ErrInvalidResponse if the response cannot be decoded. RPC-level
// errors are returned as plain errors with the server's message.
func (c *RPCClient) Call(ctx context.Context, method string, params, result interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("ledger: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}

	if rpcResp.ID != reqBody.ID {
		return fmt.Errorf("%w: response ID mismatch: expected %d, got %d",
			ErrInvalidResponse, reqBody.ID, rpcResp.ID)
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("ledger: rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %w", ErrInvalidResponse, err)
		}
	}

	return nil
}

// GetAccount fetches account state through the runtime endpoint.
func (c *RPCClient) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	var acct Account
	params := map[string]string{"account": accountID}
	if err := c.Call(ctx, "getAccount", params, &acct); err != nil {
		return nil, err
	}
	if acct.AccountID == "" {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return &acct, nil
}

// simulateResponse is the wire shape of a simulateTransaction result.
type simulateResponse struct {
	Results []struct {
		Value json.RawMessage `json:"value"`
	} `json:"results"`
	MinResourceFee string `json:"minResourceFee"`
	Error          string `json:"error"`
}

// SimulateTransaction executes an envelope read-only. A simulation that
// produced no value yields a Simulation with a nil Result, not an error;
// only transport and decode failures are errors.
func (c *RPCClient) SimulateTransaction(ctx context.Context, envelope string) (*Simulation, error) {
	var resp simulateResponse
	params := map[string]string{"transaction": envelope}
	if err := c.Call(ctx, "simulateTransaction", params, &resp); err != nil {
		return nil, err
	}

	sim := &Simulation{Error: resp.Error}
	if len(resp.Results) > 0 {
		sim.Result = resp.Results[0].Value
	}
	if resp.MinResourceFee != "" {
		fee, err := strconv.ParseUint(resp.MinResourceFee, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: resource fee %q", ErrInvalidResponse, resp.MinResourceFee)
		}
		sim.MinResourceFee = uint32(fee)
	}
	return sim, nil
}

// sendResponse is the wire shape of a sendTransaction result.
type sendResponse struct {
	Hash        string `json:"hash"`
	Status      string `json:"status"`
	ErrorResult string `json:"errorResult"`
}

// SendTransaction submits a signed envelope to the contract runtime.
// A rejected transaction is an unsuccessful result, not an error.
func (c *RPCClient) SendTransaction(ctx context.Context, envelope string) (*SubmitResult, error) {
	var resp sendResponse
	params := map[string]string{"transaction": envelope}
	if err := c.Call(ctx, "sendTransaction", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status == "ERROR" {
		detail := resp.ErrorResult
		if detail == "" {
			detail = "transaction rejected"
		}
		return &SubmitResult{Successful: false, Hash: resp.Hash, ErrorDetail: detail}, nil
	}
	return &SubmitResult{Successful: true, Hash: resp.Hash}, nil
}
