package etherscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	statusError        = "0"
	maxResponseBytes   = 32 << 20
	contentTypeJSON    = "application/json"
	contentTypeForm    = "application/x-www-form-urlencoded"
	rpcVersion         = "2.0"
	rpcMethodGetCode   = "eth_getCode"
	blockTagLatest     = "latest"
	codeFormatStandard = "solidity-standard-json-input"
)

type rpcRequest struct {
	JSONRPC string   `json:"jsonrpc"`
	Method  string   `json:"method"`
	Params  []string `json:"params"`
	ID      int      `json:"id"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// apiResponse is the Etherscan envelope. Result is a string on errors and
// for most actions, an array for txlist.
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (r *apiResponse) text() string {
	var s string
	if json.Unmarshal(r.Result, &s) == nil {
		return s
	}

	return string(r.Result)
}

type transaction struct {
	BlockNumber string `json:"blockNumber"`
	Hash        string `json:"hash"`
	Input       string `json:"input"`
}

// ConstructorArgs returns the ABI-encoded constructor arguments: the part of
// the creation input that follows the deployed runtime code. It is empty
// when the runtime code does not occur in the input.
func ConstructorArgs(creationInput, runtimeCode string) string {
	code := strings.TrimPrefix(runtimeCode, "0x")
	if code == "" {
		return ""
	}

	_, after, found := strings.Cut(creationInput, code)
	if !found {
		return ""
	}

	return after
}

// Code returns the runtime bytecode at address via eth_getCode.
func (c *Client) Code(ctx context.Context, address string) (string, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: rpcVersion,
		Method:  rpcMethodGetCode,
		Params:  []string{address, blockTagLatest},
		ID:      1,
	})
	if err != nil {
		return "", fmt.Errorf("encode rpc request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.opts.InfuraURL, contentTypeJSON, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: %w", rpcMethodGetCode, err)
	}

	var resp rpcResponse

	unmarshalErr := json.Unmarshal(body, &resp)
	if unmarshalErr != nil {
		return "", fmt.Errorf("%w: decode %s: %w", ErrUpstream, rpcMethodGetCode, unmarshalErr)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s: %s", ErrUpstream, rpcMethodGetCode, resp.Error.Message)
	}

	return resp.Result, nil
}

// CreationInput returns the input of the first transaction to address,
// which for a contract is its creation transaction.
func (c *Client) CreationInput(ctx context.Context, address string) (string, error) {
	resp, err := c.api(ctx, url.Values{
		"module":  {"account"},
		"action":  {"txlist"},
		"address": {address},
		"sort":    {"asc"},
	})
	if err != nil {
		return "", err
	}

	var txs []transaction

	unmarshalErr := json.Unmarshal(resp.Result, &txs)
	if unmarshalErr != nil {
		return "", fmt.Errorf("%w: txlist: %s", ErrUpstream, resp.text())
	}

	if len(txs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoTransactions, address)
	}

	return txs[0].Input, nil
}

func (c *Client) api(ctx context.Context, params url.Values) (*apiResponse, error) {
	params.Set("apikey", c.opts.APIKey)

	body, err := c.get(ctx, c.opts.EtherscanURL, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Get("action"), err)
	}

	return decodeAPI(body)
}

func (c *Client) postForm(ctx context.Context, params url.Values) (*apiResponse, error) {
	params.Set("apikey", c.opts.APIKey)

	body, err := c.do(ctx, http.MethodPost, c.opts.EtherscanURL, contentTypeForm,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Get("action"), err)
	}

	return decodeAPI(body)
}

func decodeAPI(body []byte) (*apiResponse, error) {
	var resp apiResponse

	err := json.Unmarshal(body, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUpstream, err)
	}

	return &resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	return c.do(ctx, http.MethodGet, endpoint, "", nil)
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error repeats the query string, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return nil, fmt.Errorf("%s %s%s: %w", method, req.URL.Host, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUpstream, req.URL.Path, resp.Status)
	}

	return data, nil
}
