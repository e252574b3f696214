// Package etherscan submits Standard JSON Input documents to Etherscan for
// source verification of deployed contracts.
package etherscan

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors returned by Client.
var (
	// ErrInvalidRequest indicates Options or Request failed validation.
	ErrInvalidRequest = errors.New("invalid verification request")
	// ErrContractNotFound indicates no source matched the requested contract name.
	ErrContractNotFound = errors.New("contract not found in standard json input")
	// ErrUnknownCompiler indicates the compiler version is absent from the solc build list.
	ErrUnknownCompiler = errors.New("unknown solc version")
	// ErrNoTransactions indicates the address has no creation transaction on record.
	ErrNoTransactions = errors.New("no transactions for address")
	// ErrVerificationRejected indicates Etherscan refused the submission.
	ErrVerificationRejected = errors.New("verification rejected")
	// ErrUpstream indicates an unexpected HTTP status or payload from a remote API.
	ErrUpstream = errors.New("upstream api error")
)

const defaultHTTPTimeout = 30 * time.Second

// Options configures a Client. InfuraURL and EtherscanURL default to the
// public endpoints of Network when empty.
type Options struct {
	Network         string        `validate:"required"`
	APIKey          string        `validate:"required"`
	InfuraProjectID string        `validate:"required_without=InfuraURL"`
	SolcListURL     string        `validate:"required,url"`
	InfuraURL       string        `validate:"omitempty,url"`
	EtherscanURL    string        `validate:"omitempty,url"`
	PollInterval    time.Duration `validate:"gt=0"`
	MaxRetries      int           `validate:"gte=0"`

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the solc build list, an Ethereum JSON-RPC node and the
// Etherscan API.
type Client struct {
	opts   Options
	http   *http.Client
	logger *slog.Logger
}

// NewClient validates opts and returns a Client.
func NewClient(opts Options) (*Client, error) {
	err := validate.Struct(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if opts.InfuraURL == "" {
		opts.InfuraURL = InfuraURL(opts.Network, opts.InfuraProjectID)
	}

	if opts.EtherscanURL == "" {
		opts.EtherscanURL = EtherscanURL(opts.Network)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{opts: opts, http: httpClient, logger: logger}, nil
}

// InfuraURL returns the Infura JSON-RPC endpoint for network.
func InfuraURL(network, projectID string) string {
	return fmt.Sprintf("https://%s.infura.io/v3/%s", network, projectID)
}

// EtherscanURL returns the Etherscan API endpoint for network. Mainnet has no
// network suffix.
func EtherscanURL(network string) string {
	if network == "" || network == "mainnet" {
		return "https://api.etherscan.io/api"
	}

	return fmt.Sprintf("https://api-%s.etherscan.io/api", network)
}

var validate = validator.New(validator.WithRequiredStructEnabled())
