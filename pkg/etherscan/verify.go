package etherscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Sumatoshi-tech/solt/pkg/levenshtein"
	"github.com/Sumatoshi-tech/solt/pkg/manifest"
)

const (
	pendingMarker      = "pending"
	maxSuggestDistance = 3
)

var errPending = errors.New("verification pending")

// Request describes one contract to verify.
type Request struct {
	// Input is the Standard JSON Input document the contract was compiled from.
	Input []byte `validate:"required"`

	// Address is the deployed contract address.
	Address string `validate:"required,startswith=0x"`

	// Contract selects the source by key or contract name, optionally
	// followed by ":name" to override the contract name sent to Etherscan.
	Contract string `validate:"required"`

	// Compiler is the solc version, e.g. "v0.6.12".
	Compiler string `validate:"required"`

	// License is an Etherscan license code. Nil omits it.
	License *int `validate:"omitempty,min=0,max=12"`
}

// Result is the outcome of a verification.
type Result struct {
	Key             string
	ContractName    string
	Compiler        string
	ConstructorArgs string
	GUID            string

	// Message is the last status text reported by Etherscan.
	Message string

	// Pending is true when retries ran out before a final status.
	Pending bool
}

// SplitContract splits "search[:rename]".
func SplitContract(contract string) (search, rename string) {
	search, rename, _ = strings.Cut(contract, ":")

	return search, rename
}

// Verify submits req to Etherscan and waits for the verification status.
func (c *Client) Verify(ctx context.Context, req Request) (*Result, error) {
	err := validate.Struct(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	result, input, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "verifying", "key", result.Key, "name", result.ContractName)

	result.Compiler, err = c.ResolveCompiler(ctx, req.Compiler)
	if err != nil {
		return nil, err
	}

	code, err := c.Code(ctx, req.Address)
	if err != nil {
		return nil, err
	}

	creation, err := c.CreationInput(ctx, req.Address)
	if err != nil {
		return nil, err
	}

	result.ConstructorArgs = ConstructorArgs(creation, code)
	if result.ConstructorArgs == "" && creation != "" {
		c.logger.DebugContext(ctx, "no constructor arguments found", "address", req.Address)
	}

	params := url.Values{
		"module":                {"contract"},
		"action":                {"verifysourcecode"},
		"contractaddress":       {req.Address},
		"sourceCode":            {input},
		"codeformat":            {codeFormatStandard},
		"compilerversion":       {result.Compiler},
		"constructorArguements": {result.ConstructorArgs},
		"contractname":          {result.Key + ":" + result.ContractName},
	}

	if req.License != nil {
		params.Set("licenseType", strconv.Itoa(*req.License))
	}

	submitted, err := c.postForm(ctx, params)
	if err != nil {
		return nil, err
	}

	if submitted.Status == statusError {
		return nil, fmt.Errorf("%w: %s", ErrVerificationRejected, submitted.text())
	}

	result.GUID = submitted.text()

	c.logger.InfoContext(ctx, "waiting for verification result", "guid", result.GUID)

	return c.poll(ctx, result)
}

func (c *Client) prepare(req Request) (*Result, string, error) {
	validateErr := manifest.Validate(req.Input)
	if validateErr != nil {
		return nil, "", validateErr
	}

	doc, err := manifest.Decode(bytes.NewReader(req.Input))
	if err != nil {
		return nil, "", err
	}

	search, rename := SplitContract(req.Contract)

	match, ok := doc.FindContract(search)
	if !ok {
		hints := levenshtein.Suggest(search, doc.Names(), maxSuggestDistance)
		if len(hints) > 0 {
			return nil, "", fmt.Errorf("%w: %s (did you mean %s?)", ErrContractNotFound, search, hints[0])
		}

		return nil, "", fmt.Errorf("%w: %s", ErrContractNotFound, search)
	}

	name := match.Name
	if rename != "" {
		name = rename
	}

	return &Result{Key: match.Key, ContractName: name}, string(req.Input), nil
}

// poll checks the status after each PollInterval while Etherscan reports it
// pending, giving up after MaxRetries further checks.
func (c *Client) poll(ctx context.Context, result *Result) (*Result, error) {
	err := sleep(ctx, c.opts.PollInterval)
	if err != nil {
		return nil, err
	}

	check := func() (string, error) {
		resp, apiErr := c.api(ctx, url.Values{
			"module": {"contract"},
			"action": {"checkverifystatus"},
			"guid":   {result.GUID},
		})
		if apiErr != nil {
			return "", backoff.Permanent(apiErr)
		}

		message := resp.text()
		result.Message = message

		if strings.Contains(strings.ToLower(message), pendingMarker) {
			return message, errPending
		}

		return message, nil
	}

	_, err = backoff.Retry(ctx, check,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.opts.PollInterval)),
		backoff.WithMaxTries(uint(c.opts.MaxRetries)+1),
	)

	switch {
	case errors.Is(err, errPending):
		result.Pending = true

		return result, nil
	case err != nil:
		return nil, err
	default:
		return result, nil
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait for verification: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
