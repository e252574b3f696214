package etherscan

import (
	"context"
	"fmt"
	"strings"
)

// MatchCompiler returns the first build in list, one per line, whose name
// contains version, reduced to the form Etherscan expects: "soljson-" and
// the ".js" suffix are removed, e.g. "v0.6.12+commit.27d51765".
func MatchCompiler(list, version string) (string, bool) {
	for line := range strings.Lines(list) {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, version) {
			continue
		}

		if _, after, found := strings.Cut(line, "soljson-"); found {
			line = after
		}

		return strings.TrimSuffix(line, ".js"), true
	}

	return "", false
}

// ResolveCompiler fetches the solc build list and matches version against it.
func (c *Client) ResolveCompiler(ctx context.Context, version string) (string, error) {
	body, err := c.get(ctx, c.opts.SolcListURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch solc list: %w", err)
	}

	build, ok := MatchCompiler(string(body), version)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCompiler, version)
	}

	return build, nil
}
