package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/solt/pkg/resolver"
)

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, specifier, want string
		clamped              bool
	}{
		{"A.sol", "./B.sol", "B.sol", false},
		{"src/A.sol", "./B.sol", "src/B.sol", false},
		{"src/A.sol", "../lib/C.sol", "lib/C.sol", false},
		{"src/a/b/A.sol", "../../x/./Y.sol", "src/x/Y.sol", false},
		{"src/A.sol", ".//B.sol", "src/B.sol", false},
		{"B.sol", "../lib/C.sol", "lib/C.sol", true},
		{"src/A.sol", "../../../C.sol", "C.sol", true},
	}

	for _, tc := range tests {
		got, clamped := resolver.Fold(tc.key, tc.specifier)
		assert.Equal(t, tc.want, got, "%s + %s", tc.key, tc.specifier)
		assert.Equal(t, tc.clamped, clamped, "%s + %s", tc.key, tc.specifier)
	}
}

func TestJoin_BareSpecifier(t *testing.T) {
	t.Parallel()

	got, clamped := resolver.Join("", "pkg/./Console.sol")
	assert.Equal(t, "pkg/Console.sol", got)
	assert.False(t, clamped)

	got, _ = resolver.Join("", "@scope/pkg/token/ERC20.sol")
	assert.Equal(t, "@scope/pkg/token/ERC20.sol", got)
}
