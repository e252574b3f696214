package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/solt/pkg/etherscan"
	"github.com/Sumatoshi-tech/solt/pkg/manifest"
)

const verifyAddress = "0x00000000000000000000000000000000000000aa"

func newExplorer(t *testing.T, status string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/list.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "soljson-v0.8.19+commit.7dd6d404.js\n")
	})

	mux.HandleFunc("/rpc", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":"0xbeef"}`)
	})

	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())

		switch r.Form.Get("action") {
		case "txlist":
			_, _ = io.WriteString(w, `{"status":"1","message":"OK","result":[{"input":"0xc0debeef0001"}]}`)
		case "verifysourcecode":
			_, _ = io.WriteString(w, `{"status":"1","message":"OK","result":"guid-7"}`)
		case "checkverifystatus":
			_, _ = fmt.Fprintf(w, `{"status":"1","message":"OK","result":%q}`, status)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func verifyConfig(serverURL string) string {
	return fmt.Sprintf(`verify:
  etherscan_api_key: key
  solc_list_url: %[1]s/list.txt
  infura_url: %[1]s/rpc
  etherscan_url: %[1]s/api
  poll_interval: 1ms
  max_retries: 1
`, serverURL)
}

func writeStandardInput(t *testing.T) string {
	t.Helper()

	doc := manifest.New(map[string]manifest.Source{
		"contracts/Vault.sol": {Content: "contract Vault {}\n"},
	}, manifest.DefaultOptions())

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "solc-input-vault.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestVerify_Pass(t *testing.T) {
	t.Parallel()

	server := newExplorer(t, "Pass - Verified")

	out, err := runSolt(t, verifyConfig(server.URL), nil,
		"verify", writeStandardInput(t), verifyAddress, "vault:MyVault", "-c", "0.8.19", "-l", "3")
	require.NoError(t, err)

	assert.Contains(t, out.stdout, `verified contracts/Vault.sol as "MyVault" with solc v0.8.19+commit.7dd6d404`)
	assert.Contains(t, out.stdout, "constructor arguments: 0001")
	assert.Contains(t, out.stdout, "Pass - Verified")
}

func TestVerify_LogsMaskCredentials(t *testing.T) {
	t.Parallel()

	server := newExplorer(t, "Pass - Verified")

	out, err := runSolt(t, verifyConfig(server.URL), nil,
		"-v", "--log-json", "verify", writeStandardInput(t), verifyAddress, "Vault", "-c", "0.8.19",
		"--etherscan", "ETHERSCANKEY0000abcd")
	require.NoError(t, err)

	assert.NotContains(t, out.stderr, "ETHERSCANKEY0000")
	assert.Contains(t, out.stderr, `"etherscan_api_key":"****abcd"`)
	assert.Contains(t, out.stderr, `"command":"verify"`)
	assert.Contains(t, out.stderr, `"target":"Vault"`)
}

func TestVerify_StillPending(t *testing.T) {
	t.Parallel()

	server := newExplorer(t, "Pending in queue")

	out, err := runSolt(t, verifyConfig(server.URL), nil,
		"verify", writeStandardInput(t), verifyAddress, "Vault", "-c", "0.8.19")
	require.NoError(t, err)

	assert.Contains(t, out.stdout, "still pending after retries, guid guid-7")
}

func TestVerify_InputErrors(t *testing.T) {
	t.Parallel()

	server := newExplorer(t, "Pass - Verified")
	input := writeStandardInput(t)

	_, err := runSolt(t, verifyConfig(server.URL), nil, "verify", input, verifyAddress, "Vault")
	require.Error(t, err, "--compiler is required")

	_, err = runSolt(t, verifyConfig(server.URL), nil, "verify", input, "aa", "Vault", "-c", "0.8.19")
	require.ErrorIs(t, err, etherscan.ErrInvalidRequest)

	_, err = runSolt(t, verifyConfig(server.URL), nil, "verify", input, verifyAddress, "Vault", "-c", "0.8.19", "-l", "13")
	require.ErrorIs(t, err, etherscan.ErrInvalidRequest)

	_, err = runSolt(t, verifyConfig(server.URL), nil, "verify", input, verifyAddress, "Token", "-c", "0.8.19")
	require.ErrorIs(t, err, etherscan.ErrContractNotFound)

	_, err = runSolt(t, verifyConfig(server.URL), nil, "verify", input, verifyAddress, "Vault", "-c", "0.4.0")
	require.ErrorIs(t, err, etherscan.ErrUnknownCompiler)

	_, err = runSolt(t, verifyConfig(server.URL), nil,
		"verify", filepath.Join(t.TempDir(), "missing.json"), verifyAddress, "Vault", "-c", "0.8.19")
	require.ErrorIs(t, err, os.ErrNotExist)
}
