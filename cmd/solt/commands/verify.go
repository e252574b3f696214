package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/solt/pkg/etherscan"
	"github.com/Sumatoshi-tech/solt/pkg/observability"
)

const (
	flagCompiler  = "compiler"
	flagLicense   = "license"
	flagNetwork   = "network"
	flagInfura    = "infura"
	flagEtherscan = "etherscan"
)

// VerifyCommand submits a Standard JSON Input document to Etherscan.
type VerifyCommand struct {
	app *app

	compiler  string
	license   int
	network   string
	infura    string
	etherscan string
}

func newVerifyCommand(a *app) *cobra.Command {
	vc := &VerifyCommand{app: a}

	cmd := &cobra.Command{
		Use:   "verify <json> <address> <name[:rename]>",
		Short: "Verify a deployed contract on Etherscan",
		Long: `Verify uploads a Standard JSON Input document for the contract deployed at
<address>. <name> selects the source by file name or contract name; append
":rename" to submit the contract under a different name.`,
		Args: cobra.ExactArgs(3),
		RunE: vc.run,
	}

	cmd.Flags().StringVarP(&vc.compiler, flagCompiler, "c", "", "compiler version used, e.g. v0.6.12")
	cmd.Flags().IntVarP(&vc.license, flagLicense, "l", 0,
		"Etherscan license code 0..12, see https://etherscan.io/contract-license-types")
	cmd.Flags().StringVarP(&vc.network, flagNetwork, "n", "", "network name (default mainnet)")
	cmd.Flags().StringVar(&vc.infura, flagInfura, "", "Infura project ID")
	cmd.Flags().StringVar(&vc.etherscan, flagEtherscan, "", "Etherscan API key")

	_ = cmd.MarkFlagRequired(flagCompiler)

	return cmd
}

func (vc *VerifyCommand) run(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := observability.WithTarget(cmd.Context(), args[2])
	stats := observability.RunStats{Command: "verify"}

	err := vc.execute(ctx, cmd, args, &stats)

	return vc.app.finish(ctx, stats, start, err)
}

func (vc *VerifyCommand) execute(ctx context.Context, cmd *cobra.Command, args []string, stats *observability.RunStats) error {
	input, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read standard json input: %w", err)
	}

	stats.Bytes = int64(len(input))

	client, err := etherscan.NewClient(vc.clientOptions(cmd))
	if err != nil {
		return err
	}

	req := etherscan.Request{
		Input:    input,
		Address:  args[1],
		Contract: args[2],
		Compiler: vc.compiler,
	}

	if cmd.Flags().Changed(flagLicense) {
		license := vc.license
		req.License = &license
	}

	_, span := vc.app.tracer().Start(ctx, "solt.verify")
	defer span.End()

	result, err := client.Verify(ctx, req)
	if err != nil {
		span.RecordError(err)

		return err
	}

	stats.Sources = 1

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "verified %s as %q with solc %s\n", result.Key, result.ContractName, result.Compiler)
	fmt.Fprintf(out, "constructor arguments: %s\n", result.ConstructorArgs)

	switch {
	case result.Pending:
		color.New(color.FgYellow).Fprintf(out, "still pending after retries, guid %s: %s\n", result.GUID, result.Message)
	default:
		color.New(color.FgGreen).Fprintln(out, result.Message)
	}

	return nil
}

func (vc *VerifyCommand) clientOptions(cmd *cobra.Command) etherscan.Options {
	cfg := vc.app.cfg.Verify

	if cmd.Flags().Changed(flagNetwork) {
		cfg.Network = vc.network
	}

	if cmd.Flags().Changed(flagInfura) {
		cfg.InfuraProjectID = vc.infura
	}

	if cmd.Flags().Changed(flagEtherscan) {
		cfg.EtherscanAPIKey = vc.etherscan
	}

	opts := etherscan.Options{
		Network:         cfg.Network,
		APIKey:          cfg.EtherscanAPIKey,
		InfuraProjectID: cfg.InfuraProjectID,
		SolcListURL:     cfg.SolcListURL,
		InfuraURL:       cfg.InfuraURL,
		EtherscanURL:    cfg.EtherscanURL,
		PollInterval:    cfg.PollInterval,
		MaxRetries:      cfg.MaxRetries,
		Logger:          vc.app.logger(),
	}

	vc.app.logger().Debug("explorer",
		"network", opts.Network,
		"etherscan_api_key", opts.APIKey,
		"infura_project_id", opts.InfuraProjectID,
		"solc_list_url", opts.SolcListURL,
	)

	return opts
}
