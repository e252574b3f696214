package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/solt/pkg/manifest"
	"github.com/Sumatoshi-tech/solt/pkg/persist"
)

func newSchemaCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:              "schema",
		Short:            "Print the JSON Schema that written documents are validated against",
		Args:             cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				_, err := cmd.OutOrStdout().Write(manifest.Schema())
				if err != nil {
					return fmt.Errorf("write schema: %w", err)
				}

				return nil
			}

			return persist.WriteBytes(output, manifest.Schema())
		},
	}

	cmd.Flags().StringVarP(&output, flagOutput, "o", "", "write the schema to this file")

	return cmd
}
