package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pindown/internal/app"
)

type sbomOptions struct {
	OutputDir string
	Output    string
}

func newSBOMCommand() *cobra.Command {
	opts := sbomOptions{}
	cmd := &cobra.Command{
		Use:   "sbom",
		Short: "Generate an SPDX SBOM from an existing lock directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSBOM(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Lock output directory")
	cmd.Flags().StringVar(&opts.Output, "sbom-output", "", "SBOM output path")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("sbom_output", cmd.Flags().Lookup("sbom-output"))
	return cmd
}

func runSBOM(cmd *cobra.Command, opts sbomOptions) error {
	service := newAppService()
	result, err := service.SBOM(app.SBOMRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
		Output:    resolveString(cmd, opts.Output, "sbom_output", "sbom-output"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("sbom: %d packages -> %s\n", result.PackageCount, result.OutputPath)
	return nil
}
