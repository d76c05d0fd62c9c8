package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pindown/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect lock outputs and applied overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("lock: %s (project=%s, created=%s)\n", result.Intent.LockID, result.Intent.Project, result.Intent.CreatedAt)
	fmt.Printf("requirements.lock entries: %d\n", len(result.PipLocks))
	for _, entry := range result.PipLocks {
		fmt.Printf("- %s==%s\n", entry.Package, entry.Version)
	}
	fmt.Printf("packages.lock entries: %d\n", len(result.AptLocks))
	for _, entry := range result.AptLocks {
		fmt.Printf("- %s=%s\n", entry.Package, entry.Version)
	}
	fmt.Printf("audit.report records: %d\n", len(result.Records))
	for _, record := range result.Records {
		fmt.Printf("- %s %s %s (owner=%s)\n", record.Dependency, record.Action, record.Value, record.Owner)
	}
	return nil
}
