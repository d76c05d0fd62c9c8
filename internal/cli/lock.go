package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pindown/internal/app"
)

type lockOptions struct {
	resolveOptions
	OutputDir string
	LockID    string
	SBOM      bool
	SBOMPath  string
}

func newLockCommand() *cobra.Command {
	opts := lockOptions{}
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Resolve requirements and write lock outputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLock(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Spec, "spec", "", "Project spec path")
	cmd.Flags().StringVar(&opts.Requirements, "requirements", "", "Requirements file path")
	cmd.Flags().StringVar(&opts.Packages, "packages", "", "System packages file path")
	cmd.Flags().StringSliceVar(&opts.Profiles, "profile", nil, "Profiles to include")
	cmd.Flags().StringVar(&opts.RepoIndex, "repo-index", "", "Repository index file")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.TargetPython, "target-python", "", "Target Python version for markers")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "Target platform for markers")
	cmd.Flags().StringVar(&opts.LockID, "lock-id", "", "Lock ID (optional override)")
	cmd.Flags().BoolVar(&opts.SBOM, "sbom", false, "Emit an SPDX SBOM alongside the locks")
	cmd.Flags().StringVar(&opts.SBOMPath, "sbom-output", "", "SBOM output path")

	_ = viper.BindPFlag("spec", cmd.Flags().Lookup("spec"))
	_ = viper.BindPFlag("requirements", cmd.Flags().Lookup("requirements"))
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("packages"))
	_ = viper.BindPFlag("profiles", cmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("repo_index", cmd.Flags().Lookup("repo-index"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("target_python", cmd.Flags().Lookup("target-python"))
	_ = viper.BindPFlag("platform", cmd.Flags().Lookup("platform"))
	_ = viper.BindPFlag("lock_id", cmd.Flags().Lookup("lock-id"))
	_ = viper.BindPFlag("sbom", cmd.Flags().Lookup("sbom"))
	_ = viper.BindPFlag("sbom_output", cmd.Flags().Lookup("sbom-output"))

	return cmd
}

func runLock(ctx context.Context, cmd *cobra.Command, opts lockOptions) error {
	service := newAppService()
	result, err := service.Lock(ctx, app.LockRequest{
		SpecPath:     resolveString(cmd, opts.Spec, "spec", "spec"),
		Requirements: resolveString(cmd, opts.Requirements, "requirements", "requirements"),
		Packages:     resolveString(cmd, opts.Packages, "packages", "packages"),
		Profiles:     resolveStrings(cmd, opts.Profiles, "profiles", "profile"),
		RepoIndex:    resolveString(cmd, opts.RepoIndex, "repo_index", "repo-index"),
		OutputDir:    resolveString(cmd, opts.OutputDir, "output", "output"),
		TargetPython: resolveString(cmd, opts.TargetPython, "target_python", "target-python"),
		Platform:     resolveString(cmd, opts.Platform, "platform", "platform"),
		LockID:       resolveString(cmd, opts.LockID, "lock_id", "lock-id"),
		SBOM:         resolveBool(cmd, opts.SBOM, "sbom", "sbom"),
		SBOMPath:     resolveString(cmd, opts.SBOMPath, "sbom_output", "sbom-output"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("locked: %s (%d pip, %d apt) -> %s\n", result.LockID, result.PipCount, result.AptCount, result.OutputDir)
	for _, skipped := range result.Skipped {
		fmt.Printf("skipped %s (marker: %s)\n", skipped.Package, skipped.Marker)
	}
	return nil
}
