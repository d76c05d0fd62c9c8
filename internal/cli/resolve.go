package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pindown/internal/app"
)

type resolveOptions struct {
	Spec         string
	Requirements string
	Packages     string
	Profiles     []string
	RepoIndex    string
	TargetPython string
	Platform     string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve requirements against the repo index without writing locks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Spec, "spec", "", "Project spec path")
	cmd.Flags().StringVar(&opts.Requirements, "requirements", "", "Requirements file path")
	cmd.Flags().StringVar(&opts.Packages, "packages", "", "System packages file path")
	cmd.Flags().StringSliceVar(&opts.Profiles, "profile", nil, "Profiles to include")
	cmd.Flags().StringVar(&opts.RepoIndex, "repo-index", "", "Repository index file")
	cmd.Flags().StringVar(&opts.TargetPython, "target-python", "", "Target Python version for markers")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "Target platform for markers")

	_ = viper.BindPFlag("spec", cmd.Flags().Lookup("spec"))
	_ = viper.BindPFlag("requirements", cmd.Flags().Lookup("requirements"))
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("packages"))
	_ = viper.BindPFlag("profiles", cmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("repo_index", cmd.Flags().Lookup("repo-index"))
	_ = viper.BindPFlag("target_python", cmd.Flags().Lookup("target-python"))
	_ = viper.BindPFlag("platform", cmd.Flags().Lookup("platform"))

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		SpecPath:     resolveString(cmd, opts.Spec, "spec", "spec"),
		Requirements: resolveString(cmd, opts.Requirements, "requirements", "requirements"),
		Packages:     resolveString(cmd, opts.Packages, "packages", "packages"),
		Profiles:     resolveStrings(cmd, opts.Profiles, "profiles", "profile"),
		RepoIndex:    resolveString(cmd, opts.RepoIndex, "repo_index", "repo-index"),
		TargetPython: resolveString(cmd, opts.TargetPython, "target_python", "target-python"),
		Platform:     resolveString(cmd, opts.Platform, "platform", "platform"),
	})
	if err != nil {
		return err
	}
	for _, entry := range result.Locks {
		fmt.Printf("%s %s %s\n", entry.Type, entry.Package, entry.Version)
	}
	for _, skipped := range result.Skipped {
		fmt.Printf("skipped %s (marker: %s)\n", skipped.Package, skipped.Marker)
	}
	return nil
}
