package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pindown/internal/app"
)

type validateOptions struct {
	Spec         string
	Requirements string
	Packages     string
	Profiles     []string
	Root         string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate requirement manifests and the project spec",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Spec, "spec", "", "Project spec path")
	cmd.Flags().StringVar(&opts.Requirements, "requirements", "", "Requirements file path")
	cmd.Flags().StringVar(&opts.Packages, "packages", "", "System packages file path")
	cmd.Flags().StringSliceVar(&opts.Profiles, "profile", nil, "Profiles to include")
	cmd.Flags().StringVar(&opts.Root, "root", "", "Project root for manifest discovery")
	_ = viper.BindPFlag("spec", cmd.Flags().Lookup("spec"))
	_ = viper.BindPFlag("requirements", cmd.Flags().Lookup("requirements"))
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("packages"))
	_ = viper.BindPFlag("profiles", cmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		SpecPath:     resolveString(cmd, opts.Spec, "spec", "spec"),
		Requirements: resolveString(cmd, opts.Requirements, "requirements", "requirements"),
		Packages:     resolveString(cmd, opts.Packages, "packages", "packages"),
		Profiles:     resolveStrings(cmd, opts.Profiles, "profiles", "profile"),
		Root:         resolveString(cmd, opts.Root, "root", "root"),
	})
	if err != nil {
		return err
	}
	if len(result.Issues) > 0 {
		for _, issue := range result.Issues {
			fmt.Printf("%s: %s\n", issue.Source, issue.Message)
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("validation failed with %d issue(s)", len(result.Issues)))
	}
	name := result.ProjectName
	if name == "" {
		name = fmt.Sprintf("%d requirements", result.RequirementCount)
	}
	fmt.Printf("validated: %s\n", name)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
