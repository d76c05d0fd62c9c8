package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pindown/internal/app"
)

type indexOptions struct {
	Output           string
	PipIndex         string
	PipUser          string
	PipAPIKey        string
	PipPackages      []string
	PipWorkers       int
	AptEndpoint      string
	AptDistribution  string
	AptComponent     string
	AptArch          string
	AptUser          string
	AptAPIKey        string
	AptPackages      []string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

func newIndexCommand() *cobra.Command {
	opts := indexOptions{}
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate a repository index from PyPI and APT feeds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "output", "repo-index.yaml", "Output path for repo index YAML")
	cmd.Flags().StringVar(&opts.PipIndex, "pip-index", "", "PyPI simple index base URL")
	cmd.Flags().StringVar(&opts.PipUser, "pip-user", "", "PyPI basic auth user (defaults to api)")
	cmd.Flags().StringVar(&opts.PipAPIKey, "pip-api-key", "", "PyPI basic auth password/API key")
	cmd.Flags().StringSliceVar(&opts.PipPackages, "pip-package", nil, "Limit indexing to specified package(s)")
	cmd.Flags().IntVar(&opts.PipWorkers, "pip-workers", 8, "Concurrent PyPI fetch workers (0 = default)")
	cmd.Flags().StringVar(&opts.AptEndpoint, "apt-endpoint", "", "APT feed base URL")
	cmd.Flags().StringVar(&opts.AptDistribution, "apt-distribution", "", "APT distribution")
	cmd.Flags().StringVar(&opts.AptComponent, "apt-component", "main", "APT component")
	cmd.Flags().StringVar(&opts.AptArch, "apt-arch", "amd64", "APT architecture")
	cmd.Flags().StringVar(&opts.AptUser, "apt-user", "", "APT basic auth user (defaults to api)")
	cmd.Flags().StringVar(&opts.AptAPIKey, "apt-api-key", "", "APT basic auth password/API key")
	cmd.Flags().StringSliceVar(&opts.AptPackages, "apt-package", nil, "Limit the apt index to specified package(s)")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout", 60, "HTTP timeout in seconds")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 3, "HTTP retry attempts")
	cmd.Flags().IntVar(&opts.HTTPRetryDelayMs, "http-retry-delay", 200, "HTTP retry base delay in milliseconds")

	_ = viper.BindPFlag("index_output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("pip_index", cmd.Flags().Lookup("pip-index"))
	_ = viper.BindPFlag("pip_user", cmd.Flags().Lookup("pip-user"))
	_ = viper.BindPFlag("pip_api_key", cmd.Flags().Lookup("pip-api-key"))
	_ = viper.BindPFlag("pip_packages", cmd.Flags().Lookup("pip-package"))
	_ = viper.BindPFlag("pip_workers", cmd.Flags().Lookup("pip-workers"))
	_ = viper.BindPFlag("apt_endpoint", cmd.Flags().Lookup("apt-endpoint"))
	_ = viper.BindPFlag("apt_distribution", cmd.Flags().Lookup("apt-distribution"))
	_ = viper.BindPFlag("apt_component", cmd.Flags().Lookup("apt-component"))
	_ = viper.BindPFlag("apt_arch", cmd.Flags().Lookup("apt-arch"))
	_ = viper.BindPFlag("apt_user", cmd.Flags().Lookup("apt-user"))
	_ = viper.BindPFlag("apt_api_key", cmd.Flags().Lookup("apt-api-key"))
	_ = viper.BindPFlag("apt_packages", cmd.Flags().Lookup("apt-package"))
	_ = viper.BindPFlag("http_timeout", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay", cmd.Flags().Lookup("http-retry-delay"))

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, opts indexOptions) error {
	service := newAppService()
	result, err := service.Index(ctx, app.IndexRequest{
		Output:           resolveString(cmd, opts.Output, "index_output", "output"),
		PipIndex:         resolveString(cmd, opts.PipIndex, "pip_index", "pip-index"),
		PipUser:          resolveString(cmd, opts.PipUser, "pip_user", "pip-user"),
		PipAPIKey:        resolveString(cmd, opts.PipAPIKey, "pip_api_key", "pip-api-key"),
		PipPackages:      resolveStrings(cmd, opts.PipPackages, "pip_packages", "pip-package"),
		PipWorkers:       opts.PipWorkers,
		AptEndpoint:      resolveString(cmd, opts.AptEndpoint, "apt_endpoint", "apt-endpoint"),
		AptDistribution:  resolveString(cmd, opts.AptDistribution, "apt_distribution", "apt-distribution"),
		AptComponent:     resolveString(cmd, opts.AptComponent, "apt_component", "apt-component"),
		AptArch:          resolveString(cmd, opts.AptArch, "apt_arch", "apt-arch"),
		AptUser:          resolveString(cmd, opts.AptUser, "apt_user", "apt-user"),
		AptAPIKey:        resolveString(cmd, opts.AptAPIKey, "apt_api_key", "apt-api-key"),
		AptPackages:      resolveStrings(cmd, opts.AptPackages, "apt_packages", "apt-package"),
		HTTPTimeoutSec:   opts.HTTPTimeoutSec,
		HTTPRetries:      opts.HTTPRetries,
		HTTPRetryDelayMs: opts.HTTPRetryDelayMs,
	})
	if err != nil {
		return err
	}
	fmt.Printf("indexed: %d pip, %d apt -> %s\n", result.PipCount, result.AptCount, result.OutputPath)
	return nil
}
