package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pindown/internal/app"
)

type fmtOptions struct {
	Requirements string
	Write        bool
	Check        bool
}

func newFmtCommand() *cobra.Command {
	opts := fmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Render a requirements file in canonical form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFmt(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Requirements, "requirements", "requirements.txt", "Requirements file path")
	cmd.Flags().BoolVar(&opts.Write, "write", false, "Rewrite the file in place")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report without rewriting; fails when the file is not canonical")
	_ = viper.BindPFlag("requirements", cmd.Flags().Lookup("requirements"))
	_ = viper.BindPFlag("write", cmd.Flags().Lookup("write"))
	_ = viper.BindPFlag("check", cmd.Flags().Lookup("check"))
	return cmd
}

func runFmt(ctx context.Context, cmd *cobra.Command, opts fmtOptions) error {
	service := newAppService()
	write := resolveBool(cmd, opts.Write, "write", "write")
	check := resolveBool(cmd, opts.Check, "check", "check")
	if check {
		write = false
	}
	result, err := service.Fmt(ctx, app.FmtRequest{
		Requirements: resolveString(cmd, opts.Requirements, "requirements", "requirements"),
		Write:        write,
	})
	if err != nil {
		return err
	}
	if check {
		if result.Changed {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("requirements file is not in canonical form")
		}
		fmt.Println("already formatted")
		return nil
	}
	if !write {
		fmt.Print(result.Formatted)
		return nil
	}
	if result.Changed {
		fmt.Println("formatted")
		return nil
	}
	fmt.Println("already formatted")
	return nil
}
