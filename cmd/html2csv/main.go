package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fundTools/config"
	"fundTools/internal/adapters/logger"
	"fundTools/internal/app"
)

// usageError marks argument errors, reported with exit status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(stderr, "%s\nerror: %v\n", cmd.UseLine(), err)
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "html2csv input_path",
		Short: "Convert HTML table to CSV",
		Long: "Convert the first table of an HTML file to CSV.\n" +
			"The first row is treated as a title and dropped, as are rows without any text.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("expected exactly one input path, got %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Load Configuration
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			// 2. Initialize Logger
			appLogger := logger.NewZeroLogger(cfg.LogLevel)

			// 3. Convert
			converter, err := app.NewTableConverter(appLogger)
			if err != nil {
				return err
			}
			_, err = converter.Convert(context.Background(), args[0], outputPath)
			return err
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output CSV file. Defaults to input_path with a .csv extension")

	return cmd
}
