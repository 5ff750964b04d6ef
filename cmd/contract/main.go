package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/employees/internal/client"
	"github.com/UnknownOlympus/employees/internal/contract"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var errContractFailed = errors.New("contract verification failed")

func main() {
	var (
		baseURL     string
		writePrefix string
		timeout     time.Duration
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Verify a running employees API end-to-end",
		Long: `contract creates, reads, updates and deletes employees through the HTTP API
and reports every step. It leaves one "admin" employee behind.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, TimeFormat: time.TimeOnly}))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			api := client.New(baseURL, logger, client.WithWritePrefix(writePrefix))
			report := contract.NewSuite(api, logger).Run(ctx)

			for _, step := range report.Steps {
				status := "PASS"
				if !step.Passed() {
					status = "FAIL"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-8s %8s", status, step.Name, step.Duration.Round(time.Millisecond))
				if step.Err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  %v", step.Err)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}

			if report.Failed() {
				return errContractFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "root URL of the employees API")
	cmd.Flags().StringVar(&writePrefix, "write-prefix", client.LegacyWritePrefix,
		"path prefix for PUT and DELETE ("+client.LegacyWritePrefix+" or "+client.APIPrefix+")")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "deadline for the whole run")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every API call")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
