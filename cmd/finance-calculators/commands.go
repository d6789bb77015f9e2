package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/internal/mcpserver"
	"github.com/iwvelando/finance-calculators/internal/server"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/output"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// errCalculationFailed is returned when at least one requested calculation
// produced an error result; the results have already been printed.
var errCalculationFailed = errors.New("calculation failed")

func newServeCmd(a *app) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.conf.Server.Address
			if address != "" {
				addr = address
			}

			var metrics http.Handler
			if a.registry != nil {
				metrics = promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
			}
			handler := server.NewHandler(a.calc, server.Options{
				Logger:         a.logger,
				MaxBodySize:    a.conf.Server.MaxBodySizeBytes(),
				AllowedOrigins: a.conf.Server.AllowedOrigins,
				Version:        version,
				Metrics:        metrics,
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server started",
					zap.String("op", "main.serve"),
					zap.String("address", addr),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server", zap.String("op", "main.serve"))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculators as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.New(a.calc, version, a.logger).ServeStdio()
		},
	}
}

// batchRequest is one entry of a calc --file document.
type batchRequest struct {
	Kind      string   `yaml:"kind"`
	Operands  []string `yaml:"operands"`
	Precision *int     `yaml:"precision"`
}

func loadBatch(path string, defaultPrecision int) ([]calculator.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch []batchRequest
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	requests := make([]calculator.Request, 0, len(batch))
	for i, b := range batch {
		kind, err := calculator.ParseKind(b.Kind)
		if err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i+1, err)
		}
		precision := defaultPrecision
		if b.Precision != nil {
			precision = *b.Precision
		}
		requests = append(requests, calculator.Request{Kind: kind, Operands: b.Operands, Precision: precision})
	}
	return requests, nil
}

func newCalcCmd(a *app) *cobra.Command {
	var (
		precision    int
		file         string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "calc <kind> [operand...]",
		Short: "Run one calculation, or a batch of them with --file",
		Example: `  finance-calculators calc compound-interest 10000 7 10
  finance-calculators calc gpa "3,4,3" "A,B+,A-" --precision 3
  finance-calculators calc percent-change -- -50 25
  finance-calculators calc --file requests.yaml --output csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat == "" {
				outputFormat = a.conf.Format.Output
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			if !cmd.Flags().Changed("precision") {
				precision = a.calc.DefaultPrecision()
			}

			var requests []calculator.Request
			switch {
			case file != "":
				batch, err := loadBatch(file, precision)
				if err != nil {
					return err
				}
				requests = batch
			case len(args) > 0:
				kind, err := calculator.ParseKind(args[0])
				if err != nil {
					return err
				}
				requests = []calculator.Request{{Kind: kind, Operands: args[1:], Precision: precision}}
			default:
				return errors.New("a calculation kind or --file is required")
			}

			results := a.calc.ExecuteAll(cmd.Context(), requests)

			out := cmd.OutOrStdout()
			switch outputFormat {
			case constants.OutputFormatCSV:
				if err := output.CsvResults(out, results); err != nil {
					return err
				}
			default:
				for i, result := range results {
					if i > 0 {
						fmt.Fprintln(out)
					}
					output.PrettyResult(out, result)
				}
			}

			failed := 0
			for _, result := range results {
				if result.Failed() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errCalculationFailed, failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&precision, "precision", constants.DefaultPrecision, "decimal places for the displayed result (0-10)")
	cmd.Flags().StringVar(&file, "file", "", "YAML file with a list of {kind, operands, precision} requests")
	cmd.Flags().StringVar(&outputFormat, "output", "", "output format: pretty, csv")
	return cmd
}

func familyArg(args []string) (calculator.Family, error) {
	return calculator.ParseFamily(args[0])
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage calculation history",
	}

	var (
		favorites    bool
		outputFormat string
	)
	listCmd := &cobra.Command{
		Use:   "list <family>",
		Short: "List a family's history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := familyArg(args)
			if err != nil {
				return err
			}
			if outputFormat == "" {
				outputFormat = a.conf.Format.Output
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			store := a.calc.History(family)
			entries := store.Entries()
			if favorites {
				entries = store.Favorites()
			}

			if outputFormat == constants.OutputFormatCSV {
				return output.CsvHistory(cmd.OutOrStdout(), entries)
			}
			output.PrettyHistory(cmd.OutOrStdout(), family.String(), store.Capacity(), entries)
			return nil
		},
	}
	listCmd.Flags().BoolVar(&favorites, "favorites", false, "only list favorite entries")
	listCmd.Flags().StringVar(&outputFormat, "output", "", "output format: pretty, csv")

	favoriteCmd := &cobra.Command{
		Use:   "favorite <family> <timestamp>",
		Short: "Toggle the favorite flag of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := familyArg(args)
			if err != nil {
				return err
			}
			timestamp, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q", args[1])
			}

			store := a.calc.History(family)
			found, err := store.ToggleFavorite(timestamp)
			if !found {
				return fmt.Errorf("%w: %s timestamp %d", history.ErrNotFound, family, timestamp)
			}
			if err != nil {
				return err
			}
			entry, err := store.Entry(timestamp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d favorite=%t\n", entry.Kind, entry.Timestamp, entry.Favorite)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <family>",
		Short: "Delete a family's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := familyArg(args)
			if err != nil {
				return err
			}
			if err := a.calc.History(family).Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s history\n", family)
			return nil
		},
	}

	var (
		exportFormat string
		exportPath   string
	)
	exportCmd := &cobra.Command{
		Use:   "export <family>",
		Short: "Export a family's history as JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := familyArg(args)
			if err != nil {
				return err
			}
			snapshot, err := a.calc.History(family).ExportSnapshot(exportFormat)
			if err != nil {
				return err
			}

			if exportPath == "-" {
				_, err := cmd.OutOrStdout().Write(snapshot.Data)
				return err
			}
			path := exportPath
			if path == "" {
				path = snapshot.Name
			}
			if err := os.WriteFile(path, snapshot.Data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", constants.ExportFormatJSON, "export format: json, csv")
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "output file (default <family>-calculations-<date>.<format>, - for stdout)")

	cmd.AddCommand(listCmd, favoriteCmd, clearCmd, exportCmd)
	return cmd
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List calculation kinds and their operands, grouped by family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, family := range calculator.Families() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s:\n", family)
				for _, kind := range calculator.KindsOf(family) {
					spec := calculator.Describe(kind)
					fmt.Fprintf(out, "  %-26s %s\n", spec.Kind, operandSignature(spec.Operands))
				}
			}
			return nil
		},
	}
}

func operandSignature(operands []calculator.Operand) string {
	names := make([]string, len(operands))
	for i, operand := range operands {
		names[i] = operand.Name
		if operand.Type != calculator.Number {
			names[i] += "(" + operand.Type.String() + ")"
		}
		if operand.Optional {
			names[i] = "[" + names[i] + "=" + operand.Default + "]"
		}
	}
	return strings.Join(names, " ")
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.conf.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return cmd
}
