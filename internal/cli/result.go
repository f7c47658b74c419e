package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artpar/favtag/internal/core"
)

// ResultAddOptions holds options for the result add command.
type ResultAddOptions struct {
	Title        string
	ResponseCode int
}

// ResultListOptions holds options for the result list command.
type ResultListOptions struct {
	Tag  string
	JSON bool
}

// NewResultCommand creates the result command group.
func NewResultCommand(global *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Manage results",
	}

	cmd.AddCommand(newResultAddCommand(global))
	cmd.AddCommand(newResultListCommand(global))

	return cmd
}

func newResultAddCommand(global *GlobalOptions) *cobra.Command {
	opts := &ResultAddOptions{}

	cmd := &cobra.Command{
		Use:   "add URL",
		Short: "Add a result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, global, func(ctx context.Context, b backend, _ *logrus.Logger) error {
				result, err := b.CreateResult(ctx, core.Result{
					URL:          args[0],
					Title:        opts.Title,
					ResponseCode: opts.ResponseCode,
				})
				if err != nil {
					return fmt.Errorf("failed to add result: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added result %d: %s\n", result.ID, result.URL)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Page title")
	cmd.Flags().IntVar(&opts.ResponseCode, "code", 0, "HTTP response code")

	return cmd
}

func newResultListCommand(global *GlobalOptions) *cobra.Command {
	opts := &ResultListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, global, func(ctx context.Context, b backend, _ *logrus.Logger) error {
				results, err := b.ListResults(ctx, opts.Tag)
				if err != nil {
					return fmt.Errorf("failed to list results: %w", err)
				}
				if opts.JSON {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					return encoder.Encode(results)
				}
				printResults(cmd, results)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Only list results carrying this tag")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output results as JSON")

	return cmd
}

func printResults(cmd *cobra.Command, results []core.Result) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results")
		return
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s %4d  %3d  %s", favoriteMark(r.IsFavorite()), r.ID, r.ResponseCode, r.URL)
		if r.Title != "" {
			fmt.Fprintf(out, "  %q", r.Title)
		}
		if names := r.TagNames(); len(names) > 0 {
			fmt.Fprintf(out, "  [%s]", strings.Join(names, ", "))
		}
		fmt.Fprintln(out)
	}
}

func favoriteMark(favorited bool) string {
	if favorited {
		return "★"
	}
	return "☆"
}

// withBackend sets up config, logging and a backend, then runs fn.
func withBackend(cmd *cobra.Command, global *GlobalOptions, fn func(ctx context.Context, b backend, logger *logrus.Logger) error) error {
	cfg, logger, err := global.setup()
	if err != nil {
		return err
	}
	b, closeFn, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(cmd.Context(), b, logger)
}

// parseResultID parses a positive result id.
func parseResultID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid result id %q", s)
	}
	return uint(id), nil
}
