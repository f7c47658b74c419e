package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artpar/favtag/internal/tagging"
)

// NewTagCommand creates the tag command group.
func NewTagCommand(global *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add, remove and list tags",
	}

	cmd.AddCommand(newTagChangeCommand(global, tagging.OpAdd))
	cmd.AddCommand(newTagChangeCommand(global, tagging.OpRemove))
	cmd.AddCommand(newTagListCommand(global))

	return cmd
}

func newTagChangeCommand(global *GlobalOptions, op tagging.Op) *cobra.Command {
	short := "Add a tag to a result"
	done := "Tagged"
	if op == tagging.OpRemove {
		short = "Remove a tag from a result"
		done = "Untagged"
	}

	return &cobra.Command{
		Use:   string(op) + " RESULT_ID TAG",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseResultID(args[0])
			if err != nil {
				return err
			}
			return withBackend(cmd, global, func(ctx context.Context, b backend, _ *logrus.Logger) error {
				if err := tagging.Call(ctx, b, op, id, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s result %d with %q\n", done, id, args[1])
				return nil
			})
		},
	}
}

func newTagListCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tag names in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, global, func(ctx context.Context, b backend, _ *logrus.Logger) error {
				tags, err := b.ListTags(ctx)
				if err != nil {
					return fmt.Errorf("failed to list tags: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(tags) == 0 {
					fmt.Fprintln(out, "No tags")
					return nil
				}
				for _, name := range tags {
					fmt.Fprintln(out, name)
				}
				return nil
			})
		},
	}
}
