package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artpar/favtag/internal/favorite"
)

// NewFavoriteCommand creates the favorite command, a one-shot toggle.
func NewFavoriteCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite RESULT_ID",
		Short: "Toggle the Favorite tag on a result",
		Long:  "Flip a result between favorited and not favorited, the same way the TUI star does.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseResultID(args[0])
			if err != nil {
				return err
			}
			return withBackend(cmd, global, func(ctx context.Context, b backend, logger *logrus.Logger) error {
				result, err := b.GetResult(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to load result %d: %w", id, err)
				}

				state := favorite.New(result.ID, result.Tags,
					favorite.WithService(b),
					favorite.WithLogger(logger),
				)
				if err := state.Resolve(ctx); err != nil {
					return err
				}

				verb := "Removed from favorites"
				if state.Favorited() {
					verb = "Added to favorites"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d %s\n", favoriteMark(state.Favorited()), verb, result.ID, result.URL)
				return nil
			})
		},
	}
}
