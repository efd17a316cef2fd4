package cli

import (
	"fmt"

	"kdrama_recommend/internal/similarity"

	"github.com/spf13/cobra"
)

func newRecommendCmd(opts *options) *cobra.Command {
	var (
		genre string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "recommend <name>",
		Short: "List the dramas most similar to a title",
		Long: `List the dramas most similar to a title.

The first catalog entry whose name matches (case-insensitively) is the
seed. Results are ordered by similarity, ties by catalog position.

Examples:
  kdramactl recommend "Signal"
  kdramactl recommend "Signal" --genre Thriller --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := opts.engine.RecommendByName(args[0], similarity.GenreFilter(genre), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "No recommendations found.")
				return nil
			}
			for _, r := range recs {
				fmt.Fprintf(out, "%2d. %s (%s) - %s [%.4f]\n", r.Rank, r.Item.Name, r.Item.Year, r.Item.Genre, r.Score)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&genre, "genre", "g", "", `only recommend dramas tagged with this genre ("All" disables the filter)`)
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "max results")
	return cmd
}
