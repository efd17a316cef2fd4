package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTrendingCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most recently released dramas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			items, err := opts.engine.Trending(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, it := range items {
				fmt.Fprintf(out, "%2d. %s (%s) - %s\n", i+1, it.Name, it.Year, it.Genre)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "max results")
	return cmd
}
