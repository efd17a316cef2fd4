package cli

import (
	"fmt"

	"kdrama_recommend/internal/catalog"

	"github.com/spf13/cobra"
)

func newLookupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Show every catalog entry with the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := opts.engine.ResolveIdentifier(args[0])
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return fmt.Errorf("%w: %q", catalog.ErrUnknownItem, args[0])
			}
			out := cmd.OutOrStdout()
			for _, id := range ids {
				it, err := opts.engine.Item(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "#%d %s\n", it.ID, it.Name)
				fmt.Fprintf(out, "  Year:     %s\n", it.Year)
				fmt.Fprintf(out, "  Network:  %s\n", it.Network)
				fmt.Fprintf(out, "  Aired On: %s\n", it.AiredOn)
				fmt.Fprintf(out, "  Duration: %s\n", it.Duration)
				fmt.Fprintf(out, "  Rated:    %s\n", it.ContentRating)
				fmt.Fprintf(out, "  Genre:    %s\n", it.Genre)
				fmt.Fprintf(out, "  Rating:   %s\n", it.Rating)
			}
			return nil
		},
	}
}
