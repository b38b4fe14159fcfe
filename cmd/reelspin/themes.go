package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osse101/ReelSpin_Go/internal/theme"
)

func newThemesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List the built-in skins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := theme.LoadEmbedded()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reg.All())
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tREELS\tBETS\tSYMBOLS")
			for _, s := range reg.All() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s-%s\t%s\n",
					s.ID, s.Name, s.Reels, s.MinBet, s.MaxBet, strings.Join(s.SymbolIDs(), ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
