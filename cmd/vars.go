package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskmk/internal/app"
)

var varsCmd = &cobra.Command{
	Use:   "vars [KEY=VALUE ...]",
	Short: "Show every variable with its resolved value and source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOverrides(args); err != nil {
			return err
		}
		p, err := app.Open(config(cmd))
		if err != nil {
			return err
		}
		res, err := p.Resolver(args)
		if err != nil {
			return err
		}
		names := res.Names()
		width := 0
		for _, n := range names {
			width = max(width, len(n))
		}
		w := cmd.OutOrStdout()
		for _, n := range names {
			v, err := res.Resolve(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%-*s = %-30q (%s)\n", width, n, v.Value, v.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(varsCmd)
}
