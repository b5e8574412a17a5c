package cmd

import (
	"github.com/spf13/cobra"

	"taskmk/internal/app"
)

var envForce bool

var envCmd = &cobra.Command{
	Use:   "env [KEY=VALUE ...]",
	Short: "Create the env file from its template",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOverrides(args); err != nil {
			return err
		}
		p, err := app.Open(config(cmd))
		if err != nil {
			return err
		}
		_, err = p.MaterializeEnv(args, envForce)
		return err
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolVar(&envForce, "force", false, "Overwrite an existing env file")
}
