package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"taskmk/internal/app"
	"taskmk/internal/util"
)

var runCmd = &cobra.Command{
	Use:   "run <task> [KEY=VALUE ...]",
	Short: "Run a task after its dependencies",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return &usageError{errors.New("run needs a task name")}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, args[0], args[1:])
	},
}

func runTask(cmd *cobra.Command, task string, args []string) error {
	if err := checkOverrides(args); err != nil {
		return err
	}
	p, err := app.Open(config(cmd))
	if err != nil {
		return err
	}
	report, err := p.Run(cmd.Context(), task, args)
	if err != nil {
		return err
	}
	util.Success("%s: %d task(s) completed", task, len(report.Results))
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
