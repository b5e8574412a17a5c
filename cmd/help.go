package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"taskmk/internal/app"
	"taskmk/internal/registry"
	"taskmk/internal/util"
)

var helpCmd = &cobra.Command{
	Use:     "help [command]",
	Aliases: []string{"list"},
	Short:   "List documented tasks, or show help for a command",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			target, _, err := rootCmd.Find(args)
			if err != nil || target == rootCmd {
				return &usageError{fmt.Errorf("unknown help topic %q", args)}
			}
			return target.Help()
		}
		return printCatalog(cmd)
	},
}

func printCatalog(cmd *cobra.Command) error {
	p, err := app.Open(config(cmd))
	if errors.Is(err, fs.ErrNotExist) {
		util.Warn("%s not found, run `taskmk init` to create one", tasksFile)
		return cmd.Root().Usage()
	}
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Usage: taskmk <task> [KEY=VALUE ...]\n\nTasks:\n")
	return registry.WriteCatalog(w, p.Registry.Catalog(), isTerminal(w))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
}
