package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskmk/internal/app"
	"taskmk/internal/scheduler"
	"taskmk/internal/util"
	"taskmk/internal/vars"
)

var (
	tasksFile string
	envFile   string
	logDir    string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:           "taskmk [task] [KEY=VALUE ...]",
	Short:         "Declarative project task runner",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		util.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// No task given: behave like help.
		if len(args) == 0 {
			return printCatalog(cmd)
		}
		return runTask(cmd, args[0], args[1:])
	},
}

// usageError marks invocation mistakes; they exit with status 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func checkOverrides(args []string) error {
	if _, err := vars.ParseOverrides(args); err != nil {
		return &usageError{err}
	}
	return nil
}

func config(cmd *cobra.Command) app.Config {
	return app.Config{
		TasksFile: tasksFile,
		EnvFile:   envFile,
		LogDir:    logDir,
		Verbose:   verbose,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
	}
}

// ExitCode maps an Execute error to a process exit status: the failing
// task's own code, 2 for usage errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *scheduler.TaskFailedError
	if errors.As(err, &failed) && failed.ExitCode > 0 {
		return failed.ExitCode
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&tasksFile, "file", "f", app.DefaultTasksFile, "Tasks file (.yaml or .hcl)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", fmt.Sprintf("Env file to read variables from (default from tasks file, else %s)", app.DefaultEnvFile))
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write log.txt and run.yaml for each run under this directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})
}
