package cmd

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"taskmk/internal/app"
	"taskmk/internal/loader"
	"taskmk/internal/util"
)

//go:embed templates/*
var templatesFS embed.FS

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter tasks file and env template next to --file",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := fs.ReadDir(templatesFS, "templates")
		if err != nil {
			return err
		}
		for _, e := range entries {
			dst, ok := initTarget(e.Name())
			if !ok {
				util.Debug("skipping template %s", e.Name())
				continue
			}
			if err := writeTemplate(path.Join("templates", e.Name()), dst); err != nil {
				return err
			}
		}
		return nil
	},
}

// initTarget maps an embedded template to the file it is written to. The
// tasks file starter is picked by the extension of --file.
func initTarget(name string) (string, bool) {
	dir := filepath.Dir(tasksFile)
	if name == "env.dist" {
		return filepath.Join(dir, app.DefaultEnvTemplate), true
	}
	if !strings.HasPrefix(name, "taskmk.") {
		return "", false
	}
	if loader.IsHCL(name) != loader.IsHCL(tasksFile) {
		return "", false
	}
	return tasksFile, true
}

func writeTemplate(src, dst string) error {
	if _, err := os.Stat(dst); err == nil && !initForce {
		util.Warn("%s already exists, pass --force to overwrite it", dst)
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	b, err := templatesFS.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, b, 0644); err != nil {
		return err
	}
	util.Success("%s written", dst)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}
