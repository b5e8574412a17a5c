// Package envfile reads and materializes the flat KEY=VALUE env file that
// tasks share between invocations.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"

	"taskmk/internal/util"
	"taskmk/internal/vars"
)

// Result is the outcome of Materialize.
type Result int

const (
	Failed Result = iota
	Written
	Skipped
)

func (r Result) String() string {
	switch r {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Materialize renders templatePath into outputPath. An existing output is
// left alone unless force is set. The output is replaced atomically; on any
// error nothing is left behind.
func Materialize(templatePath, outputPath string, res *vars.Resolver, force bool) (Result, error) {
	if !force {
		_, err := os.Stat(outputPath)
		if err == nil {
			util.Warn("%s already exists, pass FORCE=1 (or --force) to recreate it", outputPath)
			return Skipped, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Failed, fmt.Errorf("stat %s: %w", outputPath, err)
		}
	}

	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return Failed, fmt.Errorf("read template: %w", err)
	}
	out, err := res.Interpolate(string(tmpl))
	if err != nil {
		return Failed, fmt.Errorf("render %s: %w", templatePath, err)
	}
	if err := renameio.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return Failed, fmt.Errorf("write %s: %w", outputPath, err)
	}
	util.Success("%s created from %s", outputPath, templatePath)
	return Written, nil
}
