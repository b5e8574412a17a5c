package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"taskmk/internal"
)

// TasksFile is the declarative project definition. The same struct is
// decoded from YAML and HCL.
type TasksFile struct {
	EnvFile     string            `yaml:"env_file,omitempty" hcl:"env_file,optional"`
	EnvTemplate string            `yaml:"env_template,omitempty" hcl:"env_template,optional"`
	Vars        map[string]string `yaml:"vars,omitempty" hcl:"vars,optional"`
	Tasks       []internal.Task   `yaml:"tasks" hcl:"task,block"`
}

// IsHCL reports whether path names an HCL tasks file.
func IsHCL(path string) bool {
	return filepath.Ext(path) == ".hcl"
}

// LoadTasks reads path as HCL when it ends in .hcl and as YAML otherwise.
func LoadTasks(path string) (*TasksFile, error) {
	if IsHCL(path) {
		return loadHCL(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var tf TasksFile
	if err := dec.Decode(&tf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: no tasks declared", path)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &tf, nil
}
