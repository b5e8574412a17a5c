// Package app wires a tasks file, its env file and the invocation overrides
// into a runnable project.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"taskmk/internal/envfile"
	"taskmk/internal/executor"
	"taskmk/internal/loader"
	"taskmk/internal/registry"
	"taskmk/internal/scheduler"
	"taskmk/internal/util"
	"taskmk/internal/vars"
)

const (
	DefaultTasksFile   = "taskmk.yaml"
	DefaultEnvFile     = ".env"
	DefaultEnvTemplate = ".env.dist"
)

// Config is everything an invocation needs besides the task name and its
// overrides.
type Config struct {
	TasksFile string
	EnvFile   string
	LogDir    string
	Verbose   bool

	Stdout io.Writer
	Stderr io.Writer
}

type Project struct {
	Config   Config
	File     *loader.TasksFile
	Registry *registry.Registry
}

// Open loads cfg.TasksFile and registers its tasks.
func Open(cfg Config) (*Project, error) {
	if cfg.TasksFile == "" {
		cfg.TasksFile = DefaultTasksFile
	}
	tf, err := loader.LoadTasks(cfg.TasksFile)
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	for _, t := range tf.Tasks {
		if err := reg.Register(t); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.TasksFile, err)
		}
	}
	util.Debug("loaded %d tasks from %s", len(tf.Tasks), cfg.TasksFile)
	return &Project{Config: cfg, File: tf, Registry: reg}, nil
}

// EnvFile is the --env-file flag, else the tasks file setting, else .env.
// Relative paths are taken from the working directory.
func (p *Project) EnvFile() string {
	switch {
	case p.Config.EnvFile != "":
		return p.Config.EnvFile
	case p.File.EnvFile != "":
		return p.File.EnvFile
	}
	return DefaultEnvFile
}

func (p *Project) EnvTemplate() string {
	if p.File.EnvTemplate != "" {
		return p.File.EnvTemplate
	}
	return DefaultEnvTemplate
}

// Resolver layers the KEY=VALUE args over the env file over the declared
// defaults.
func (p *Project) Resolver(args []string) (*vars.Resolver, error) {
	overrides, err := vars.ParseOverrides(args)
	if err != nil {
		return nil, err
	}
	file, err := envfile.Load(p.EnvFile())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.EnvFile(), err)
	}
	return vars.New(overrides, file, p.File.Vars), nil
}

// Run executes task with its dependencies. With a LogDir, the run gets its
// own run-<uuid> directory holding log.txt and run.yaml.
func (p *Project) Run(ctx context.Context, task string, args []string) (*scheduler.Report, error) {
	res, err := p.Resolver(args)
	if err != nil {
		return nil, err
	}

	runDir := ""
	if p.Config.LogDir != "" {
		runDir = filepath.Join(p.Config.LogDir, "run-"+uuid.NewString())
		if err := os.MkdirAll(runDir, 0755); err != nil {
			return nil, err
		}
		if err := util.SetLogFile(filepath.Join(runDir, "log.txt")); err != nil {
			return nil, err
		}
		defer util.CloseLogFile()
		util.Info("run directory: %s", runDir)
	}

	exec := &executor.ShellExecutor{
		Env:    append(os.Environ(), res.Environ()...),
		Stdout: p.Config.Stdout,
		Stderr: p.Config.Stderr,
		Log:    util.LogFile(),
	}
	report, err := p.Registry.Run(ctx, task, scheduler.New(exec, res))
	if report != nil && runDir != "" {
		if serr := report.Save(filepath.Join(runDir, "run.yaml")); serr != nil {
			util.Warn("could not write run summary: %v", serr)
		}
	}
	return report, err
}

// MaterializeEnv renders the env template into the env file outside of any
// task.
func (p *Project) MaterializeEnv(args []string, force bool) (envfile.Result, error) {
	res, err := p.Resolver(args)
	if err != nil {
		return envfile.Failed, err
	}
	if v, ok := res.Lookup("FORCE"); ok && vars.Truthy(v) {
		force = true
	}
	return envfile.Materialize(p.EnvTemplate(), p.EnvFile(), res, force)
}
