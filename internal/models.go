package internal

import "context"

// Task is a named unit of automation. It runs either a shell Command or the
// built-in Env action; a task with neither only aggregates its dependencies.
type Task struct {
	Name        string     `yaml:"name" hcl:"name,label"`
	Description string     `yaml:"description,omitempty" hcl:"description,optional"`
	DependsOn   []string   `yaml:"depends_on,omitempty" hcl:"depends_on,optional"`
	Command     string     `yaml:"command,omitempty" hcl:"command,optional"`
	Env         *EnvAction `yaml:"env,omitempty" hcl:"env,block"`
}

// EnvAction materializes Output from Template.
type EnvAction struct {
	Template string `yaml:"template" hcl:"template"`
	Output   string `yaml:"output" hcl:"output"`
}

// Executor runs an already interpolated command on behalf of a task and
// reports the process exit code. err is only set when the command could not
// be run at all.
type Executor interface {
	Execute(ctx context.Context, t Task, command string) (exitCode int, err error)
}
