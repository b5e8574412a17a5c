// Package scheduler executes a planned task chain one task at a time and
// stops at the first failure.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"taskmk/internal"
	"taskmk/internal/envfile"
	"taskmk/internal/util"
	"taskmk/internal/vars"
)

// TaskFailedError is returned when a task action exits non-zero.
type TaskFailedError struct {
	Task     string
	ExitCode int
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %q failed with exit code %d", e.Task, e.ExitCode)
}

const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

type Result struct {
	Task     string        `yaml:"task"`
	Status   string        `yaml:"status"`
	ExitCode int           `yaml:"exit_code"`
	Duration time.Duration `yaml:"duration"`
}

// Report summarizes one invocation; it is what gets saved as run.yaml.
type Report struct {
	Target    string    `yaml:"target"`
	Status    string    `yaml:"status"`
	Timestamp time.Time `yaml:"timestamp"`
	Results   []Result  `yaml:"results"`
	Failure   string    `yaml:"failure,omitempty"`
}

type Scheduler struct {
	Executor internal.Executor
	Vars     *vars.Resolver
}

func New(exec internal.Executor, res *vars.Resolver) *Scheduler {
	return &Scheduler{Executor: exec, Vars: res}
}

// Run executes plan in order. The returned report is never nil.
func (s *Scheduler) Run(ctx context.Context, target string, plan []internal.Task) (*Report, error) {
	report := &Report{Target: target, Status: "success", Timestamp: time.Now()}
	for _, t := range plan {
		util.Info("running %s", t.Name)
		start := time.Now()
		res, err := s.runTask(ctx, t)
		res.Duration = time.Since(start)
		report.Results = append(report.Results, res)
		if err != nil {
			report.Status = "fail"
			report.Failure = err.Error()
			util.Fail("%s: %v", t.Name, err)
			return report, err
		}
		util.Success("%s %s", t.Name, res.Status)
	}
	return report, nil
}

func (s *Scheduler) runTask(ctx context.Context, t internal.Task) (Result, error) {
	res := Result{Task: t.Name, Status: StatusDone}
	fail := func(code int, err error) (Result, error) {
		res.Status = StatusFailed
		res.ExitCode = code
		return res, err
	}

	if t.Env != nil {
		tmpl, err := s.Vars.Interpolate(t.Env.Template)
		if err != nil {
			return fail(1, err)
		}
		out, err := s.Vars.Interpolate(t.Env.Output)
		if err != nil {
			return fail(1, err)
		}
		force, _ := s.Vars.Lookup("FORCE")
		r, err := envfile.Materialize(tmpl, out, s.Vars, vars.Truthy(force))
		if err != nil {
			return fail(1, err)
		}
		if r == envfile.Skipped {
			res.Status = StatusSkipped
		}
	}

	if t.Command != "" {
		command, err := s.Vars.Interpolate(t.Command)
		if err != nil {
			return fail(1, err)
		}
		util.Debug("%s: %s", t.Name, command)
		code, err := s.Executor.Execute(ctx, t, command)
		if err != nil {
			return fail(code, err)
		}
		if code != 0 {
			return fail(code, &TaskFailedError{Task: t.Name, ExitCode: code})
		}
	}
	return res, nil
}

// Save writes the report as YAML.
func (r *Report) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(r)
}
