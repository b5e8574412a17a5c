// Package registry holds the declared tasks of a project and runs them with
// their dependencies.
package registry

import (
	"context"
	"fmt"

	"taskmk/internal"
	"taskmk/internal/dag"
	"taskmk/internal/scheduler"
)

// DuplicateTaskError is returned by Register for a name already taken.
type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task %q is declared more than once", e.Name)
}

// Registry keeps tasks in registration order. Tasks are never mutated after
// Register.
type Registry struct {
	tasks map[string]internal.Task
	order []string
}

func New() *Registry {
	return &Registry{tasks: map[string]internal.Task{}}
}

func (r *Registry) Register(t internal.Task) error {
	if t.Name == "" {
		return fmt.Errorf("task without a name")
	}
	if _, ok := r.tasks[t.Name]; ok {
		return &DuplicateTaskError{Name: t.Name}
	}
	t.DependsOn = append([]string(nil), t.DependsOn...)
	r.tasks[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

func (r *Registry) Task(name string) (internal.Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Tasks returns all tasks in registration order.
func (r *Registry) Tasks() []internal.Task {
	out := make([]internal.Task, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.tasks[n])
	}
	return out
}

// Plan returns the tasks needed for name, dependencies first.
func (r *Registry) Plan(name string) ([]internal.Task, error) {
	edges := make(map[string][]string, len(r.tasks))
	for n, t := range r.tasks {
		edges[n] = t.DependsOn
	}
	order, err := dag.Plan(edges, name)
	if err != nil {
		return nil, err
	}
	plan := make([]internal.Task, len(order))
	for i, n := range order {
		plan[i] = r.tasks[n]
	}
	return plan, nil
}

// Run plans name and hands the plan to s. Planning errors (unknown task,
// cycle) are returned before any action runs and with a nil report.
func (r *Registry) Run(ctx context.Context, name string, s *scheduler.Scheduler) (*scheduler.Report, error) {
	plan, err := r.Plan(name)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, name, plan)
}
