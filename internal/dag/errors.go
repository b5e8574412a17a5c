package dag

import (
	"fmt"
	"strings"
)

// UnknownTaskError reports a task name that is not registered. RequiredBy is
// empty when the name was requested directly.
type UnknownTaskError struct {
	Name       string
	RequiredBy string
}

func (e *UnknownTaskError) Error() string {
	if e.RequiredBy == "" {
		return fmt.Sprintf("unknown task %q", e.Name)
	}
	return fmt.Sprintf("unknown task %q (dependency of %q)", e.Name, e.RequiredBy)
}

// CyclicDependencyError carries one cycle witness, first and last element equal.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return "cycle detected in task dependencies: " + strings.Join(e.Path, " -> ")
}
