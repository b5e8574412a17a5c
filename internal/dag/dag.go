// Package dag turns a task dependency graph into an execution plan.
package dag

const (
	unvisited = iota
	visiting
	visited
)

// Plan returns the tasks needed to run root, dependencies first, each name
// exactly once. edges maps every known task to its declared dependencies in
// declaration order. The whole graph reachable from root is checked before
// anything is returned, so a cycle or unknown name never yields a partial plan.
func Plan(edges map[string][]string, root string) ([]string, error) {
	if _, ok := edges[root]; !ok {
		return nil, &UnknownTaskError{Name: root}
	}
	state := map[string]int{}
	var (
		stack []string
		order []string
	)
	var visit func(n, from string) error
	visit = func(n, from string) error {
		deps, ok := edges[n]
		if !ok {
			return &UnknownTaskError{Name: n, RequiredBy: from}
		}
		switch state[n] {
		case visited:
			return nil
		case visiting:
			return &CyclicDependencyError{Path: cyclePath(stack, n)}
		}
		state[n] = visiting
		stack = append(stack, n)
		for _, dep := range deps {
			if err := visit(dep, n); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = visited
		order = append(order, n)
		return nil
	}
	if err := visit(root, ""); err != nil {
		return nil, err
	}
	return order, nil
}

func cyclePath(stack []string, n string) []string {
	for i, s := range stack {
		if s == n {
			path := append([]string{}, stack[i:]...)
			return append(path, n)
		}
	}
	return []string{n, n}
}
