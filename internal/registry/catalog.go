package registry

import (
	"fmt"
	"io"
	"iter"
)

type Entry struct {
	Name        string
	Description string
}

// Catalog yields every described task in registration order. Descriptions
// are passed through as declared.
func (r *Registry) Catalog() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, n := range r.order {
			t := r.tasks[n]
			if t.Description == "" {
				continue
			}
			if !yield(Entry{Name: t.Name, Description: t.Description}) {
				return
			}
		}
	}
}

// WriteCatalog renders entries as an aligned two-column list, names in cyan
// when color is set.
func WriteCatalog(w io.Writer, entries iter.Seq[Entry], color bool) error {
	format := "  %-*s  %s\n"
	if color {
		format = "  \033[36m%-*s\033[0m  %s\n"
	}
	width := 0
	for e := range entries {
		width = max(width, len(e.Name))
	}
	for e := range entries {
		if _, err := fmt.Fprintf(w, format, width, e.Name, e.Description); err != nil {
			return err
		}
	}
	return nil
}
