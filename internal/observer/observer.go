// Package observer defines the contract between a walk and the components consuming it.
package observer

import (
	"fmt"
	"io"
	"strings"

	"github.com/idelchi/dirscan/internal/resource"
)

// Observer is notified of every visited resource and asked for a final report.
//
// Visit is called once per resource, in the order the engine produces them, and must return
// before the walk proceeds. Recap is called once after all visits and must cope with zero visits.
// Name is constant for the lifetime of the observer.
type Observer interface {
	Visit(meta resource.Metadata, sink io.Writer, notifier Notifier) error
	Recap(sink io.Writer, notifier Notifier) error
	Name() string
}

// Recap calls Recap on every observer in order and stops at the first failure.
func Recap(observers []Observer, sink io.Writer, notifier Notifier) error {
	for _, o := range observers {
		if err := o.Recap(sink, notifier); err != nil {
			return fmt.Errorf("recapping %s: %w", o.Name(), err)
		}
	}

	return nil
}

// Select returns the observers whose names are listed, in the order of names.
// Names are matched case-insensitively.
func Select(available []Observer, names []string) ([]Observer, error) {
	byName := make(map[string]Observer, len(available))
	for _, o := range available {
		byName[strings.ToLower(o.Name())] = o
	}

	selected := make([]Observer, 0, len(names))

	for _, name := range names {
		o, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown observer %q", name)
		}

		selected = append(selected, o)
	}

	return selected, nil
}
