package sources

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/apperrors"
)

// Registry is the fixed set of agency modules this binary knows how to run.
// Sources are registered in code; there is no dynamic discovery.
type Registry struct {
	sources map[string]Source
}

// NewRegistry indexes the given modules by ID.
func NewRegistry(srcs ...Source) *Registry {
	r := &Registry{sources: make(map[string]Source, len(srcs))}
	for _, s := range srcs {
		r.sources[s.ID()] = s
	}
	return r
}

// All returns every registered source ordered by ID so runs and summaries
// are deterministic.
func (r *Registry) All() []Source {
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Filter returns the subset named by ids, in the order given. An unknown ID
// fails the whole call so a typo cannot silently skip an agency. Empty ids
// means everything.
func (r *Registry) Filter(ids []string) ([]Source, error) {
	if len(ids) == 0 {
		return r.All(), nil
	}

	out := make([]Source, 0, len(ids))
	for _, id := range ids {
		s, ok := r.sources[strings.ToLower(strings.TrimSpace(id))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownSource, id)
		}
		out = append(out, s)
	}
	return out, nil
}
