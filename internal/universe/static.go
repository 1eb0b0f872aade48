package universe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sigscan/sigscan/internal/core"
)

// Static serves symbol groups defined in configuration.
type Static struct {
	lists map[string][]string
}

// NewStatic creates a provider over configured lists. Symbols are
// normalized to uppercase at lookup time.
func NewStatic(lists map[string][]string) *Static {
	return &Static{lists: lists}
}

func (s *Static) Symbols(ctx context.Context, group string) ([]string, error) {
	list, ok := s.lists[group]
	if !ok {
		return nil, core.WrapError(core.ErrUniverseFailed, fmt.Errorf("unknown group %q", group))
	}

	out := make([]string, 0, len(list))
	for _, sym := range list {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym != "" {
			out = append(out, sym)
		}
	}
	return out, nil
}

func (s *Static) Groups() []string {
	out := make([]string, 0, len(s.lists))
	for g := range s.lists {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
