package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sigscan/sigscan/internal/core"
)

// Provider resolves a named symbol group to its tradable symbols.
type Provider interface {
	// Symbols returns the symbols of a group, normalized to uppercase and
	// carrying their quote suffix where the exchange needs one.
	Symbols(ctx context.Context, group string) ([]string, error)

	// Groups lists the group names this provider knows, sorted.
	Groups() []string
}

// Multi chains providers; a group is resolved by the first provider that
// lists it. Lets configured static lists coexist with exchange indices.
type Multi struct {
	providers []Provider
}

// NewMulti combines providers in lookup order.
func NewMulti(providers ...Provider) *Multi {
	return &Multi{providers: providers}
}

func (m *Multi) Symbols(ctx context.Context, group string) ([]string, error) {
	for _, p := range m.providers {
		for _, g := range p.Groups() {
			if g == group {
				return p.Symbols(ctx, group)
			}
		}
	}
	return nil, core.WrapError(core.ErrUniverseFailed, fmt.Errorf("unknown group %q", group))
}

func (m *Multi) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.providers {
		for _, g := range p.Groups() {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	sort.Strings(out)
	return out
}

// parseSymbolColumn extracts the "Symbol" column from an index membership
// CSV. Header and cells are whitespace-trimmed; blank cells are dropped.
func parseSymbolColumn(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "Symbol") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("csv has no Symbol column")
	}

	var symbols []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if col >= len(record) {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(record[col]))
		if sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols, nil
}
