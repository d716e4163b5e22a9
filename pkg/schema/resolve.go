package schema

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"returnrisk/pkg/data"
)

// ResolutionError reports every problem found while resolving a table, plus
// the column names the table actually had.
type ResolutionError struct {
	Problems  []string
	Available []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s (available columns: %s)", strings.Join(e.Problems, "; "), strings.Join(e.Available, ", "))
}

// Match finds, for each canonical field, the incoming column it maps to.
// Aliases are tried in priority order; when several columns normalize to the
// same alias the leftmost wins. Unmatched fields are listed in missing.
func Match(columns []string) (matched map[string]int, missing []string) {
	lookup := make(map[string]int, len(columns))
	for j, c := range columns {
		key := Normalize(c)
		if _, dup := lookup[key]; !dup {
			lookup[key] = j
		}
	}

	matched = make(map[string]int, len(Fields))
	for _, f := range Fields {
		found := false
		for _, alias := range f.Aliases {
			if j, ok := lookup[Normalize(alias)]; ok {
				matched[f.Name] = j
				found = true
				log.Debug().Str("field", f.Name).Str("column", columns[j]).Msg("schema field matched")
				break
			}
		}
		if !found {
			missing = append(missing, f.Name)
		}
	}
	return matched, missing
}

// Resolve renames the columns of raw to the canonical schema and validates
// the returned flag. raw is never modified; on failure the table is nil and
// the error is a *ResolutionError listing all problems.
func Resolve(raw *data.Table) (*data.Table, error) {
	matched, missing := Match(raw.Columns)
	available := append([]string(nil), raw.Columns...)

	if len(missing) > 0 {
		problems := make([]string, 0, len(missing))
		for _, name := range missing {
			problems = append(problems, fmt.Sprintf("missing column: %s (looked for: %s)", name, strings.Join(aliasesOf(name), ", ")))
		}
		return nil, &ResolutionError{Problems: problems, Available: available}
	}

	resolved := raw.Clone()
	for name, j := range matched {
		resolved.Columns[j] = name
	}
	renameShadowed(resolved, matched)

	if problems := validateReturned(resolved); len(problems) > 0 {
		return nil, &ResolutionError{Problems: problems, Available: available}
	}
	return resolved, nil
}

func validateReturned(t *data.Table) []string {
	col, _ := t.Column(Returned)
	var (
		problems []string
		invalid  []string
		seen     = map[string]bool{}
		missing  bool
	)
	for _, v := range col {
		f, ok, err := data.ParseFloat(v)
		switch {
		case err == nil && !ok:
			missing = true
		case err != nil || (f != 0 && f != 1):
			if !seen[v] {
				seen[v] = true
				invalid = append(invalid, v)
			}
		}
	}
	if len(invalid) > 0 {
		problems = append(problems, fmt.Sprintf("column %q must contain only 0 or 1, found: %s", Returned, strings.Join(invalid, ", ")))
	}
	if missing {
		problems = append(problems, fmt.Sprintf("column %q cannot contain missing values", Returned))
	}
	return problems
}

// renameShadowed gives unmatched columns whose names collide with a canonical
// or derived column a numeric suffix (price_2, price_3, ...), so each name in
// the resolved table refers to one column.
func renameShadowed(t *data.Table, matched map[string]int) {
	isMatched := make(map[int]bool, len(matched))
	for _, j := range matched {
		isMatched[j] = true
	}
	reserved := map[string]bool{CategoryCode: true}
	for name := range matched {
		reserved[name] = true
	}
	used := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		used[c] = true
	}
	for j, c := range t.Columns {
		if isMatched[j] {
			continue
		}
		key := Normalize(c)
		if !reserved[key] {
			continue
		}
		for k := 2; ; k++ {
			candidate := fmt.Sprintf("%s_%d", key, k)
			if !used[candidate] {
				log.Debug().Str("column", c).Str("renamed", candidate).Msg("duplicate column renamed")
				t.Columns[j] = candidate
				used[candidate] = true
				break
			}
		}
	}
}

func aliasesOf(name string) []string {
	for _, f := range Fields {
		if f.Name == name {
			return f.Aliases
		}
	}
	return nil
}
