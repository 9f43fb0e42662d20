package pixel

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/gogpu/pixel/internal/errs"
)

var nameSeparators = strings.NewReplacer("_", "", "-", "", " ", "")

// canonicalName folds case and drops separators, so "North_West",
// "north-west" and "northwest" compare equal.
func canonicalName(s string) string {
	return nameSeparators.Replace(cases.Fold().String(strings.TrimSpace(s)))
}

// parseEnum maps name onto the index of a matching entry of names or onto
// an alias. Alias keys must already be canonical.
func parseEnum[T ~uint8](op, what, name string, names []string, aliases map[string]T) (T, error) {
	key := canonicalName(name)
	if key != "" {
		for i, n := range names {
			if canonicalName(n) == key {
				return T(i), nil
			}
		}
		if v, ok := aliases[key]; ok {
			return v, nil
		}
	}
	return 0, errs.Value(op, "unknown %s %q", what, name)
}

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "unknown"
}
