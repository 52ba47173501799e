package google

import (
	"fmt"
	"strings"

	"billpay/internal/core"
)

// parseOptions converts sheet rows (kind, value, label, hint) into option
// sets. Blank rows are ignored; rows with an unknown kind or no value are
// counted as skipped.
func parseOptions(values [][]interface{}) (core.Options, int) {
	var all []core.Option
	skipped := 0
	seen := map[string]struct{}{}
	for _, row := range values {
		cells := toStrings(row)
		if isBlank(cells) {
			continue
		}
		o := core.Option{
			Kind:  core.OptionKind(strings.ToLower(safeGet(cells, 0))),
			Value: safeGet(cells, 1),
			Label: safeGet(cells, 2),
			Hint:  safeGet(cells, 3),
		}
		if !o.Kind.IsValid() || o.Value == "" {
			skipped++
			continue
		}
		key := string(o.Kind) + "\x00" + o.Value
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if o.Label == "" {
			o.Label = o.Value
		}
		all = append(all, o)
	}
	return core.Group(all), skipped
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < len(arr) {
		return arr[idx]
	}
	return ""
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
