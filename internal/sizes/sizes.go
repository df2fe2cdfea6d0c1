// Package sizes normalizes the heterogeneous size descriptors kurtis carry
// and resolves per-size availability. Descriptors arrive as a JSON array
// mixing plain label strings with objects whose label and quantity fields go
// by several names; Parse folds them once into canonical entries so nothing
// downstream has to re-sniff the shape.
package sizes

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Entry is one normalized size descriptor. An object descriptor may carry a
// label under both "size" and "name", so Labels holds up to two candidates.
// HasQty is false when the descriptor had no quantity of its own; the
// product's aggregate piece count stands in for it.
type Entry struct {
	Labels []string
	Qty    int
	HasQty bool
}

// quantity field aliases, in priority order
var qtyKeys = [...]string{"quantity", "count", "qty"}

// Parse decodes a raw sizes_json column. Malformed input yields nil, which
// every consumer treats the same as an empty list.
func Parse(raw string) []Entry {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil
	}
	out := make([]Entry, 0, len(arr))
	for _, item := range arr {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, Entry{Labels: []string{strings.TrimSpace(s)}})
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			// bare numeric labels ([36, 38]) appear in older rows
			var num float64
			if err := json.Unmarshal(item, &num); err == nil {
				out = append(out, Entry{Labels: []string{asLabel(num)}})
			}
			continue
		}
		e := Entry{}
		if v, ok := obj["size"]; ok {
			if lbl := asLabel(v); lbl != "" {
				e.Labels = append(e.Labels, lbl)
			}
		}
		if v, ok := obj["name"]; ok {
			if lbl := asLabel(v); lbl != "" {
				e.Labels = append(e.Labels, lbl)
			}
		}
		for _, k := range qtyKeys {
			if v, ok := obj[k]; ok {
				e.Qty = asInt(v)
				e.HasQty = true
				break
			}
		}
		out = append(out, e)
	}
	return out
}

func asLabel(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// Resolve returns the purchasable quantity for label. The first entry whose
// candidate labels match case-insensitively wins: its own quantity if it has
// one, otherwise totalPieces. No match (or no entries at all) also falls
// back to totalPieces — unknown sizes are not blocked here; callers that
// care validate membership separately.
func Resolve(entries []Entry, totalPieces int, label string) int {
	for _, e := range entries {
		if e.matches(label) {
			if e.HasQty {
				return e.Qty
			}
			return totalPieces
		}
	}
	return totalPieces
}

func (e Entry) matches(label string) bool {
	for _, l := range e.Labels {
		if l != "" && strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one entry resolves to a nonblank label.
// Products failing this are excluded from listing views.
func HasAny(entries []Entry) bool {
	for _, e := range entries {
		for _, l := range e.Labels {
			if strings.TrimSpace(l) != "" {
				return true
			}
		}
	}
	return false
}

// MatchesLabel reports whether any entry advertises the given label.
func MatchesLabel(entries []Entry, label string) bool {
	for _, e := range entries {
		if e.matches(label) {
			return true
		}
	}
	return false
}

// Labels returns every nonblank candidate label in descriptor order.
func Labels(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		for _, l := range e.Labels {
			if strings.TrimSpace(l) != "" {
				out = append(out, l)
			}
		}
	}
	return out
}

// Union collects the distinct labels across several descriptor lists and
// returns them rank-sorted. Dedupe is on the exact string, so "XL" and "xl"
// are distinct chips; matching stays case-insensitive everywhere else.
func Union(lists ...[]Entry) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, entries := range lists {
		for _, l := range Labels(entries) {
			l = strings.TrimSpace(l)
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	SortLabels(out)
	return out
}

// standard garment sizes, smallest first
var sizeRank = map[string]int{
	"xs": 1, "s": 2, "m": 3, "l": 4, "xl": 5, "xxl": 6,
	"3xl": 7, "4xl": 8, "5xl": 9, "6xl": 10, "7xl": 11,
	"8xl": 12, "9xl": 13, "10xl": 14,
}

// SortLabels orders labels by the standard size rank; numeric labels come
// next in ascending order, everything else last alphabetically.
func SortLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		a := strings.ToLower(strings.TrimSpace(labels[i]))
		b := strings.ToLower(strings.TrimSpace(labels[j]))

		ra, aRanked := sizeRank[a]
		rb, bRanked := sizeRank[b]
		if aRanked && bRanked {
			return ra < rb
		}
		if aRanked {
			return true
		}
		if bRanked {
			return false
		}

		fa, errA := strconv.ParseFloat(a, 64)
		fb, errB := strconv.ParseFloat(b, 64)
		if errA == nil && errB == nil {
			return fa < fb
		}
		if errA == nil {
			return true
		}
		if errB == nil {
			return false
		}
		return a < b
	})
}
