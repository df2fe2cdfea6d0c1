package sizes_test

import (
	"reflect"
	"testing"

	"kurtikart/internal/sizes"
)

func TestParseMixedDescriptors(t *testing.T) {
	raw := `["S", {"size":"M","quantity":4}, {"name":"XL","count":2}, {"size":"L"}]`
	entries := sizes.Parse(raw)
	if len(entries) != 4 {
		t.Fatalf("want 4 entries, got %d", len(entries))
	}
	if entries[0].HasQty || entries[0].Labels[0] != "S" {
		t.Fatalf("plain string entry mangled: %+v", entries[0])
	}
	if !entries[1].HasQty || entries[1].Qty != 4 {
		t.Fatalf("quantity key not picked up: %+v", entries[1])
	}
	if !entries[2].HasQty || entries[2].Qty != 2 || entries[2].Labels[0] != "XL" {
		t.Fatalf("name/count aliases not picked up: %+v", entries[2])
	}
	if entries[3].HasQty {
		t.Fatalf("object without quantity should fall back to piece count: %+v", entries[3])
	}
}

func TestParseNumericDescriptors(t *testing.T) {
	entries := sizes.Parse(`[38, {"size":40,"quantity":2}]`)
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0].Labels[0] != "38" || entries[0].HasQty {
		t.Fatalf("bare number entry mangled: %+v", entries[0])
	}
	if entries[1].Labels[0] != "40" || entries[1].Qty != 2 {
		t.Fatalf("numeric size field mangled: %+v", entries[1])
	}
	// a bare numeric label is matchable and falls back to the piece count
	if got := sizes.Resolve(entries, 5, "38"); got != 5 {
		t.Fatalf("38: want 5, got %d", got)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `{"size":"M"}`} {
		if got := sizes.Parse(raw); got != nil {
			t.Fatalf("Parse(%q) = %v, want nil", raw, got)
		}
	}
}

func TestResolve(t *testing.T) {
	entries := sizes.Parse(`[{"size":"M","quantity":4}, "L"]`)

	// entry with its own quantity
	if got := sizes.Resolve(entries, 9, "M"); got != 4 {
		t.Fatalf("M: want 4, got %d", got)
	}
	// case-insensitive match
	if got := sizes.Resolve(entries, 9, "m"); got != 4 {
		t.Fatalf("m: want 4, got %d", got)
	}
	// label without a quantity falls back to the piece count
	if got := sizes.Resolve(entries, 9, "L"); got != 9 {
		t.Fatalf("L: want 9, got %d", got)
	}
	// unknown label also falls back rather than blocking
	if got := sizes.Resolve(entries, 9, "XXL"); got != 9 {
		t.Fatalf("XXL: want 9, got %d", got)
	}
	// no descriptors at all
	if got := sizes.Resolve(nil, 6, "M"); got != 6 {
		t.Fatalf("nil entries: want 6, got %d", got)
	}
}

func TestHasAny(t *testing.T) {
	if sizes.HasAny(sizes.Parse(`[]`)) {
		t.Fatal("empty list should not count as sized")
	}
	if sizes.HasAny(sizes.Parse(`[{"quantity":3}]`)) {
		t.Fatal("entry with no label should not count as sized")
	}
	if !sizes.HasAny(sizes.Parse(`["", "M"]`)) {
		t.Fatal("one nonblank label is enough")
	}
}

func TestUnionDedupesAndRanks(t *testing.T) {
	a := sizes.Parse(`["XL", "M"]`)
	b := sizes.Parse(`[{"size":"M","quantity":1}, {"size":"38"}, "Free Size"]`)

	got := sizes.Union(a, b)
	want := []string{"M", "XL", "38", "Free Size"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("union = %v, want %v", got, want)
	}

	// dedupe is exact-string: a differently cased label stays its own chip
	mixed := sizes.Union(a, sizes.Parse(`["m"]`))
	if !reflect.DeepEqual(mixed, []string{"M", "m", "XL"}) {
		t.Fatalf("mixed-case union = %v", mixed)
	}
}

func TestSortLabels(t *testing.T) {
	labels := []string{"Free Size", "40", "XXL", "s", "38", "3XL", "XL"}
	sizes.SortLabels(labels)
	want := []string{"s", "XL", "XXL", "3XL", "38", "40", "Free Size"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("sorted = %v, want %v", labels, want)
	}
}
