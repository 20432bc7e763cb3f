package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 1, 1},   // ?page absent -> first page
		{"3", 1, 3},  // ?page=3
		{"0", 1, 0},  // bounds handling is PageBounds' job
		{"-2", 1, -2},
		{"020", 0, 20},
		// unparseable -> default (no trimming)
		{"abc", 1, 1},
		{" 3", 1, 1},
		{"999999999999999999999999", 0, 0},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestPageBounds(t *testing.T) {
	cases := []struct {
		name            string
		total, page, ps int
		start, end      int
	}{
		{"no paging", 7, 1, 0, 0, 7},
		{"negative page size", 7, 1, -1, 0, 7},
		{"first page", 7, 1, 3, 0, 3},
		{"middle page", 7, 2, 3, 3, 6},
		{"short last page", 7, 3, 3, 6, 7},
		{"past the end", 7, 9, 3, 7, 7},
		{"page below one coerced", 7, 0, 3, 0, 3},
		{"empty list", 0, 1, 3, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := PageBounds(tc.total, tc.page, tc.ps)
			if start != tc.start || end != tc.end {
				t.Fatalf("PageBounds(%d, %d, %d) = [%d, %d); want [%d, %d)",
					tc.total, tc.page, tc.ps, start, end, tc.start, tc.end)
			}
		})
	}
}
