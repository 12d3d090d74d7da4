package catalog_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/catalog"
)

func ids(problems []catalog.Problem) []int {
	out := make([]int, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.ID)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := catalog.Default()
	if got := len(c.Domains()); got != 9 {
		t.Fatalf("expected 9 domains, got %d", got)
	}
	want := []int{3, 9, 7, 1, 5, 8, 2, 10, 4, 6}
	if diff := cmp.Diff(want, ids(c.Filter("", ""))); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	c := catalog.Default()
	cases := []struct {
		name   string
		domain string
		search string
		want   []int
	}{
		{"by domain", "Healthcare", "", []int{1, 10}},
		{"search ignores case", "", "URBAN", []int{3, 9}},
		{"domain and search", "Healthcare", "remote", []int{10}},
		{"no match", "Finance", "plastic", []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ids(c.Filter(tc.domain, tc.search))); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.yaml":  {Data: []byte("domains: [Space]\nproblems:\n  - {id: 1, domain: Space, statement: Orbit debris, votes: 3}\n")},
		"bad.yaml": {Data: []byte("domains: [Space]\nproblems:\n  - {id: 1, domain: Ocean, statement: x, votes: 1}\n")},
	}
	c, err := catalog.Load(fsys, "ok.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []catalog.Problem{{ID: 1, Domain: "Space", Statement: "Orbit debris", Votes: 3}}
	if diff := cmp.Diff(want, c.Filter("Space", "orbit")); diff != "" {
		t.Fatalf("problems mismatch (-want +got):\n%s", diff)
	}
	if _, err := catalog.Load(fsys, "bad.yaml"); !errors.Is(err, catalog.ErrUnknownDomain) {
		t.Fatalf("expected ErrUnknownDomain, got %v", err)
	}
	if _, err := catalog.Load(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
