package merge

import (
	"reflect"
	"testing"
)

func TestAggregator_GroupsByNamespaceInFirstSeenOrder(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Extracted{Namespace: "Zeta", Lines: []string{"z1"}})
	agg.Add(Extracted{Namespace: "Alpha", Lines: []string{"a1"}})
	agg.Add(Extracted{Namespace: "Zeta", Lines: []string{"z2", "z3"}})

	merged := agg.Merge()
	if len(merged.Namespaces) != 2 {
		t.Fatalf("expected 2 namespaces, got %d", len(merged.Namespaces))
	}
	if merged.Namespaces[0].Name != "Zeta" || merged.Namespaces[1].Name != "Alpha" {
		t.Fatalf("expected first-seen order [Zeta Alpha], got %+v", merged.Namespaces)
	}
	if !reflect.DeepEqual(merged.Namespaces[0].Lines, []string{"z1", "z2", "z3"}) {
		t.Fatalf("unexpected Zeta lines %q", merged.Namespaces[0].Lines)
	}
}

func TestAggregator_HoistsAndDeduplicatesImports(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Extracted{Namespace: "Foo", Lines: []string{"using System;", "using System.IO;", "    void A() {}"}})
	agg.Add(Extracted{Namespace: "Bar", Lines: []string{"using System.Linq;", "using System;", "    void B() {}"}})
	agg.Add(Extracted{Namespace: "Foo", Lines: []string{"using System;", "    void C() {}"}})

	merged := agg.Merge()

	wantImports := []string{"using System;", "using System.IO;", "using System.Linq;"}
	if !reflect.DeepEqual(merged.Imports, wantImports) {
		t.Fatalf("expected imports %q, got %q", wantImports, merged.Imports)
	}
	for _, ns := range merged.Namespaces {
		for _, line := range ns.Lines {
			if IsImport(line) {
				t.Fatalf("import %q left in namespace %s", line, ns.Name)
			}
		}
	}
	if !reflect.DeepEqual(merged.Namespaces[0].Lines, []string{"    void A() {}", "    void C() {}"}) {
		t.Fatalf("unexpected Foo lines %q", merged.Namespaces[0].Lines)
	}
}

func TestAggregator_LineCountInvariant(t *testing.T) {
	files := []Extracted{
		{Namespace: "N", Lines: []string{"using A;", "x", "", "y"}},
		{Namespace: "M", Lines: []string{"m"}},
		{Namespace: "N", Lines: []string{"using B;", "z"}},
	}
	agg := NewAggregator()
	expected := map[string]int{}
	for _, f := range files {
		agg.Add(f)
		for _, line := range f.Lines {
			if !IsImport(line) {
				expected[f.Namespace]++
			}
		}
	}

	for _, ns := range agg.Merge().Namespaces {
		if len(ns.Lines) != expected[ns.Name] {
			t.Errorf("namespace %s: expected %d lines, got %d", ns.Name, expected[ns.Name], len(ns.Lines))
		}
	}
}

func TestAggregator_Empty(t *testing.T) {
	merged := NewAggregator().Merge()
	if len(merged.Imports) != 0 || len(merged.Namespaces) != 0 {
		t.Fatalf("expected empty merge, got %+v", merged)
	}
}
