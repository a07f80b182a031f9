package main

import (
	"testing"

	"github.com/kactuary/actuary-rag/engine/semantic"
)

func TestGroupDuplicates(t *testing.T) {
	points := []semantic.StoredPoint{
		{PointID: "a", FileName: "doc.pdf", Page: 1, Text: "같은 내용"},
		{PointID: "b", FileName: "doc.pdf", Page: 1, Text: "같은 내용"},
		{PointID: "c", FileName: "doc.pdf", Page: 1, Text: "다른 내용"},
		{PointID: "d", FileName: "doc.pdf", Page: 2, Text: "같은 내용"},
		{PointID: "e", FileName: "doc.pdf", Page: 1, Text: "같은 내용"},
	}

	groups := groupDuplicates(points)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if len(g) != 3 {
		t.Fatalf("group size = %d, want 3", len(g))
	}
	// Scan order decides the keeper.
	if g[0].PointID != "a" {
		t.Errorf("keeper = %s, want a", g[0].PointID)
	}
	if g[1].PointID != "b" || g[2].PointID != "e" {
		t.Errorf("duplicates = %s, %s; want b, e", g[1].PointID, g[2].PointID)
	}
}

func TestGroupDuplicates_NoDuplicates(t *testing.T) {
	points := []semantic.StoredPoint{
		{PointID: "a", FileName: "doc.pdf", Page: 1, Text: "하나"},
		{PointID: "b", FileName: "doc.pdf", Page: 1, Text: "둘"},
	}
	if got := groupDuplicates(points); got != nil {
		t.Errorf("got %v, want none", got)
	}
}
