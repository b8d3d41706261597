package models

import (
	"testing"
	"time"
)

func TestCellTreeCounts(t *testing.T) {
	root := NewHeaderCell("region", "Region").WithChildren(
		NewHeaderCell("north", "North").WithChildren(
			NewHeaderCell("q1", "Q1"),
			NewHeaderCell("q2", "Q2"),
		),
		NewHeaderCell("south", "South"),
	)

	if got := root.LeafCount(); got != 3 {
		t.Errorf("Expected 3 leaves, got %d", got)
	}
	if got := root.Depth(); got != 3 {
		t.Errorf("Expected depth 3, got %d", got)
	}
	if got := root.NodeCount(); got != 5 {
		t.Errorf("Expected 5 nodes, got %d", got)
	}
	if root.IsLeaf() {
		t.Errorf("Expected root not to be a leaf")
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		value    any
		expected CellType
	}{
		{42, CellTypeNumber},
		{3.5, CellTypeNumber},
		{true, CellTypeBoolean},
		{time.Now(), CellTypeDate},
		{"text", CellTypeString},
		{nil, CellTypeString},
	}

	for _, tt := range tests {
		if got := NewDataCell("k", tt.value).Type; got != tt.expected {
			t.Errorf("NewDataCell(%v).Type = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}

func TestPrintAreaReference(t *testing.T) {
	area := PrintArea{R1: 1, C1: 1, R2: 10, C2: 4}
	ref, err := area.Reference("Sales")
	if err != nil {
		t.Fatalf("Reference failed: %v", err)
	}
	if ref != "'Sales'!$A$1:$D$10" {
		t.Errorf("Expected 'Sales'!$A$1:$D$10, got %s", ref)
	}
	if !area.ContainsRow(10) || area.ContainsRow(11) {
		t.Errorf("Unexpected ContainsRow result")
	}
}

func TestDocPropertiesDefaults(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	props := Metadata{Author: "Ana", Title: "Report"}.DocProperties(now)

	if props.Creator != "Ana" || props.LastModifiedBy != "Ana" {
		t.Errorf("Unexpected author fields: %+v", props)
	}
	if props.Created != "2024-01-02T03:04:05Z" {
		t.Errorf("Expected created timestamp, got %s", props.Created)
	}
}

func TestWorksheetConfigGap(t *testing.T) {
	if got := (WorksheetConfig{}).Gap(); got != 1 {
		t.Errorf("Expected default gap 1, got %d", got)
	}
	zero := 0
	if got := (WorksheetConfig{TableGap: &zero}).Gap(); got != 0 {
		t.Errorf("Expected gap 0, got %d", got)
	}
}
