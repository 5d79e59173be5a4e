package ui

import (
	"strings"
	"testing"
)

func TestTableRendersHeaderAndRows(t *testing.T) {
	t.Parallel()

	table := NewTable(
		Column{Header: "Image"},
		Column{Header: "Version"},
	)
	table.AddRow("crs4/lifemonitor-tests:seek-1.12", "1.12")
	table.AddRow("crs4/lifemonitor-tests:seek-1.13", "1.13")

	var sb strings.Builder
	if err := table.Render(&sb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := sb.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 { // header + separator + 2 rows
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Image") {
		t.Errorf("header missing: %q", lines[0])
	}
	if !strings.Contains(lines[2], "seek-1.12") {
		t.Errorf("first row missing: %q", lines[2])
	}
}

func TestTableTruncatesLongCells(t *testing.T) {
	t.Parallel()

	table := NewTable(Column{Header: "Tag", MaxWidth: 10})
	table.AddRow("crs4/lifemonitor-tests:seek-1.12")

	var sb strings.Builder
	if err := table.Render(&sb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, line := range strings.Split(sb.String(), "\n") {
		if runeLen(strings.TrimRight(line, " ")) > 12 {
			t.Errorf("line exceeds max width: %q", line)
		}
	}
	if !strings.Contains(sb.String(), "…") {
		t.Error("expected truncated cell to carry ellipsis")
	}
}

func TestTableNormalizesShortRows(t *testing.T) {
	t.Parallel()

	table := NewTable(Column{Header: "A"}, Column{Header: "B"})
	table.AddRow("only-a")

	var sb strings.Builder
	if err := table.Render(&sb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(sb.String(), "only-a") {
		t.Fatal("row content missing")
	}
}
