package analytics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appointments.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVSource_Load(t *testing.T) {
	path := writeTempCSV(t, "Practitioner ,Age,Paid Amount\nDr. Rao,49,\"1,500\"\nDr. Mehta,6M,200\n")
	records, err := NewCSVSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Header trailing space is trimmed.
	if records[0]["Practitioner"] != "Dr. Rao" {
		t.Errorf("practitioner = %q", records[0]["Practitioner"])
	}
	if records[0]["Paid Amount"] != "1,500" {
		t.Errorf("paid amount = %q", records[0]["Paid Amount"])
	}
}

func TestCSVSource_BOM(t *testing.T) {
	path := writeTempCSV(t, "\ufeffPractitioner,Age\nDr. Rao,30\n")
	records, err := NewCSVSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0]["Practitioner"] != "Dr. Rao" {
		t.Errorf("BOM not stripped from first header: %v", records[0])
	}
}

func TestCSVSource_RaggedAndEmptyRows(t *testing.T) {
	path := writeTempCSV(t, "A,B,C\n1,2\n,,\n4,5,6,7\n")
	records, err := NewCSVSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (blank row skipped), got %d", len(records))
	}
	if records[0]["C"] != "" {
		t.Errorf("short row should backfill empty cells, got %q", records[0]["C"])
	}
	if records[1]["A"] != "4" {
		t.Errorf("long row not read: %v", records[1])
	}
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "A,B\n")
	records, err := NewCSVSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCSVSource_ContextCancelled(t *testing.T) {
	path := writeTempCSV(t, "A\n1\n2\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCSVSource(path).Load(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
