package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// -- Mock source --

type mockSource struct {
	rows []RawRecord
	err  error
}

func (m *mockSource) Load(_ context.Context) ([]RawRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func newTestService(rows []RawRecord) *Service {
	return NewService(&mockSource{rows: rows}, zerolog.Nop())
}

func TestService_Insights(t *testing.T) {
	svc := newTestService([]RawRecord{
		{
			"Practitioner":            "Dr. Rao",
			"Medical Department":      "Cardiology",
			"Company":                 "City",
			"Gender":                  "Female",
			"Mode of Payment":         "Cash",
			"Status":                  "Closed",
			"Patient":                 "P1",
			"Age":                     "45",
			"Paid Amount":             "1500",
			"Appointment Date & Time": "02-12-25 17:46",
		},
	})

	insights, err := svc.Insights(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights) != 25 {
		t.Fatalf("expected 25 insights, got %d", len(insights))
	}
	if insights[0].Title != "Top 5 Busiest Doctors" {
		t.Errorf("first insight = %q", insights[0].Title)
	}
}

func TestService_Insights_EmptySource(t *testing.T) {
	svc := newTestService(nil)
	insights, err := svc.Insights(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights) == 0 {
		t.Error("empty source should still yield unconditional insights")
	}
}

func TestService_Insights_SourceError(t *testing.T) {
	svc := NewService(&mockSource{err: errors.New("boom")}, zerolog.Nop())
	if _, err := svc.Insights(context.Background()); err == nil {
		t.Fatal("expected error from failing source")
	}
}
