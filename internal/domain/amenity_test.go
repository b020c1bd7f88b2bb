package domain_test

import (
	"reflect"
	"testing"

	"amenity_engine/internal/domain"
)

func TestStaySpanDates_Inclusive(t *testing.T) {
	s := domain.StaySpan{FromDate: "2026-08-30", ToDate: "2026-09-02"}
	got := s.Dates()
	want := []string{"2026-08-30", "2026-08-31", "2026-09-01", "2026-09-02"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dates: got %v want %v", got, want)
	}
}

func TestStaySpanDates_SingleDay(t *testing.T) {
	s := domain.StaySpan{FromDate: "2026-02-28", ToDate: "2026-02-28"}
	got := s.Dates()
	if len(got) != 1 || got[0] != "2026-02-28" {
		t.Fatalf("dates: got %v", got)
	}
}

func TestStaySpanDates_InvalidOrInverted(t *testing.T) {
	if got := (domain.StaySpan{FromDate: "not-a-date", ToDate: "2026-01-02"}).Dates(); got != nil {
		t.Fatalf("malformed from: got %v", got)
	}
	if got := (domain.StaySpan{FromDate: "2026-01-05", ToDate: "2026-01-02"}).Dates(); got != nil {
		t.Fatalf("inverted span: got %v", got)
	}
}
