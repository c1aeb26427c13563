package models

import (
	"testing"
	"time"
)

func d(n int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestDatesOverlap(t *testing.T) {
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut int
		want                 bool
	}{
		{"identical", 1, 3, 1, 3, true},
		{"contained", 1, 5, 2, 3, true},
		{"partial tail", 1, 3, 2, 4, true},
		{"partial head", 2, 4, 1, 3, true},
		{"checkout equals checkin", 1, 3, 3, 5, false},
		{"checkin equals checkout", 3, 5, 1, 3, false},
		{"disjoint", 1, 2, 4, 6, false},
	}
	for _, tc := range cases {
		got := DatesOverlap(d(tc.aIn), d(tc.aOut), d(tc.bIn), d(tc.bOut))
		if got != tc.want {
			t.Errorf("%s: DatesOverlap = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNights(t *testing.T) {
	if got := Nights(d(1), d(3)); got != 2 {
		t.Errorf("Expected 2 nights, got %d", got)
	}
	if got := Nights(d(1), d(2)); got != 1 {
		t.Errorf("Expected 1 night, got %d", got)
	}
	// a partial day counts as a full night
	if got := Nights(d(1), d(3).Add(6*time.Hour)); got != 3 {
		t.Errorf("Expected partial day to round up to 3, got %d", got)
	}
}

func TestValidBookingStatus(t *testing.T) {
	for _, st := range []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted} {
		if !ValidBookingStatus(st) {
			t.Errorf("%s should be valid", st)
		}
	}
	if ValidBookingStatus("bogus") {
		t.Error("bogus should be invalid")
	}
}
