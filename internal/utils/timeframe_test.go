package utils

import (
	"testing"
	"time"
)

func TestParseTimeframe_SingleDate(t *testing.T) {
	end, err := ParseTimeframe("2025-03-01")
	if err != nil {
		t.Fatalf("ParseTimeframe() error = %v", err)
	}

	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("end = %v, expected %v", end, want)
	}
}

func TestParseTimeframe_Range(t *testing.T) {
	end, err := ParseTimeframe("2025-03-01..2025-06-30")
	if err != nil {
		t.Fatalf("ParseTimeframe() error = %v", err)
	}

	want := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("end = %v, expected %v", end, want)
	}
}

func TestParseTimeframe_SameDayRange(t *testing.T) {
	if _, err := ParseTimeframe("2025-03-01..2025-03-01"); err != nil {
		t.Errorf("start == end should be valid, got %v", err)
	}
}

func TestParseTimeframe_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"march 1st",
		"2025-13-01",
		"2025-03-01..",
		"..2025-03-01",
		"2025-06-30..2025-03-01", // start after end
		"2025-03-01..banana",
	}

	for _, tf := range cases {
		if _, err := ParseTimeframe(tf); err == nil {
			t.Errorf("ParseTimeframe(%q) should return error", tf)
		}
	}
}

func TestRankForPoints(t *testing.T) {
	cases := []struct {
		points int
		rank   string
	}{
		{0, "Newbie"},
		{49, "Newbie"},
		{50, "Member"},
		{199, "Member"},
		{200, "Contributor"},
		{500, "Veteran"},
		{999, "Veteran"},
		{1000, "Legend"},
		{5000, "Legend"},
	}

	for _, tc := range cases {
		if got := RankForPoints(tc.points); got != tc.rank {
			t.Errorf("RankForPoints(%d) = %q, expected %q", tc.points, got, tc.rank)
		}
	}
}
