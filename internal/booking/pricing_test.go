package booking

import (
	"math"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := ParseDate(s)
	if !ok {
		t.Fatalf("bad test date %q", s)
	}
	return d
}

func TestComputePrice(t *testing.T) {
	cases := []struct {
		name      string
		start     string
		end       string
		rate      int64
		wantDays  int
		wantTotal int64
	}{
		{"three calendar days", "2025-09-01", "2025-09-04", 15000, 3, 45000},
		{"single day", "2025-09-01", "2025-09-02", 15000, 1, 15000},
		{"short same-day rental is one day", "2025-09-01T08:00", "2025-09-01T12:00", 15000, 1, 15000},
		{"partial day rounds up", "2025-09-01T10:00", "2025-09-02T11:00", 20000, 2, 40000},
		{"month boundary", "2025-01-30", "2025-02-02", 10000, 3, 30000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Dates{StartDate: mustDate(t, tc.start), EndDate: mustDate(t, tc.end), PickupLocation: "Dakar", DropoffLocation: "Dakar"}
			p, err := ComputePrice(d, tc.rate)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Days != tc.wantDays || p.Total != tc.wantTotal || p.Subtotal != tc.wantTotal {
				t.Fatalf("expected %d days / %d, got %+v", tc.wantDays, tc.wantTotal, p)
			}
		})
	}
}

func TestComputePrice_Idempotent(t *testing.T) {
	d := Dates{StartDate: mustDate(t, "2025-09-01"), EndDate: mustDate(t, "2025-09-04")}
	first, err := ComputePrice(d, 15000)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := ComputePrice(d, 15000)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical breakdowns, got %+v and %+v", first, second)
	}
}

func TestComputePrice_Rejects(t *testing.T) {
	d := Dates{StartDate: mustDate(t, "2025-09-04"), EndDate: mustDate(t, "2025-09-01")}
	if _, err := ComputePrice(d, 15000); err == nil {
		t.Fatalf("expected error for reversed dates")
	}
	d = Dates{StartDate: mustDate(t, "2025-09-01"), EndDate: mustDate(t, "2025-09-04")}
	if _, err := ComputePrice(d, 0); err == nil {
		t.Fatalf("expected error for zero rate")
	}
}

func TestComputePrice_Overflow(t *testing.T) {
	d := Dates{StartDate: mustDate(t, "2025-09-01"), EndDate: mustDate(t, "2025-09-04")}
	if _, err := ComputePrice(d, math.MaxInt64/2); err == nil {
		t.Fatalf("expected overflow error")
	}
}
