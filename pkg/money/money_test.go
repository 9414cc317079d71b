package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromMinorToMajor(t *testing.T) {
	got := FromMinor(1000000)
	if !got.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected 10000, got %s", got)
	}
	got = FromMinor(12345)
	if !got.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("expected 123.45, got %s", got)
	}
}

func TestToMinorRoundTrip(t *testing.T) {
	major := decimal.RequireFromString("9262.50")
	if minor := ToMinor(major); minor != 926250 {
		t.Fatalf("expected 926250, got %d", minor)
	}
	if back := FromMinor(926250); !back.Equal(major) {
		t.Fatalf("round trip drifted: %s", back)
	}
}

func TestToMinorRoundsHalfUp(t *testing.T) {
	if minor := ToMinor(decimal.RequireFromString("1.005")); minor != 101 {
		t.Fatalf("expected 101, got %d", minor)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(decimal.RequireFromString("250.005")); !got.Equal(decimal.RequireFromString("250.01")) {
		t.Fatalf("expected 250.01, got %s", got)
	}
	if got := Round2(decimal.RequireFromString("250.004")); !got.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("expected 250.00, got %s", got)
	}
}
