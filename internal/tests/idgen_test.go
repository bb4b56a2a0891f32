package tests

import (
	"strings"
	"testing"

	"tableride/internal/idgen"
)

// ──────────────────────────────────────────────
// 9. REFERENCE CODES
// ──────────────────────────────────────────────

func TestOrderNumber_Shape(t *testing.T) {
	t.Parallel()

	n := idgen.OrderNumber()
	if !strings.HasPrefix(n, "ORD-") {
		t.Fatalf("expected ORD- prefix, got %q", n)
	}
	suffix := strings.TrimPrefix(n, "ORD-")
	if len(suffix) != 8 {
		t.Errorf("expected 8-character suffix, got %q", suffix)
	}
	// Ambiguous characters stay out of phone-readable codes.
	if strings.ContainsAny(suffix, "0O1I") {
		t.Errorf("suffix contains ambiguous characters: %q", suffix)
	}
}

func TestCouponCode_Shape(t *testing.T) {
	t.Parallel()

	code := idgen.CouponCode()
	if len(code) != 10 {
		t.Fatalf("expected 10-character code, got %q", code)
	}
	for _, r := range code {
		if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r) {
			t.Errorf("unexpected character %q in %q", r, code)
		}
	}
}

func TestOrderNumber_Varies(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[idgen.OrderNumber()] = true
	}
	if len(seen) < 45 {
		t.Errorf("expected distinct numbers, got %d unique of 50", len(seen))
	}
}
