package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses() {
		got, err := ParseOrderStatus(s.String())
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) returned error: %v", s, err)
		}
		if got != s || !got.IsValid() {
			t.Fatalf("round trip mismatch for %q", s)
		}
	}

	for _, raw := range []string{"", "pending", "Cancelled", "Out For Delivery"} {
		if _, err := ParseOrderStatus(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
		if OrderStatus(raw).IsValid() {
			t.Fatalf("expected %q to be invalid", raw)
		}
	}
}

func TestOrderStatusesReturnsCopy(t *testing.T) {
	list := OrderStatuses()
	if len(list) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(list))
	}
	list[0] = "mutated"
	if OrderStatuses()[0] != OrderStatusPending {
		t.Fatalf("OrderStatuses must not expose the backing slice")
	}
}
