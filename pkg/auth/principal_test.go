package auth

import "testing"

func TestPrincipalCanViewOrderOf(t *testing.T) {
	var anon *Principal
	if anon.CanViewOrderOf("a@b.c") {
		t.Fatal("anonymous callers must not view orders")
	}
	if anon.Source() != "anonymous" {
		t.Fatalf("unexpected source %q", anon.Source())
	}

	buyer := &Principal{UserID: 1, Username: "a@b.c"}
	if !buyer.CanViewOrderOf("a@b.c") {
		t.Fatal("owner should view own order")
	}
	if buyer.CanViewOrderOf("other@b.c") {
		t.Fatal("buyer must not view another buyer's order")
	}
	if buyer.Source() != "session" {
		t.Fatalf("unexpected source %q", buyer.Source())
	}

	admin := &Principal{UserID: 2, Username: "admin", IsAdmin: true, TokenID: "jti"}
	if !admin.CanViewOrderOf("anyone@b.c") {
		t.Fatal("admin should view every order")
	}
	if admin.Source() != "bearer" {
		t.Fatalf("unexpected source %q", admin.Source())
	}
}
