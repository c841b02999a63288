package users

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agrofix/agrofix-backend/internal/storage/memory"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
)

func TestGetUser(t *testing.T) {
	store := memory.New()
	email := "asha@example.com"
	user := &models.User{Username: "asha", PasswordHash: "$argon2id$secret", Email: &email}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != "asha" || got.Email == nil || *got.Email != email {
		t.Fatalf("unexpected user %+v", got)
	}
	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	var fields map[string]any
	_ = json.Unmarshal(raw, &fields)
	if _, ok := fields["passwordHash"]; ok {
		t.Fatalf("password hash leaked: %s", raw)
	}

	if _, err := svc.Get(context.Background(), 404); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
