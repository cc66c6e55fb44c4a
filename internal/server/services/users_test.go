package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mzarins/filedepot/internal/common"
)

func newUserService(t *testing.T) (*UserService, *memUsers) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	users := newMemUsers()
	rm := &fakeRepoManager{u: users, f: newMemFiles(), s: newMemShares()}
	return NewUserService(db, rm, discardLogger()), users
}

func TestGetOrCreate_EmptyIdentityKey(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.GetOrCreate(context.Background(), "", "alice@example.com", "Alice")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("want common.ErrInvalidInput, got %v", err)
	}
}

func TestGetOrCreate_FirstLoginCreates(t *testing.T) {
	svc, users := newUserService(t)

	u, err := svc.GetOrCreate(context.Background(), "g-1", "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if u.IdentityKey != "g-1" || u.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	again, err := svc.GetOrCreate(context.Background(), "g-1", "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("second GetOrCreate error: %v", err)
	}
	if again.ID != u.ID {
		t.Fatalf("repeat login must resolve the same user, got %d and %d", u.ID, again.ID)
	}
	if len(users.byID) != 1 {
		t.Fatalf("want 1 user, got %d", len(users.byID))
	}
}

func TestGetByEmail_NotFoundPassesThrough(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	svc, users := newUserService(t)
	users.add("g-1", "alice@example.com", "Alice")

	u, err := svc.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if u.DisplayName != "Alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
}
