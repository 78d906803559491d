package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"focolare/internal/core"
	"focolare/internal/storage/memory"
)

func addUser(t *testing.T, store *memory.Store, email string) *core.User {
	t.Helper()
	user := &core.User{Email: email, Nickname: "user", PasswordHash: "x"}
	if err := store.InsertUser(context.Background(), user); err != nil {
		t.Fatalf("InsertUser(%s) error = %v", email, err)
	}
	return user
}

func TestGroupCreateShared(t *testing.T) {
	store := memory.New()
	service := NewGroupService(store, NewGate(store))
	ctx := context.Background()
	host := addUser(t, store, "host@example.com")

	group, err := service.CreateShared(ctx, host.ID, &core.Group{Name: "famiglia"})
	if err != nil {
		t.Fatalf("CreateShared() error = %v", err)
	}
	if group.Kind != core.GroupShared || group.HostID != host.ID {
		t.Errorf("group = %+v", group)
	}
	if group.BudgetStartDay != 1 {
		t.Errorf("BudgetStartDay defaulted to %d, want 1", group.BudgetStartDay)
	}

	// The host is an accepted member immediately.
	if err := NewGate(store).VerifyAccess(ctx, group.ID, host.ID); err != nil {
		t.Fatalf("host does not pass the gate: %v", err)
	}

	t.Run("name bounds", func(t *testing.T) {
		_, err := service.CreateShared(ctx, host.ID, &core.Group{Name: ""})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("CreateShared() error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestGroupInviteAndAccept(t *testing.T) {
	store := memory.New()
	service := NewGroupService(store, NewGate(store))
	ctx := context.Background()

	host := addUser(t, store, "host@example.com")
	guest := addUser(t, store, "guest@example.com")
	group, err := service.CreateShared(ctx, host.ID, &core.Group{Name: "famiglia"})
	if err != nil {
		t.Fatalf("CreateShared() error = %v", err)
	}

	t.Run("only host invites", func(t *testing.T) {
		_, err := service.Invite(ctx, guest.ID, group.ID, "host@example.com")
		if !errors.Is(err, core.ErrAccessDenied) {
			t.Fatalf("Invite() error = %v, want ErrAccessDenied", err)
		}
	})

	membership, err := service.Invite(ctx, host.ID, group.ID, "guest@example.com")
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if membership.Status != core.MembershipInvited || membership.Role != core.RoleGuest {
		t.Errorf("membership = %+v", membership)
	}

	t.Run("invite does not pass the gate", func(t *testing.T) {
		if err := NewGate(store).VerifyAccess(ctx, group.ID, guest.ID); !errors.Is(err, core.ErrAccessDenied) {
			t.Fatalf("VerifyAccess() error = %v, want ErrAccessDenied", err)
		}
	})

	t.Run("duplicate invite rejected", func(t *testing.T) {
		_, err := service.Invite(ctx, host.ID, group.ID, "guest@example.com")
		if !errors.Is(err, core.ErrAlreadyMember) {
			t.Fatalf("Invite() error = %v, want ErrAlreadyMember", err)
		}
	})

	if err := service.AcceptInvite(ctx, guest.ID, group.ID); err != nil {
		t.Fatalf("AcceptInvite() error = %v", err)
	}
	if err := NewGate(store).VerifyAccess(ctx, group.ID, guest.ID); err != nil {
		t.Fatalf("accepted guest does not pass the gate: %v", err)
	}

	t.Run("accept is idempotent", func(t *testing.T) {
		if err := service.AcceptInvite(ctx, guest.ID, group.ID); err != nil {
			t.Fatalf("second AcceptInvite() error = %v", err)
		}
	})

	t.Run("accept without invite is not found", func(t *testing.T) {
		outsider := addUser(t, store, "outsider@example.com")
		if err := service.AcceptInvite(ctx, outsider.ID, group.ID); !errors.Is(err, core.ErrMembershipNotFound) {
			t.Fatalf("AcceptInvite() error = %v, want ErrMembershipNotFound", err)
		}
	})
}

func TestGroupMemberCap(t *testing.T) {
	store := memory.New()
	service := NewGroupService(store, NewGate(store))
	ctx := context.Background()

	host := addUser(t, store, "host@example.com")
	group, err := service.CreateShared(ctx, host.ID, &core.Group{Name: "famiglia"})
	if err != nil {
		t.Fatalf("CreateShared() error = %v", err)
	}

	// Fill the group to the cap; the host already occupies one slot.
	for i := 0; i < core.MaxGroupMembers-1; i++ {
		email := fmt.Sprintf("guest%d@example.com", i)
		guest := addUser(t, store, email)
		if _, err := service.Invite(ctx, host.ID, group.ID, email); err != nil {
			t.Fatalf("Invite(%s) error = %v", email, err)
		}
		if err := service.AcceptInvite(ctx, guest.ID, group.ID); err != nil {
			t.Fatalf("AcceptInvite(%s) error = %v", email, err)
		}
	}

	extra := addUser(t, store, "extra@example.com")
	if _, err := service.Invite(ctx, host.ID, group.ID, "extra@example.com"); err != nil {
		t.Fatalf("Invite(extra) error = %v", err)
	}
	if err := service.AcceptInvite(ctx, extra.ID, group.ID); !errors.Is(err, core.ErrGroupFull) {
		t.Fatalf("AcceptInvite() past cap error = %v, want ErrGroupFull", err)
	}

	members, err := service.ListMembers(ctx, host.ID, group.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	accepted := 0
	for _, m := range members {
		if m.Status == core.MembershipAccepted {
			accepted++
		}
	}
	if accepted != core.MaxGroupMembers {
		t.Errorf("accepted members = %d, want %d", accepted, core.MaxGroupMembers)
	}
}
