package user

import (
	"context"
	"testing"

	"ezwallet-service/internal/domain/group"
	"ezwallet-service/internal/domain/user"
	xerrors "ezwallet-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users []user.User
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]user.User, error) {
	return append([]user.User(nil), r.users...), nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			cp := r.users[i]
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			cp := r.users[i]
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

type fakeGroupRepo struct {
	groups map[string][]group.Member
}

func (r *fakeGroupRepo) FindByMemberEmail(_ context.Context, email string) (*group.Group, error) {
	for name, members := range r.groups {
		for _, m := range members {
			if m.Email == email {
				return &group.Group{Name: name, Members: append([]group.Member(nil), members...)}, nil
			}
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeGroupRepo) ReplaceMembers(_ context.Context, name string, members []group.Member) error {
	r.groups[name] = append([]group.Member(nil), members...)
	return nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, name string) error {
	delete(r.groups, name)
	return nil
}

type fakeTransactionRepo struct {
	byUsername map[string]int64
}

func (r *fakeTransactionRepo) DeleteByUsername(_ context.Context, username string) (int64, error) {
	n := r.byUsername[username]
	delete(r.byUsername, username)
	return n, nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeGroupRepo, *fakeTransactionRepo) {
	users := &fakeUserRepo{users: []user.User{
		{ID: "u1", Username: "mario", Email: "mario@example.com", Role: user.RoleRegular},
		{ID: "u2", Username: "luigi", Email: "luigi@example.com", Role: user.RoleRegular},
		{ID: "u3", Username: "peach", Email: "peach@example.com", Role: user.RoleAdmin},
	}}
	groups := &fakeGroupRepo{groups: map[string][]group.Member{
		"Family": {
			{Email: "mario@example.com", UserID: "u1"},
			{Email: "luigi@example.com", UserID: "u2"},
		},
	}}
	transactions := &fakeTransactionRepo{byUsername: map[string]int64{"mario": 3}}
	return NewService(users, groups, transactions, zap.NewNop()), users, groups, transactions
}

func strptr(s string) *string { return &s }

func TestList(t *testing.T) {
	svc, _, _, _ := newTestService()
	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("len = %d, want 3", len(infos))
	}
	if infos[0].Username != "mario" || infos[0].Email != "mario@example.com" || infos[0].Role != user.RoleRegular {
		t.Fatalf("infos[0] = %+v", infos[0])
	}
}

func TestGet(t *testing.T) {
	svc, _, _, _ := newTestService()

	info, err := svc.Get(context.Background(), "luigi")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if info.Email != "luigi@example.com" {
		t.Fatalf("info = %+v", info)
	}

	_, err = svc.Get(context.Background(), "ghost")
	if err == nil || err.Error() != "User not found" {
		t.Fatalf("err = %v, want User not found", err)
	}
	if !xerrors.Is(err, xerrors.ErrBadRequest) {
		t.Fatal("not-found should map to a 400")
	}
}

func TestDeleteValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		email *string
		want  string
	}{
		{"missing email", nil, "the request body does not contain all the necessary attributes"},
		{"empty email", strptr("   "), "email is an empty string"},
		{"bad format", strptr("not-an-email"), "email is not in the correct format"},
		{"unknown user", strptr("ghost@example.com"), "User not found"},
		{"admin", strptr("peach@example.com"), "Admins cannot be deleted"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Delete(ctx, &user.DeleteRequest{Email: tc.email})
			if err == nil || err.Error() != tc.want {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestDeleteRemovesDataAndGroupMembership(t *testing.T) {
	svc, users, groups, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Delete(ctx, &user.DeleteRequest{Email: strptr("mario@example.com")})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if resp.DeletedTransactions != 3 {
		t.Fatalf("deletedTransactions = %d, want 3", resp.DeletedTransactions)
	}
	if !resp.DeletedFromGroup {
		t.Fatal("expected deletedFromGroup")
	}

	members := groups.groups["Family"]
	if len(members) != 1 || members[0].Email != "luigi@example.com" {
		t.Fatalf("remaining members = %+v", members)
	}

	// The account row itself survives.
	if _, err := users.FindByEmail(ctx, "mario@example.com"); err != nil {
		t.Fatal("user row should not be deleted")
	}
}

func TestDeleteLastMemberDropsGroup(t *testing.T) {
	svc, _, groups, _ := newTestService()
	ctx := context.Background()
	groups.groups["Family"] = []group.Member{{Email: "mario@example.com", UserID: "u1"}}

	resp, err := svc.Delete(ctx, &user.DeleteRequest{Email: strptr("mario@example.com")})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !resp.DeletedFromGroup {
		t.Fatal("expected deletedFromGroup")
	}
	if _, ok := groups.groups["Family"]; ok {
		t.Fatal("group should be gone with its last member")
	}
}

func TestDeleteUserNotInGroup(t *testing.T) {
	svc, _, groups, _ := newTestService()
	groups.groups["Family"] = []group.Member{{Email: "mario@example.com", UserID: "u1"}}

	resp, err := svc.Delete(context.Background(), &user.DeleteRequest{Email: strptr("luigi@example.com")})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if resp.DeletedTransactions != 0 {
		t.Fatalf("deletedTransactions = %d, want 0", resp.DeletedTransactions)
	}
	if resp.DeletedFromGroup {
		t.Fatal("user was in no group; expected deletedFromGroup false")
	}
}
