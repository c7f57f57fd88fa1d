package transaction

import (
	"context"
	"testing"
	"time"

	"ezwallet-service/internal/domain/category"
	"ezwallet-service/internal/domain/transaction"
	"ezwallet-service/internal/domain/user"
	xerrors "ezwallet-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeTransactionRepo struct {
	txs    []transaction.Transaction
	colors map[string]string
}

func (r *fakeTransactionRepo) Create(_ context.Context, t *transaction.Transaction) error {
	t.Date = time.Now()
	r.txs = append(r.txs, *t)
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id string) (*transaction.Transaction, error) {
	for i := range r.txs {
		if r.txs[i].ID == id {
			cp := r.txs[i]
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeTransactionRepo) DeleteByID(_ context.Context, id string) error {
	for i := range r.txs {
		if r.txs[i].ID == id {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeTransactionRepo) CountByIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		for i := range r.txs {
			if r.txs[i].ID == id {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeTransactionRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		r.DeleteByID(ctx, id)
	}
	return nil
}

func (r *fakeTransactionRepo) List(_ context.Context, f transaction.Filter) ([]transaction.Info, error) {
	var out []transaction.Info
	for _, t := range r.txs {
		if f.Username != "" && t.Username != f.Username {
			continue
		}
		if len(f.Usernames) > 0 && !containsStr(f.Usernames, t.Username) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.MinDate != nil && t.Date.Before(*f.MinDate) {
			continue
		}
		if f.MaxDate != nil && t.Date.After(*f.MaxDate) {
			continue
		}
		if f.MinAmount != nil && t.Amount < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
			continue
		}
		out = append(out, transaction.Info{
			ID:       t.ID,
			Username: t.Username,
			Amount:   t.Amount,
			Type:     t.Type,
			Color:    r.colors[t.Type],
			Date:     t.Date,
		})
	}
	return out, nil
}

type fakeUserRepo struct {
	users []user.User
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

func (r *fakeUserRepo) FindUsernamesByEmails(_ context.Context, emails []string) ([]string, error) {
	var names []string
	for i := range r.users {
		if containsStr(emails, r.users[i].Email) {
			names = append(names, r.users[i].Username)
		}
	}
	return names, nil
}

type fakeCategoryRepo struct {
	types map[string]string // type -> color
}

func (r *fakeCategoryRepo) FindByType(_ context.Context, categoryType string) (*category.Category, error) {
	color, ok := r.types[categoryType]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &category.Category{Type: categoryType, Color: color}, nil
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func amount(v float64) *float64 { return &v }

func newTestService() (*Service, *fakeTransactionRepo) {
	txs := &fakeTransactionRepo{
		colors: map[string]string{"food": "red", "rent": "blue"},
		txs: []transaction.Transaction{
			{ID: "t1", Username: "mario", Type: "food", Amount: 25, Date: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)},
			{ID: "t2", Username: "mario", Type: "rent", Amount: 700, Date: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)},
			{ID: "t3", Username: "luigi", Type: "food", Amount: 12, Date: time.Date(2024, 3, 20, 18, 0, 0, 0, time.UTC)},
			{ID: "t4", Username: "peach", Type: "food", Amount: 40, Date: time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)},
		},
	}
	users := &fakeUserRepo{users: []user.User{
		{ID: "u1", Username: "mario", Email: "mario@example.com"},
		{ID: "u2", Username: "luigi", Email: "luigi@example.com"},
		{ID: "u3", Username: "peach", Email: "peach@example.com"},
	}}
	cats := &fakeCategoryRepo{types: txs.colors}
	return NewService(txs, users, cats, zap.NewNop()), txs
}

func TestCreateTransaction(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "mario", &transaction.CreateRequest{
		Username: "mario",
		Type:     "food",
		Amount:   amount(-12.5),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Username != "mario" || created.Type != "food" || created.Amount != -12.5 {
		t.Fatalf("created = %+v", created)
	}
	if created.Date.IsZero() {
		t.Fatal("date not set")
	}
	if len(repo.txs) != 5 {
		t.Fatalf("transactions = %d, want 5", len(repo.txs))
	}
	if repo.txs[4].ID == "" {
		t.Fatal("expected a generated id")
	}
}

func TestCreateTransactionFailures(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "mario", &transaction.CreateRequest{Username: "mario", Type: "ghost", Amount: amount(5)})
	if err == nil || err.Error() != "Category not found" {
		t.Fatalf("err = %v", err)
	}

	_, err = svc.Create(ctx, "mario", &transaction.CreateRequest{Username: "luigi", Type: "food", Amount: amount(5)})
	if err == nil || err.Error() != "usernames mismatch" {
		t.Fatalf("err = %v", err)
	}

	_, err = svc.Create(ctx, "ghost", &transaction.CreateRequest{Username: "ghost", Type: "food", Amount: amount(5)})
	if err == nil || err.Error() != "user not found" {
		t.Fatalf("err = %v", err)
	}
}

func TestAll(t *testing.T) {
	svc, _ := newTestService()
	infos, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(infos) != 4 {
		t.Fatalf("len = %d", len(infos))
	}
	if infos[0].Color != "red" {
		t.Fatalf("color not joined: %+v", infos[0])
	}
}

func TestByUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	infos, err := svc.ByUser(ctx, "mario", QueryFilters{})
	if err != nil {
		t.Fatalf("ByUser: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}

	infos, err = svc.ByUser(ctx, "mario", QueryFilters{From: "2024-03-12"})
	if err != nil {
		t.Fatalf("ByUser: %v", err)
	}
	if len(infos) != 1 || infos[0].Type != "rent" {
		t.Fatalf("infos = %+v", infos)
	}

	infos, err = svc.ByUser(ctx, "mario", QueryFilters{Min: "100"})
	if err != nil {
		t.Fatalf("ByUser: %v", err)
	}
	if len(infos) != 1 || infos[0].Amount != 700 {
		t.Fatalf("infos = %+v", infos)
	}

	_, err = svc.ByUser(ctx, "ghost", QueryFilters{})
	if err == nil || err.Error() != "User not found" {
		t.Fatalf("err = %v", err)
	}

	_, err = svc.ByUser(ctx, "mario", QueryFilters{Date: "bad"})
	if err == nil || err.Error() != "Invalid date in one of query params" {
		t.Fatalf("err = %v", err)
	}
}

func TestByUserByCategory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	infos, err := svc.ByUserByCategory(ctx, "mario", "food")
	if err != nil {
		t.Fatalf("ByUserByCategory: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "t1" {
		t.Fatalf("infos = %+v", infos)
	}

	_, err = svc.ByUserByCategory(ctx, "mario", "ghost")
	if err == nil || err.Error() != "Category not found" {
		t.Fatalf("err = %v", err)
	}
	_, err = svc.ByUserByCategory(ctx, "ghost", "food")
	if err == nil || err.Error() != "User not found" {
		t.Fatalf("err = %v", err)
	}
}

func TestByGroup(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	infos, err := svc.ByGroup(ctx, []string{"mario@example.com", "luigi@example.com"})
	if err != nil {
		t.Fatalf("ByGroup: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("len = %d, want 3", len(infos))
	}

	infos, err = svc.ByGroup(ctx, nil)
	if err != nil {
		t.Fatalf("ByGroup: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("len = %d, want 0", len(infos))
	}
}

func TestByGroupByCategory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	infos, err := svc.ByGroupByCategory(ctx, []string{"mario@example.com", "luigi@example.com"}, "food")
	if err != nil {
		t.Fatalf("ByGroupByCategory: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}

	_, err = svc.ByGroupByCategory(ctx, []string{"mario@example.com"}, "ghost")
	if err == nil || err.Error() != "Category not found" {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	msg, err := svc.Delete(ctx, "mario", "t1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if msg != "transaction deleted" {
		t.Fatalf("msg = %q", msg)
	}
	if len(repo.txs) != 3 {
		t.Fatalf("transactions = %d, want 3", len(repo.txs))
	}
}

func TestDeleteTransactionFailures(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Delete(ctx, "ghost", "t1")
	if err == nil || err.Error() != "user not found" {
		t.Fatalf("err = %v", err)
	}
	_, err = svc.Delete(ctx, "mario", "nope")
	if err == nil || err.Error() != "transaction not found" {
		t.Fatalf("err = %v", err)
	}
	_, err = svc.Delete(ctx, "mario", "t3")
	if err == nil || err.Error() != "Username mismatch" {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteMany(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.DeleteMany(ctx, []string{"t1", "nope"})
	if err == nil || err.Error() != "some transactions are not found" {
		t.Fatalf("err = %v", err)
	}
	if len(repo.txs) != 4 {
		t.Fatal("nothing should be deleted on failure")
	}

	msg, err := svc.DeleteMany(ctx, []string{"t1", "t3"})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if msg != "transactions deleted" {
		t.Fatalf("msg = %q", msg)
	}
	if len(repo.txs) != 2 {
		t.Fatalf("transactions = %d, want 2", len(repo.txs))
	}
}
