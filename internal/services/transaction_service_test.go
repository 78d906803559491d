package services

import (
	"context"
	"errors"
	"testing"

	"focolare/internal/core"
)

type txFixture struct {
	*fixture
	service    *TransactionService
	categoryID string
	sourceID   string
}

func newTxFixture(t *testing.T) *txFixture {
	t.Helper()
	f := newFixture(t)
	ctx := context.Background()

	category := &core.Category{GroupID: f.groupID, Name: "food", Kind: core.CategoryExpense}
	if err := f.store.InsertCategory(ctx, category); err != nil {
		t.Fatalf("InsertCategory() error = %v", err)
	}
	source := &core.AssetSource{GroupID: f.groupID, Name: "card", Color: "#00ff00"}
	if err := f.store.InsertAssetSource(ctx, source); err != nil {
		t.Fatalf("InsertAssetSource() error = %v", err)
	}

	return &txFixture{
		fixture:    f,
		service:    NewTransactionService(f.store, NewGate(f.store), f.events),
		categoryID: category.ID,
		sourceID:   source.ID,
	}
}

func (f *txFixture) newTransaction(t *testing.T, date string, cents int64) *core.Transaction {
	t.Helper()
	return &core.Transaction{
		GroupID:       f.groupID,
		Date:          mustParse(t, date),
		Amount:        core.Money{Cents: cents},
		Payee:         "mercato",
		CategoryID:    f.categoryID,
		AssetType:     core.AssetJoint,
		AssetSourceID: f.sourceID,
	}
}

func mustParse(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func TestTransactionCreate(t *testing.T) {
	f := newTxFixture(t)
	ctx := context.Background()

	t.Run("persists with author", func(t *testing.T) {
		tx, err := f.service.Create(ctx, f.memberID, f.newTransaction(t, "2026-02-03", 1250))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if tx.ID == "" || tx.AuthorID != f.memberID {
			t.Errorf("tx = %+v", tx)
		}
	})

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.memberID, f.newTransaction(t, "2026-02-03", 0))
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("Create() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		tx := f.newTransaction(t, "2026-02-03", 100)
		tx.CategoryID = "missing"
		_, err := f.service.Create(ctx, f.memberID, tx)
		if !errors.Is(err, core.ErrCategoryNotFound) {
			t.Fatalf("Create() error = %v, want ErrCategoryNotFound", err)
		}
	})

	t.Run("category of another group is invalid input", func(t *testing.T) {
		otherHost := addUser(t, f.store, "other@example.com")
		groups := NewGroupService(f.store, NewGate(f.store))
		otherGroup, err := groups.CreateShared(ctx, otherHost.ID, &core.Group{Name: "other"})
		if err != nil {
			t.Fatalf("CreateShared() error = %v", err)
		}
		foreign := &core.Category{GroupID: otherGroup.ID, Name: "foreign", Kind: core.CategoryExpense}
		if err := f.store.InsertCategory(ctx, foreign); err != nil {
			t.Fatalf("InsertCategory() error = %v", err)
		}

		tx := f.newTransaction(t, "2026-02-03", 100)
		tx.CategoryID = foreign.ID
		_, err = f.service.Create(ctx, f.memberID, tx)
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("Create() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("gated", func(t *testing.T) {
		_, err := f.service.Create(ctx, "stranger", f.newTransaction(t, "2026-02-03", 100))
		if !errors.Is(err, core.ErrAccessDenied) {
			t.Fatalf("Create() error = %v, want ErrAccessDenied", err)
		}
	})
}

func TestTransactionUpdateDelete(t *testing.T) {
	f := newTxFixture(t)
	ctx := context.Background()

	tx, err := f.service.Create(ctx, f.memberID, f.newTransaction(t, "2026-02-03", 1250))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	update := TransactionUpdate{
		Date:       mustParse(t, "2026-02-04"),
		Amount:     core.Money{Cents: 1500},
		Payee:      "panificio",
		CategoryID: f.categoryID,
		AssetType:  core.AssetPersonal,
	}

	t.Run("not found and denied stay distinct", func(t *testing.T) {
		if _, err := f.service.Update(ctx, f.memberID, "missing", update); !errors.Is(err, core.ErrTransactionNotFound) {
			t.Fatalf("Update(missing) error = %v, want ErrTransactionNotFound", err)
		}
		if _, err := f.service.Update(ctx, "stranger", tx.ID, update); !errors.Is(err, core.ErrAccessDenied) {
			t.Fatalf("Update(stranger) error = %v, want ErrAccessDenied", err)
		}
	})

	got, err := f.service.Update(ctx, f.memberID, tx.ID, update)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Amount.Cents != 1500 || got.Payee != "panificio" {
		t.Errorf("updated tx = %+v", got)
	}

	if err := f.service.Delete(ctx, f.memberID, tx.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.service.FindByID(ctx, f.memberID, tx.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("FindByID() after delete error = %v", err)
	}
}
