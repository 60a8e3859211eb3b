package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entry *models.LedgerEntry) error
	listFn   func(ctx context.Context, storeID uuid.UUID, limit int) ([]models.LedgerEntry, error)
	sumFn    func(ctx context.Context, storeID uuid.UUID) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]models.LedgerEntry, error) {
	if f.listFn != nil {
		return f.listFn(ctx, storeID, limit)
	}
	return nil, nil
}

func (f *fakeRepository) SumByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	if f.sumFn != nil {
		return f.sumFn(ctx, storeID)
	}
	return 0, nil
}

type fakeBalanceReader struct {
	balance int64
	err     error
}

func (f *fakeBalanceReader) GetBalance(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return f.balance, f.err
}

func TestService_Append(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, &fakeBalanceReader{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.LedgerEntry
	repo.createFn = func(ctx context.Context, entry *models.LedgerEntry) error {
		created = entry
		return nil
	}

	input := AppendInput{
		StoreID: uuid.New(),
		Type:    enums.LedgerEntryTypeCharge,
		Amount:  50000,
		RefType: enums.LedgerRefTypeTopup,
		RefID:   uuid.New(),
		Memo:    "top-up applied",
	}
	got, err := svc.Append(context.Background(), &gorm.DB{}, input)
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if created == nil {
		t.Fatal("expected ledger entry to be created")
	}
	if created.StoreID != input.StoreID || created.Amount != input.Amount || created.Type != input.Type {
		t.Fatalf("unexpected ledger entry data: %+v", created)
	}
	if created.RefType != input.RefType || created.RefID != input.RefID || created.Memo != input.Memo {
		t.Fatalf("missing reference data: %+v", created)
	}
	if got != created {
		t.Fatal("service should return created entry")
	}
}

func TestService_AppendValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{}, &fakeBalanceReader{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	valid := AppendInput{
		StoreID: uuid.New(),
		Type:    enums.LedgerEntryTypeCharge,
		Amount:  100,
		RefType: enums.LedgerRefTypeBank,
		RefID:   uuid.New(),
	}

	cases := []struct {
		name   string
		tx     *gorm.DB
		mutate func(in *AppendInput)
	}{
		{name: "nil transaction", tx: nil, mutate: func(in *AppendInput) {}},
		{name: "missing store", tx: &gorm.DB{}, mutate: func(in *AppendInput) { in.StoreID = uuid.Nil }},
		{name: "missing ref", tx: &gorm.DB{}, mutate: func(in *AppendInput) { in.RefID = uuid.Nil }},
		{name: "bad type", tx: &gorm.DB{}, mutate: func(in *AppendInput) { in.Type = "refund" }},
		{name: "bad ref type", tx: &gorm.DB{}, mutate: func(in *AppendInput) { in.RefType = "invoice" }},
		{name: "zero charge", tx: &gorm.DB{}, mutate: func(in *AppendInput) { in.Amount = 0 }},
		{name: "negative charge", tx: &gorm.DB{}, mutate: func(in *AppendInput) { in.Amount = -5 }},
		{name: "positive debit", tx: &gorm.DB{}, mutate: func(in *AppendInput) {
			in.Type = enums.LedgerEntryTypeOrderDebit
			in.RefType = enums.LedgerRefTypeOrder
			in.Amount = 5
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			if _, err := svc.Append(context.Background(), tc.tx, input); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestService_History(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, &fakeBalanceReader{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	storeID := uuid.New()
	var gotLimit int
	repo.listFn = func(ctx context.Context, id uuid.UUID, limit int) ([]models.LedgerEntry, error) {
		if id != storeID {
			t.Fatalf("unexpected store id %s", id)
		}
		gotLimit = limit
		return []models.LedgerEntry{{StoreID: id}}, nil
	}

	entries, err := svc.History(context.Background(), storeID, 0)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if gotLimit != 25 {
		t.Fatalf("expected default limit 25, got %d", gotLimit)
	}

	if _, err := svc.History(context.Background(), uuid.Nil, 10); err == nil {
		t.Fatal("expected error for missing store id")
	}
}

func TestService_Reconcile(t *testing.T) {
	repo := &fakeRepository{
		sumFn: func(ctx context.Context, storeID uuid.UUID) (int64, error) {
			return 4100, nil
		},
	}

	svc, err := NewService(repo, &fakeBalanceReader{balance: 4100})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	rec, err := svc.Reconcile(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if !rec.Consistent || rec.LedgerSum != 4100 || rec.WalletBalance != 4100 {
		t.Fatalf("unexpected reconciliation: %+v", rec)
	}

	svc, err = NewService(repo, &fakeBalanceReader{balance: 9999})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	rec, err = svc.Reconcile(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if rec.Consistent {
		t.Fatalf("expected drift to be reported: %+v", rec)
	}

	svc, err = NewService(repo, &fakeBalanceReader{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	if _, err := svc.Reconcile(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected balance error to propagate")
	}
}
