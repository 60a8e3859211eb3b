package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/pkg/db/models"
)

type storeView struct {
	ID           uuid.UUID `json:"id"`
	HeadOfficeID uuid.UUID `json:"head_office_id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func newStoreView(store *models.Store) storeView {
	return storeView{
		ID:           store.ID,
		HeadOfficeID: store.HeadOfficeID,
		Name:         store.Name,
		Status:       store.Status.String(),
		CreatedAt:    store.CreatedAt,
	}
}

func newStoreViews(stores []models.Store) []storeView {
	views := make([]storeView, 0, len(stores))
	for i := range stores {
		views = append(views, newStoreView(&stores[i]))
	}
	return views
}

type headOfficeView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	DepositBank    string    `json:"deposit_bank"`
	DepositAccount string    `json:"deposit_account"`
	DepositHolder  string    `json:"deposit_holder"`
	CreatedAt      time.Time `json:"created_at"`
}

func newHeadOfficeView(office *models.HeadOffice) headOfficeView {
	return headOfficeView{
		ID:             office.ID,
		Name:           office.Name,
		Status:         office.Status.String(),
		DepositBank:    office.DepositBank,
		DepositAccount: office.DepositAccount,
		DepositHolder:  office.DepositHolder,
		CreatedAt:      office.CreatedAt,
	}
}

type productView struct {
	ID           uuid.UUID `json:"id"`
	HeadOfficeID uuid.UUID `json:"head_office_id"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func newProductView(product *models.Product) productView {
	return productView{
		ID:           product.ID,
		HeadOfficeID: product.HeadOfficeID,
		Name:         product.Name,
		Price:        product.Price,
		Status:       product.Status.String(),
		CreatedAt:    product.CreatedAt,
	}
}

func newProductViews(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}
	return views
}

type ledgerEntryView struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	RefType   string    `json:"ref_type"`
	RefID     uuid.UUID `json:"ref_id"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newLedgerEntryViews(entries []models.LedgerEntry) []ledgerEntryView {
	views := make([]ledgerEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, ledgerEntryView{
			ID:        entry.ID,
			StoreID:   entry.StoreID,
			Type:      entry.Type.String(),
			Amount:    entry.Amount,
			RefType:   entry.RefType.String(),
			RefID:     entry.RefID,
			Memo:      entry.Memo,
			CreatedAt: entry.CreatedAt,
		})
	}
	return views
}

type topupView struct {
	ID            uuid.UUID  `json:"id"`
	StoreID       uuid.UUID  `json:"store_id"`
	Amount        int64      `json:"amount"`
	DepositorName string     `json:"depositor_name,omitempty"`
	Status        string     `json:"status"`
	DepositCode   string     `json:"deposit_code"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newTopupView(topup *models.TopupRequest) topupView {
	return topupView{
		ID:            topup.ID,
		StoreID:       topup.StoreID,
		Amount:        topup.Amount,
		DepositorName: topup.DepositorName,
		Status:        topup.Status.String(),
		DepositCode:   topup.DepositCode,
		PaidAt:        topup.PaidAt,
		CreatedAt:     topup.CreatedAt,
	}
}

func newTopupViews(topups []models.TopupRequest) []topupView {
	views := make([]topupView, 0, len(topups))
	for i := range topups {
		views = append(views, newTopupView(&topups[i]))
	}
	return views
}
