package invites

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
)

func setupInviteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	invites := `
CREATE TABLE IF NOT EXISTS invite_codes (
  id TEXT PRIMARY KEY,
  head_office_id TEXT NOT NULL,
  code_hash TEXT NOT NULL,
  expires_at DATETIME,
  used_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(invites).Error)
	return db
}

type fakeOfficeLoader struct {
	offices map[uuid.UUID]*models.HeadOffice
}

func newFakeOfficeLoader() *fakeOfficeLoader {
	return &fakeOfficeLoader{offices: map[uuid.UUID]*models.HeadOffice{}}
}

func (f *fakeOfficeLoader) add(seq int64) *models.HeadOffice {
	office := &models.HeadOffice{ID: uuid.New(), Seq: seq, Name: "Office"}
	f.offices[office.ID] = office
	return office
}

func (f *fakeOfficeLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error) {
	office, ok := f.offices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return office, nil
}

func (f *fakeOfficeLoader) FindBySeq(ctx context.Context, seq int64) (*models.HeadOffice, error) {
	for _, office := range f.offices {
		if office.Seq == seq {
			return office, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func requireUnauthorized(t *testing.T, err error) {
	t.Helper()
	appErr := apperrors.As(err)
	require.NotNil(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code())
}

func TestService_IssueAndRedeem(t *testing.T) {
	db := setupInviteTestDB(t)
	offices := newFakeOfficeLoader()
	office := offices.add(7)

	svc, err := NewService(NewRepository(db), offices)
	require.NoError(t, err)
	ctx := context.Background()

	invite, plaintext, err := svc.Issue(ctx, office.ID, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plaintext, "7-"), "code carries the office seq prefix: %q", plaintext)
	assert.NotContains(t, invite.CodeHash, plaintext)

	claimed, gotOffice, err := svc.Redeem(ctx, db, plaintext, time.Now())
	require.NoError(t, err)
	assert.Equal(t, invite.ID, claimed.ID)
	assert.Equal(t, office.ID, gotOffice.ID)
	require.NotNil(t, claimed.UsedAt)

	_, _, err = svc.Redeem(ctx, db, plaintext, time.Now())
	requireUnauthorized(t, err)
}

func TestService_RedeemRejectsExpired(t *testing.T) {
	db := setupInviteTestDB(t)
	offices := newFakeOfficeLoader()
	office := offices.add(9)

	svc, err := NewService(NewRepository(db), offices)
	require.NoError(t, err)
	ctx := context.Background()

	_, plaintext, err := svc.Issue(ctx, office.ID, time.Minute)
	require.NoError(t, err)

	_, _, err = svc.Redeem(ctx, db, plaintext, time.Now().Add(time.Hour))
	requireUnauthorized(t, err)
}

func TestService_RedeemRejectsGarbage(t *testing.T) {
	db := setupInviteTestDB(t)
	offices := newFakeOfficeLoader()
	offices.add(3)

	svc, err := NewService(NewRepository(db), offices)
	require.NoError(t, err)
	ctx := context.Background()

	cases := []string{"", "no-dash-prefix", "0-ABCDEFGH", "999-UNKNOWN", "3-WRONGCODE"}
	for _, code := range cases {
		_, _, err := svc.Redeem(ctx, db, code, time.Now())
		requireUnauthorized(t, err)
	}
}

func TestRepository_MarkUsedIfUnused(t *testing.T) {
	db := setupInviteTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	invite := &models.InviteCode{ID: uuid.New(), HeadOfficeID: uuid.New(), CodeHash: "x"}
	require.NoError(t, repo.Create(ctx, invite))

	ok, err := repo.MarkUsedIfUnused(ctx, invite.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkUsedIfUnused(ctx, invite.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "second claim must lose")

	open, err := repo.ListOpenByHeadOffice(ctx, invite.HeadOfficeID)
	require.NoError(t, err)
	assert.Empty(t, open)
}
