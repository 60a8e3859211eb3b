package stores

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

	"github.com/franchisely/franchise-backend/pkg/db"
	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	stores := `
CREATE TABLE IF NOT EXISTS stores (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  head_office_id TEXT NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL,
  auth_code_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(stores).Error)
	return conn
}

type fakeRedeemer struct {
	office *models.HeadOffice
	err    error
	calls  int
}

func (f *fakeRedeemer) Redeem(ctx context.Context, tx *gorm.DB, code string, now time.Time) (*models.InviteCode, *models.HeadOffice, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	invite := &models.InviteCode{ID: uuid.New(), HeadOfficeID: f.office.ID}
	return invite, f.office, nil
}

func activeOffice() *models.HeadOffice {
	return &models.HeadOffice{ID: uuid.New(), Seq: 7, Name: "Office", Status: enums.HeadOfficeStatusActive}
}

func TestService_JoinIssuesUsableCode(t *testing.T) {
	conn := setupStoreTestDB(t)
	redeemer := &fakeRedeemer{office: activeOffice()}
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), redeemer)
	require.NoError(t, err)
	ctx := context.Background()

	store, authCode, err := svc.Join(ctx, JoinInput{InviteCode: "7-ABCDEFKHMN", Name: " Gangnam Branch "})
	require.NoError(t, err)
	assert.Equal(t, "Gangnam Branch", store.Name)
	assert.Equal(t, redeemer.office.ID, store.HeadOfficeID)
	assert.Equal(t, enums.StoreStatusActive, store.Status)
	assert.True(t, strings.HasPrefix(authCode, store.ID.String()+"."), "auth code carries the store id prefix")
	assert.NotEqual(t, authCode, store.AuthCodeHash)

	verified, err := svc.VerifyCode(ctx, authCode)
	require.NoError(t, err)
	assert.Equal(t, store.ID, verified.ID)
}

func TestService_JoinValidation(t *testing.T) {
	conn := setupStoreTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), &fakeRedeemer{office: activeOffice()})
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = svc.Join(ctx, JoinInput{InviteCode: "7-X", Name: "  "})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())

	_, _, err = svc.Join(ctx, JoinInput{InviteCode: "", Name: "Branch"})
	appErr = apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestService_JoinRejectsBadInvite(t *testing.T) {
	conn := setupStoreTestDB(t)
	redeemer := &fakeRedeemer{err: apperrors.New(apperrors.CodeUnauthorized, "invalid invite code")}
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), redeemer)
	require.NoError(t, err)

	_, _, err = svc.Join(context.Background(), JoinInput{InviteCode: "9-NOPE", Name: "Branch"})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code())
}

func TestService_JoinRejectsInactiveOffice(t *testing.T) {
	conn := setupStoreTestDB(t)
	office := activeOffice()
	office.Status = enums.HeadOfficeStatusInactive
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), &fakeRedeemer{office: office})
	require.NoError(t, err)

	_, _, err = svc.Join(context.Background(), JoinInput{InviteCode: "7-ABCD", Name: "Branch"})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code())
}

func TestService_VerifyCodeFailures(t *testing.T) {
	conn := setupStoreTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), &fakeRedeemer{office: activeOffice()})
	require.NoError(t, err)
	ctx := context.Background()

	store, authCode, err := svc.Join(ctx, JoinInput{InviteCode: "7-ABCD", Name: "Branch"})
	require.NoError(t, err)

	cases := []string{
		"",
		"not-a-code",
		uuid.New().String() + ".WRONGSECRET",
		store.ID.String() + ".WRONGSECRET",
	}
	for _, presented := range cases {
		_, err := svc.VerifyCode(ctx, presented)
		appErr := apperrors.As(err)
		require.NotNil(t, appErr, "code %q", presented)
		assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code())
	}

	_, err = svc.SetStatus(ctx, store.ID, enums.StoreStatusInactive)
	require.NoError(t, err)
	_, err = svc.VerifyCode(ctx, authCode)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code(), "inactive store cannot authenticate")
}

func TestService_SetStatus(t *testing.T) {
	conn := setupStoreTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), &fakeRedeemer{office: activeOffice()})
	require.NoError(t, err)
	ctx := context.Background()

	store, _, err := svc.Join(ctx, JoinInput{InviteCode: "7-ABCD", Name: "Branch"})
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, store.ID, enums.StoreStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, enums.StoreStatusInactive, updated.Status)

	_, err = svc.SetStatus(ctx, store.ID, enums.StoreStatus("closed"))
	require.Error(t, err)

	_, err = svc.SetStatus(ctx, uuid.New(), enums.StoreStatusActive)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}
