package services

import (
	"context"
	"testing"
	"time"

	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumnList = []string{
	"id", "email", "password_hash", "display_name", "avatar_url",
	"language", "country", "subscription_tier", "subscription_expires_at", "created_at", "updated_at",
}

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewUserService(db), mock
}

func userRow(id uuid.UUID, email, hash, displayName string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userColumnList).
		AddRow(id, email, hash, displayName, (*string)(nil), "en", "US", models.TierFree, (*time.Time)(nil), now, now)
}

func TestUserService_Register_DefaultsDisplayNameFromEmail(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("jane@example.com", pgxmock.AnyArg(), "jane", "en", "US").
		WillReturnRows(userRow(userID, "jane@example.com", "hash", "jane"))

	user, err := svc.Register(ctx, "jane@example.com", "super-secret", "", "", "")

	require.NoError(t, err)
	assert.Equal(t, "jane", user.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_KeepsProvidedProfile(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("li@example.com", pgxmock.AnyArg(), "Li Wei", "zh", "CN").
		WillReturnRows(userRow(userID, "li@example.com", "hash", "Li Wei"))

	_, err := svc.Register(ctx, "li@example.com", "super-secret", "Li Wei", "zh", "CN")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("dup@example.com", pgxmock.AnyArg(), "dup", "en", "US").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := svc.Register(ctx, "dup@example.com", "super-secret", "", "", "")

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Authenticate_Success(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("jane@example.com").
		WillReturnRows(userRow(userID, "jane@example.com", string(hash), "jane"))

	user, err := svc.Authenticate(ctx, "jane@example.com", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("jane@example.com").
		WillReturnRows(userRow(uuid.New(), "jane@example.com", string(hash), "jane"))

	_, err = svc.Authenticate(ctx, "jane@example.com", "battery-staple")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Authenticate_UnknownEmailSameError(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Authenticate(ctx, "ghost@example.com", "whatever-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(ctx, id)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile_PartialFields(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	displayName := "New Name"

	mock.ExpectQuery(`UPDATE users SET`).
		WithArgs(&displayName, (*string)(nil), (*string)(nil), (*string)(nil), userID).
		WillReturnRows(userRow(userID, "jane@example.com", "hash", "New Name"))

	user, err := svc.UpdateProfile(ctx, userID, &displayName, nil, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "New Name", user.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetSubscription(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	expires := time.Now().AddDate(0, 1, 0)

	mock.ExpectExec(`UPDATE users SET subscription_tier`).
		WithArgs(models.TierMonthly, &expires, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, svc.SetSubscription(ctx, userID, models.TierMonthly, &expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}
