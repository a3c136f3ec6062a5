package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const userColumns = `id, email, password_hash, display_name, avatar_url, language, country, subscription_tier, subscription_expires_at, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a bcrypt password hash. Display name falls
// back to the local part of the email; language and country come from the
// geo middleware when the caller did not choose them.
func (s *UserService) Register(ctx context.Context, email, password, displayName, language, country string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = email
		if at := strings.Index(email, "@"); at > 0 {
			displayName = email[:at]
		}
	}
	if language == "" {
		language = "en"
	}
	if country == "" {
		country = "US"
	}

	var user models.User
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, display_name, language, country)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, email, string(hash), displayName, language, country).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL,
		&user.Language, &user.Country, &user.SubscriptionTier, &user.SubscriptionExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the email/password pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL,
		&user.Language, &user.Country, &user.SubscriptionTier, &user.SubscriptionExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the fields a user may edit about themselves. Nil
// fields are left untouched.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, language, country, avatarURL *string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE users SET
			display_name = COALESCE($1, display_name),
			language = COALESCE($2, language),
			country = COALESCE($3, country),
			avatar_url = COALESCE($4, avatar_url),
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+userColumns+`
	`, displayName, language, country, avatarURL, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL,
		&user.Language, &user.Country, &user.SubscriptionTier, &user.SubscriptionExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetSubscription updates the user's tier after a confirmed payment or a
// cancellation. The tier is only ever written as a side effect of an
// external confirmation, never computed here.
func (s *UserService) SetSubscription(ctx context.Context, id uuid.UUID, tier string, expiresAt *time.Time) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET subscription_tier = $1, subscription_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`, tier, expiresAt, id)
	return err
}

func (s *UserService) getByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL,
		&user.Language, &user.Country, &user.SubscriptionTier, &user.SubscriptionExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
