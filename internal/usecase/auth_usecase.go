package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ekurt/clouddepo/internal/domain/entities"
	"github.com/ekurt/clouddepo/internal/domain/repository"
)

const minPasswordLength = 6

// TokenIssuer signs a session token for an authenticated user.
type TokenIssuer interface {
	Issue(user *entities.User) (string, error)
}

// AuthUsecase handles registration, login and profile management.
type AuthUsecase struct {
	users        repository.UserRepository
	tokens       TokenIssuer
	storageLimit int64
	logger       *log.Logger
}

// NewAuthUsecase creates the auth usecase. storageLimit is the byte
// budget assigned to newly registered users.
func NewAuthUsecase(users repository.UserRepository, tokens TokenIssuer, storageLimit int64) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		tokens:       tokens,
		storageLimit: storageLimit,
		logger:       log.New(os.Stdout, "[Auth] ", log.LstdFlags),
	}
}

// Register creates an account and returns it with a session token.
// Username and email must be unused; duplicates surface as ErrConflict.
func (u *AuthUsecase) Register(ctx context.Context, username, email, password string) (*entities.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" {
		return nil, "", fmt.Errorf("username and email are required: %w", entities.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, entities.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entities.RoleUser,
		IsActive:     true,
		StorageLimit: u.storageLimit,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	u.logger.Printf("Registered user %s (id %d)", user.Username, user.ID)
	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh
// token. Unknown email, wrong password and deactivated accounts all
// yield ErrInvalidCredentials so callers cannot probe which it was.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, "", entities.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", entities.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", entities.ErrInvalidCredentials
	}

	if err := u.users.TouchLastLogin(ctx, user.ID); err != nil {
		u.logger.Printf("Failed to record last login for user %d: %v", user.ID, err)
	}

	token, err := u.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// Profile returns the account for the given id.
func (u *AuthUsecase) Profile(ctx context.Context, userID int64) (*entities.User, error) {
	return u.users.GetByID(ctx, userID)
}

// UpdateProfile changes the account email, keeping it unique.
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, email string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", entities.ErrInvalidInput)
	}

	if err := u.users.UpdateProfile(ctx, userID, email); err != nil {
		return nil, err
	}
	return u.users.GetByID(ctx, userID)
}

// ChangePassword rotates the password after checking the current one.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, entities.ErrInvalidInput)
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return entities.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return u.users.UpdatePassword(ctx, userID, string(hash))
}
