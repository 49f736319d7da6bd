// Package services contains server-side business logic. This file
// implements UserService, which handles registration, credential checks
// and issuing the opaque bearer tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"unicode"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/config"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUserNameLength = 150
	minPasswordLength = 8
)

// UserService provides authentication-related operations:
// - Register: create a user and its token
// - Login: verify basic credentials
// - IssueToken: return the user's token, minting one if absent
// - UserByToken: resolve a presented token to its owner
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bcryptCost  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{db: db, repomanager: m, bcryptCost: cfg.BcryptCost}
}

// Register validates the registration fields, creates the user and mints
// its token inside one transaction. Field problems come back as
// *common.ValidationError.
func (s *UserService) Register(ctx context.Context, userName, email, password string) (*models.User, string, error) {
	if err := s.validateRegistration(ctx, userName, email, password); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
	}
	key, err := common.MakeRandHexString(common.TokenKeyByteLength)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				// Lost the race against a concurrent registration; the
				// unique indexes are the authoritative guard.
				return common.NewValidationError("non_field_errors", "A user with this username or email already exists.")
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		return s.repomanager.Tokens(tx).Create(ctx, user.ID, key)
	}); err != nil {
		return nil, "", err
	}

	return user, key, nil
}

// Login verifies the username/password pair and returns the matching user.
// Unknown users and wrong passwords are both common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// IssueToken returns the existing token for userID or mints a new one.
func (s *UserService) IssueToken(ctx context.Context, userID string) (string, error) {
	repo := s.repomanager.Tokens(s.db)

	token, err := repo.FindByUser(ctx, userID)
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("error loading token: %w", err)
	}

	key, err := common.MakeRandHexString(common.TokenKeyByteLength)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	if err := repo.Create(ctx, userID, key); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			// Another request minted the token first; reuse it.
			if token, err := repo.FindByUser(ctx, userID); err == nil {
				return token.Key, nil
			}
		}
		return "", fmt.Errorf("error creating token: %w", err)
	}
	return key, nil
}

// RevokeToken deletes the presented token key, ending the session.
// Revoking a key that is already gone is not an error; the next login
// mints a fresh one either way.
func (s *UserService) RevokeToken(ctx context.Context, key string) error {
	if err := s.repomanager.Tokens(s.db).Delete(ctx, key); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	return nil
}

// UserByToken resolves the presented token key to its owning user.
// Unknown keys yield common.ErrInvalidToken.
func (s *UserService) UserByToken(ctx context.Context, key string) (*models.User, error) {
	token, err := s.repomanager.Tokens(s.db).Find(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error loading token: %w", err)
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// --- helpers below ---

func (s *UserService) validateRegistration(ctx context.Context, userName, email, password string) error {
	ve := &common.ValidationError{}

	switch {
	case userName == "":
		ve.Add("username", "This field is required.")
	case len(userName) > maxUserNameLength:
		ve.Add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", maxUserNameLength))
	default:
		if _, err := s.repomanager.Users(s.db).GetByUserName(ctx, userName); err == nil {
			ve.Add("username", "This username is already taken.")
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking username: %w", err)
		}
	}

	switch {
	case email == "":
		ve.Add("email", "This field is required.")
	case !isValidEmail(email):
		ve.Add("email", "Enter a valid email address.")
	default:
		if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, email); err == nil {
			ve.Add("email", "This email is already registered.")
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}
	}

	switch {
	case password == "":
		ve.Add("password", "This field is required.")
	case len(password) < minPasswordLength:
		ve.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	case isEntirelyNumeric(password):
		ve.Add("password", "This password is entirely numeric.")
	}

	if !ve.Empty() {
		return ve
	}
	return nil
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
