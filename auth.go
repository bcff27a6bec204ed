package main

import (
	"errors"
	"strings"

	"github.com/Saparbek-4/task-manager-pro/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken means the registration email already maps to a user.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike, so a caller cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is the single failure every refresh problem collapses
	// into: bad signature, wrong kind, expiry, unknown user, or replay.
	ErrUnauthorized = errors.New("unauthorized")
)

// AuthResponse is the session pair returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"userId"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
}

// RegisterUser creates a new USER-role account with a bcrypt-hashed password.
func RegisterUser(username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return models.User{}, errors.New("username and email required")
	}
	if len(password) < 6 { // basic password policy
		return models.User{}, errors.New("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return models.User{}, ErrEmailTaken
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate checks an email/password pair against the stored hash.
func Authenticate(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// issueSession mints an access/refresh pair for the user and persists the
// refresh token. Access tokens are never persisted.
func issueSession(store TokenStore, user models.User) (*AuthResponse, error) {
	accessToken, err := mintToken(user, tokenKindAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, err := mintToken(user, tokenKindRefresh)
	if err != nil {
		return nil, err
	}
	record := models.Token{
		Value:  refreshToken,
		Kind:   models.KindBearer,
		UserID: user.ID,
	}
	if err := store.Save(&record); err != nil {
		return nil, err
	}
	return &AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}

// rotateSession exchanges a current refresh token for a new pair. A refresh
// token is single-use: once consumed, replays of the same value fail. The old
// record is gone before the new pair exists; a crash in between loses the
// session lineage and the user re-authenticates.
func rotateSession(store TokenStore, findUser func(username string) (models.User, error), oldValue string) (*AuthResponse, error) {
	username, err := extractSubject(oldValue)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := findUser(username)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if _, err := validateToken(oldValue, tokenKindRefresh); err != nil {
		return nil, ErrUnauthorized
	}
	// Replay defense: exactly one concurrent caller gets the delete.
	if err := store.Consume(oldValue); err != nil {
		return nil, ErrUnauthorized
	}
	return issueSession(store, user)
}

func findUserByUsername(username string) (models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
