package main

import (
	"errors"
	"sync"

	"github.com/Saparbek-4/task-manager-pro/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenConflict = errors.New("token value already exists")
)

// TokenStore is the durable record of issued refresh tokens. It is the only
// shared mutable state in the auth core; Consume is the single serialization
// point for rotation.
type TokenStore interface {
	// Save inserts a record; ErrTokenConflict if the value already exists.
	Save(t *models.Token) error
	// FindByValue looks a record up by its exact signed value.
	FindByValue(value string) (*models.Token, error)
	// FindAllByUser returns every record owned by the user.
	FindAllByUser(userID uuid.UUID) ([]models.Token, error)
	// Delete removes a record by value. Deleting a missing record is not an
	// error; the sweeper and logout both rely on that.
	Delete(value string) error
	// Consume atomically removes the record if it is still present and
	// returns ErrTokenNotFound otherwise. Of N concurrent calls with the
	// same value exactly one succeeds.
	Consume(value string) error
	// All returns a snapshot of every record, safe to iterate while
	// deletions happen.
	All() ([]models.Token, error)
}

// gormTokenStore persists records in the refresh-token table.
type gormTokenStore struct {
	db *gorm.DB
}

func newGormTokenStore(db *gorm.DB) *gormTokenStore {
	return &gormTokenStore{db: db}
}

func (s *gormTokenStore) Save(t *models.Token) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Kind == "" {
		t.Kind = models.KindBearer
	}
	if err := s.db.Create(t).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrTokenConflict
		}
		return err
	}
	return nil
}

func (s *gormTokenStore) FindByValue(value string) (*models.Token, error) {
	var t models.Token
	if err := s.db.Where("value = ?", value).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *gormTokenStore) FindAllByUser(userID uuid.UUID) ([]models.Token, error) {
	var tokens []models.Token
	if err := s.db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *gormTokenStore) Delete(value string) error {
	return s.db.Where("value = ?", value).Delete(&models.Token{}).Error
}

func (s *gormTokenStore) Consume(value string) error {
	// Single conditional DELETE; the row count decides the race.
	res := s.db.Where("value = ?", value).Delete(&models.Token{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (s *gormTokenStore) All() ([]models.Token, error) {
	var tokens []models.Token
	if err := s.db.Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// memoryTokenStore keeps records in a map behind a mutex. It satisfies the
// same contract as the GORM store and backs the unit tests.
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.Token
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]models.Token)}
}

func (s *memoryTokenStore) Save(t *models.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tokens[t.Value]; exists {
		return ErrTokenConflict
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Kind == "" {
		t.Kind = models.KindBearer
	}
	s.tokens[t.Value] = *t
	return nil
}

func (s *memoryTokenStore) FindByValue(value string) (*models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[value]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return &t, nil
}

func (s *memoryTokenStore) FindAllByUser(userID uuid.UUID) ([]models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Token
	for _, t := range s.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memoryTokenStore) Delete(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, value)
	return nil
}

func (s *memoryTokenStore) Consume(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[value]; !ok {
		return ErrTokenNotFound
	}
	delete(s.tokens, value)
	return nil
}

func (s *memoryTokenStore) All() ([]models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Token, 0, len(s.tokens))
	for _, t := range s.tokens {
		out = append(out, t)
	}
	return out, nil
}
