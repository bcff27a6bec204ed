package main

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Saparbek-4/task-manager-pro/models"
)

func stubFindUser(user models.User) func(string) (models.User, error) {
	return func(username string) (models.User, error) {
		if username != user.Username {
			return models.User{}, fmt.Errorf("user %q not found", username)
		}
		return user, nil
	}
}

func TestIssueSessionPersistsOnlyRefresh(t *testing.T) {
	cfg = testConfig()
	store := newMemoryTokenStore()
	user := testUser()

	resp, err := issueSession(store, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if resp.UserID != user.ID || resp.Email != user.Email || resp.Role != user.Role {
		t.Fatalf("response = %+v", resp)
	}
	if _, err := store.FindByValue(resp.RefreshToken); err != nil {
		t.Fatalf("refresh token not persisted: %v", err)
	}
	if _, err := store.FindByValue(resp.AccessToken); !errors.Is(err, ErrTokenNotFound) {
		t.Fatal("access token was persisted, it must never be")
	}
	// The persisted record belongs to the issuing user.
	tokens, err := store.FindAllByUser(user.ID)
	if err != nil || len(tokens) != 1 {
		t.Fatalf("FindAllByUser: %v, %d records", err, len(tokens))
	}
}

func TestRotateSessionSingleUse(t *testing.T) {
	cfg = testConfig()
	store := newMemoryTokenStore()
	user := testUser()

	first, err := issueSession(store, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	second, err := rotateSession(store, stubFindUser(user), first.RefreshToken)
	if err != nil {
		t.Fatalf("first rotation: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("rotation returned the consumed token")
	}
	if _, err := store.FindByValue(first.RefreshToken); !errors.Is(err, ErrTokenNotFound) {
		t.Fatal("old refresh token still in store after rotation")
	}

	// Replaying the original value must fail even immediately after.
	if _, err := rotateSession(store, stubFindUser(user), first.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("replay: got %v, want ErrUnauthorized", err)
	}

	// The replacement stays usable.
	third, err := rotateSession(store, stubFindUser(user), second.RefreshToken)
	if err != nil {
		t.Fatalf("rotation of replacement: %v", err)
	}
	if _, err := store.FindByValue(third.RefreshToken); err != nil {
		t.Fatalf("new refresh token not persisted: %v", err)
	}
}

func TestRotateSessionConcurrentReplay(t *testing.T) {
	cfg = testConfig()
	store := newMemoryTokenStore()
	user := testUser()

	first, err := issueSession(store, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const n = 12
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rotateSession(store, stubFindUser(user), first.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("loser got %v, want ErrUnauthorized", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d of %d simultaneous rotations won, want exactly 1", wins, n)
	}
}

func TestRotateSessionRejectsBadInput(t *testing.T) {
	cfg = testConfig()
	store := newMemoryTokenStore()
	user := testUser()

	// Malformed value.
	if _, err := rotateSession(store, stubFindUser(user), "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("malformed: got %v, want ErrUnauthorized", err)
	}

	// Valid signature but the owning user no longer exists.
	resp, err := issueSession(store, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	noUser := func(string) (models.User, error) {
		return models.User{}, errors.New("not found")
	}
	if _, err := rotateSession(store, noUser, resp.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("missing user: got %v, want ErrUnauthorized", err)
	}

	// An access token presented as a refresh token.
	access, err := mintToken(user, tokenKindAccess)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := rotateSession(store, stubFindUser(user), access); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong kind: got %v, want ErrUnauthorized", err)
	}

	// An expired refresh token, even one still present in the store.
	cfg.RefreshTokenTTL = -time.Second
	expired, err := mintToken(user, tokenKindRefresh)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	if err := store.Save(&models.Token{Value: expired, UserID: user.ID}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := rotateSession(store, stubFindUser(user), expired); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired: got %v, want ErrUnauthorized", err)
	}
	// The expired record was not consumed; the sweeper owns its removal.
	if _, err := store.FindByValue(expired); err != nil {
		t.Fatalf("expired record vanished before sweep: %v", err)
	}
}
