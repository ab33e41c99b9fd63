// Package memory keeps users and their inboxes in process memory.
// Each method holds the store lock for its whole duration, which gives every
// call the same single-record atomicity the Postgres store has.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"inbox_service/internal/models"
	"inbox_service/internal/storage"

	"github.com/google/uuid"
)

type record struct {
	user     models.User
	messages []models.Message
}

type Store struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*record
	now    func() time.Time
}

func New() *Store {
	return &Store{
		users: make(map[int64]*record),
		now:   time.Now,
	}
}

func (s *Store) findLocked(match func(models.User) bool) *record {
	// lowest id wins so lookups are deterministic
	var found *record
	for _, rec := range s.users {
		if match(rec.user) && (found == nil || rec.user.ID < found.user.ID) {
			found = rec
		}
	}
	return found
}

func (s *Store) SaveUser(_ context.Context, user models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := s.findLocked(func(u models.User) bool {
		return u.Username == user.Username || u.Email == user.Email
	})
	if dup != nil {
		return 0, storage.ErrUserExists
	}

	s.nextID++
	user.ID = s.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = &record{user: user}

	return user.ID, nil
}

func (s *Store) UpdateUnverifiedUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[user.ID]
	if !ok || rec.user.IsVerified {
		return storage.ErrUserNotFound
	}

	rec.user.PassHash = user.PassHash
	rec.user.VerifyCode = user.VerifyCode
	rec.user.VerifyCodeExpiry = user.VerifyCodeExpiry

	return nil
}

func (s *Store) lookup(match func(models.User) bool) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findLocked(match)
	if rec == nil {
		return models.User{}, storage.ErrUserNotFound
	}

	return rec.user, nil
}

func (s *Store) UserByIdentifier(_ context.Context, identifier string) (models.User, error) {
	return s.lookup(func(u models.User) bool {
		return u.Email == identifier || u.Username == identifier
	})
}

func (s *Store) UserByUsername(_ context.Context, username string) (models.User, error) {
	return s.lookup(func(u models.User) bool { return u.Username == username })
}

func (s *Store) UserByEmail(_ context.Context, email string) (models.User, error) {
	return s.lookup(func(u models.User) bool { return u.Email == email })
}

func (s *Store) UserByID(_ context.Context, id int64) (models.User, error) {
	return s.lookup(func(u models.User) bool { return u.ID == id })
}

func (s *Store) SetVerified(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}

	rec.user.IsVerified = true
	rec.user.VerifyCode = ""

	return nil
}

func (s *Store) AcceptingMessages(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return false, storage.ErrUserNotFound
	}

	return rec.user.IsAcceptingMessages, nil
}

func (s *Store) SetAcceptingMessages(_ context.Context, id int64, accepting bool) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	rec.user.IsAcceptingMessages = accepting

	return rec.user, nil
}

func (s *Store) AddMessage(_ context.Context, userID int64, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}

	rec.messages = append(rec.messages, msg)

	return nil
}

// Messages returns the inbox in insertion order.
func (s *Store) Messages(_ context.Context, userID int64) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return []models.Message{}, nil
	}

	return slices.Clone(rec.messages), nil
}

func (s *Store) DeleteMessage(_ context.Context, userID int64, messageID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return storage.ErrMessageNotFound
	}

	idx := slices.IndexFunc(rec.messages, func(m models.Message) bool { return m.ID == messageID })
	if idx < 0 {
		return storage.ErrMessageNotFound
	}

	rec.messages = slices.Delete(rec.messages, idx, idx+1)

	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrUserNotFound
	}

	delete(s.users, id)

	return nil
}

func (s *Store) Close() {}
