package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"holidaytracker/internal/model"
)

// ErrStoreClosed is returned by FileStore operations after Close.
var ErrStoreClosed = errors.New("file store closed")

// FileStore keeps users and holidays in a single JSON document. Each operation
// re-reads the file and writes it back atomically under one mutex.
type FileStore struct {
	path   string
	mu     sync.Mutex
	closed bool
	now    func() time.Time
}

type fileDocument struct {
	Users     []fileUser    `json:"users"`
	Holidays  []fileHoliday `json:"holidays"`
	Sequences fileSequences `json:"sequences"`
}

// fileSequences holds the last issued ids so deleted ids are never reused.
type fileSequences struct {
	Users    uint `json:"users"`
	Holidays uint `json:"holidays"`
}

type fileUser struct {
	ID        uint     `json:"id"`
	Email     string   `json:"email"`
	Name      *string  `json:"name,omitempty"`
	Password  string   `json:"password"`
	CreatedAt fileTime `json:"createdAt"`
	UpdatedAt fileTime `json:"updatedAt"`
}

type fileHoliday struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	StartDate   fileTime `json:"startDate"`
	EndDate     fileTime `json:"endDate"`
	Description *string  `json:"description,omitempty"`
	UserID      uint     `json:"userId"`
	CreatedAt   fileTime `json:"createdAt"`
	UpdatedAt   fileTime `json:"updatedAt"`
}

// fileTime reads both calendar dates and RFC 3339 timestamps and always writes
// RFC 3339 in UTC.
type fileTime time.Time

func (t fileTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *fileTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = fileTime{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*t = fileTime{}
		return nil
	}
	parsed, err := model.ParseDate(raw)
	if err != nil {
		return err
	}
	*t = fileTime(parsed)
	return nil
}

// NewFileStore opens (creating if needed) the JSON document at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(&fileDocument{Users: []fileUser{}, Holidays: []fileHoliday{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

// Users returns the user repository view of the store.
func (s *FileStore) Users() UserRepository { return fileUsers{s} }

// Holidays returns the holiday repository view of the store.
func (s *FileStore) Holidays() HolidayRepository { return fileHolidays{s} }

// Ping checks that the document is still readable.
func (s *FileStore) Ping(ctx context.Context) error {
	return s.view(ctx, func(*fileDocument) error { return nil })
}

// Close marks the store closed. Every write is already on disk.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) view(ctx context.Context, fn func(*fileDocument) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	doc, err := s.read()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *FileStore) update(ctx context.Context, fn func(*fileDocument) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *FileStore) read() (*fileDocument, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode data file %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = []fileUser{}
	}
	if doc.Holidays == nil {
		doc.Holidays = []fileHoliday{}
	}
	return &doc, nil
}

func (s *FileStore) write(doc *fileDocument) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func nextID(last *uint, existing uint) uint {
	id := max(*last, existing) + 1
	*last = id
	return id
}

type fileUsers struct{ s *FileStore }

func (r fileUsers) Create(ctx context.Context, user *model.User) error {
	return r.s.update(ctx, func(doc *fileDocument) error {
		var highest uint
		for _, u := range doc.Users {
			if u.Email == user.Email {
				return fmt.Errorf("create user %q: %w", user.Email, ErrDuplicate)
			}
			highest = max(highest, u.ID)
		}
		now := r.s.now().UTC()
		user.ID = nextID(&doc.Sequences.Users, highest)
		user.CreatedAt, user.UpdatedAt = now, now
		doc.Users = append(doc.Users, fileUser{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Password:  user.PasswordHash,
			CreatedAt: fileTime(now),
			UpdatedAt: fileTime(now),
		})
		return nil
	})
}

func (r fileUsers) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.find(ctx, func(u fileUser) bool { return u.ID == id })
}

func (r fileUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u fileUser) bool { return u.Email == email })
}

func (r fileUsers) find(ctx context.Context, match func(fileUser) bool) (*model.User, error) {
	var found *model.User
	err := r.s.view(ctx, func(doc *fileDocument) error {
		for _, u := range doc.Users {
			if match(u) {
				found = u.toModel()
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (u fileUser) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.Password,
		CreatedAt:    time.Time(u.CreatedAt),
		UpdatedAt:    time.Time(u.UpdatedAt),
	}
}

type fileHolidays struct{ s *FileStore }

func (r fileHolidays) Create(ctx context.Context, holiday *model.Holiday) error {
	return r.s.update(ctx, func(doc *fileDocument) error {
		if !hasUser(doc, holiday.UserID) {
			return fmt.Errorf("create holiday for user %d: %w", holiday.UserID, ErrOwnerNotFound)
		}
		var highest uint
		for _, h := range doc.Holidays {
			highest = max(highest, h.ID)
		}
		now := r.s.now().UTC()
		holiday.ID = nextID(&doc.Sequences.Holidays, highest)
		holiday.CreatedAt, holiday.UpdatedAt = now, now
		doc.Holidays = append(doc.Holidays, fromHoliday(holiday))
		return nil
	})
}

func (r fileHolidays) ListByUser(ctx context.Context, userID uint) ([]model.Holiday, error) {
	holidays := []model.Holiday{}
	err := r.s.view(ctx, func(doc *fileDocument) error {
		for _, h := range doc.Holidays {
			if h.UserID == userID {
				holidays = append(holidays, h.toModel())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(holidays, func(i, j int) bool {
		if !holidays[i].StartDate.Equal(holidays[j].StartDate) {
			return holidays[i].StartDate.Before(holidays[j].StartDate)
		}
		return holidays[i].ID < holidays[j].ID
	})
	return holidays, nil
}

func (r fileHolidays) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Holiday, error) {
	var found *model.Holiday
	err := r.s.view(ctx, func(doc *fileDocument) error {
		idx := indexOwned(doc, id, userID)
		if idx < 0 {
			return ErrNotFound
		}
		h := doc.Holidays[idx].toModel()
		found = &h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r fileHolidays) Update(ctx context.Context, holiday *model.Holiday) error {
	return r.s.update(ctx, func(doc *fileDocument) error {
		idx := indexOwned(doc, holiday.ID, holiday.UserID)
		if idx < 0 {
			return ErrNotFound
		}
		updated := fromHoliday(holiday)
		updated.CreatedAt = doc.Holidays[idx].CreatedAt
		doc.Holidays[idx] = updated
		return nil
	})
}

func (r fileHolidays) Delete(ctx context.Context, id, userID uint) error {
	return r.s.update(ctx, func(doc *fileDocument) error {
		idx := indexOwned(doc, id, userID)
		if idx < 0 {
			return ErrNotFound
		}
		// keep the sequence at or above the deleted id
		doc.Sequences.Holidays = max(doc.Sequences.Holidays, highestHolidayID(doc))
		doc.Holidays = append(doc.Holidays[:idx], doc.Holidays[idx+1:]...)
		return nil
	})
}

func hasUser(doc *fileDocument, id uint) bool {
	for _, u := range doc.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func indexOwned(doc *fileDocument, id, userID uint) int {
	for i, h := range doc.Holidays {
		if h.ID == id && h.UserID == userID {
			return i
		}
	}
	return -1
}

func highestHolidayID(doc *fileDocument) uint {
	var highest uint
	for _, h := range doc.Holidays {
		highest = max(highest, h.ID)
	}
	return highest
}

func fromHoliday(h *model.Holiday) fileHoliday {
	return fileHoliday{
		ID:          h.ID,
		Name:        h.Name,
		StartDate:   fileTime(h.StartDate),
		EndDate:     fileTime(h.EndDate),
		Description: h.Description,
		UserID:      h.UserID,
		CreatedAt:   fileTime(h.CreatedAt),
		UpdatedAt:   fileTime(h.UpdatedAt),
	}
}

func (h fileHoliday) toModel() model.Holiday {
	return model.Holiday{
		ID:          h.ID,
		Name:        h.Name,
		StartDate:   time.Time(h.StartDate).UTC(),
		EndDate:     time.Time(h.EndDate).UTC(),
		Description: h.Description,
		UserID:      h.UserID,
		CreatedAt:   time.Time(h.CreatedAt).UTC(),
		UpdatedAt:   time.Time(h.UpdatedAt).UTC(),
	}
}
