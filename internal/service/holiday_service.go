package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"holidaytracker/internal/cache"
	apperrors "holidaytracker/internal/errors"
	"holidaytracker/internal/model"
	"holidaytracker/internal/repository"
)

// HolidayService exposes owner-scoped holiday operations. Every method takes
// the caller's user id; records of other users behave as if absent.
type HolidayService interface {
	List(ctx context.Context, userID uint) ([]model.Holiday, error)
	Get(ctx context.Context, userID, id uint) (*model.Holiday, error)
	Create(ctx context.Context, userID uint, in model.HolidayInput) (*model.Holiday, error)
	Update(ctx context.Context, userID, id uint, patch model.HolidayPatch) (*model.Holiday, error)
	Delete(ctx context.Context, userID, id uint) error
}

type holidayService struct {
	repo     repository.HolidayRepository
	cache    Cache
	cacheTTL time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewHolidayService builds a HolidayService. The list of each user is cached
// for cacheTTL and dropped on every write by that user.
func NewHolidayService(repo repository.HolidayRepository, c Cache, cacheTTL time.Duration, log logrus.FieldLogger) HolidayService {
	if c == nil {
		c = NoCache
	}
	return &holidayService{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
		now:      time.Now,
	}
}

func (s *holidayService) List(ctx context.Context, userID uint) ([]model.Holiday, error) {
	// the generation is read before the store, so a list read concurrently
	// with a write lands under a retired key
	key, cacheable := s.listKey(ctx, userID)
	if cacheable {
		if data, _ := s.cache.Get(ctx, key); data != nil {
			var cached []model.Holiday
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			s.log.WithField("key", key).Warn("dropping undecodable cache entry")
			_ = s.cache.Delete(ctx, key)
		}
	}

	holidays, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}

	if cacheable {
		if payload, err := json.Marshal(holidays); err == nil {
			_ = s.cache.Set(ctx, key, payload, s.cacheTTL)
		}
	}
	return holidays, nil
}

// listKey returns the list key of the owner's current generation. Without a
// readable generation the list is not cached at all.
func (s *holidayService) listKey(ctx context.Context, userID uint) (string, bool) {
	gen, ok := s.cache.Counter(ctx, cache.HolidayGenerationKey(userID))
	if !ok {
		return "", false
	}
	return cache.HolidayListKey(userID, gen), true
}

func (s *holidayService) Get(ctx context.Context, userID, id uint) (*model.Holiday, error) {
	holiday, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "get holiday")
	}
	return holiday, nil
}

func (s *holidayService) Create(ctx context.Context, userID uint, in model.HolidayInput) (*model.Holiday, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		return nil, apperrors.ErrMissingHolidayFields
	}
	start, err := model.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, apperrors.ErrInvalidDateRange
	}

	holiday := &model.Holiday{
		Name:        in.Name,
		StartDate:   start,
		EndDate:     end,
		Description: in.Description,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, holiday); err != nil {
		// a valid token can outlive its user, e.g. after the data file is replaced
		if errors.Is(err, repository.ErrOwnerNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("create holiday: %w", err)
	}
	s.invalidate(ctx, userID)
	return holiday, nil
}

func (s *holidayService) Update(ctx context.Context, userID, id uint, patch model.HolidayPatch) (*model.Holiday, error) {
	holiday, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "get holiday")
	}

	if err := applyPatch(holiday, patch); err != nil {
		return nil, err
	}
	holiday.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, holiday); err != nil {
		return nil, notFound(err, "update holiday")
	}
	s.invalidate(ctx, userID)
	return holiday, nil
}

func (s *holidayService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return notFound(err, "delete holiday")
	}
	s.invalidate(ctx, userID)
	return nil
}

// applyPatch overwrites the fields present in patch and checks the merged range.
func applyPatch(h *model.Holiday, patch model.HolidayPatch) error {
	if patch.Name.Set {
		if patch.Name.Null || strings.TrimSpace(patch.Name.Value) == "" {
			return apperrors.ErrInvalidName
		}
		h.Name = patch.Name.Value
	}
	if patch.StartDate.Set {
		if patch.StartDate.Null {
			return apperrors.ErrInvalidDate
		}
		start, err := model.ParseDate(patch.StartDate.Value)
		if err != nil {
			return err
		}
		h.StartDate = start
	}
	if patch.EndDate.Set {
		if patch.EndDate.Null {
			return apperrors.ErrInvalidDate
		}
		end, err := model.ParseDate(patch.EndDate.Value)
		if err != nil {
			return err
		}
		h.EndDate = end
	}
	if patch.Description.Set {
		h.Description = patch.Description.Ptr()
	}

	if h.StartDate.After(h.EndDate) {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}

// invalidate retires every cached list of the owner by bumping its generation.
func (s *holidayService) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Incr(ctx, cache.HolidayGenerationKey(userID)); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("bump holiday list generation")
	}
}

func notFound(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrHolidayNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
