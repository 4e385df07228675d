// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrSessionNotFound = errors.New("session not found")
)

const cacheKey = "catalog:courses"

// Source provides course snapshots. The remote gateway implements it.
type Source interface {
	GetCourses(ctx context.Context) ([]CourseOffering, error)
	CheckQuota(ctx context.Context, sessionID string) (int, error)
}

// Cache stores the serialized catalog snapshot between page views.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service handles catalog lookups
type Service struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *logrus.Logger
}

// NewService creates a new catalog service. A nil cache or zero ttl disables caching.
func NewService(source Source, cache Cache, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// ListCourses returns the catalog filtered by location.
func (s *Service) ListCourses(ctx context.Context, location string) ([]CourseOffering, error) {
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByLocation(courses, location), nil
}

// Courses returns the full catalog, served from cache when fresh.
func (s *Service) Courses(ctx context.Context) ([]CourseOffering, error) {
	if courses, ok := s.cached(ctx); ok {
		return courses, nil
	}

	courses, err := s.source.GetCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}

	s.store(ctx, courses)
	return courses, nil
}

// FindSession resolves a course and one of its sessions from the snapshot.
func (s *Service) FindSession(ctx context.Context, courseID, sessionID string) (*CourseOffering, *SessionOffering, error) {
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, nil, err
	}

	for i := range courses {
		if courses[i].CourseID != courseID {
			continue
		}
		session, ok := courses[i].Session(sessionID)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return &courses[i], session, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
}

// CheckQuota reads the current remaining seats of a session from the backend, bypassing the cache.
func (s *Service) CheckQuota(ctx context.Context, sessionID string) (int, error) {
	remaining, err := s.source.CheckQuota(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to check quota: %w", err)
	}
	return remaining, nil
}

// Invalidate drops the cached snapshot, e.g. after an order changed seat counts.
func (s *Service) Invalidate(ctx context.Context) {
	if !s.caching() {
		return
	}
	if err := s.cache.Del(ctx, cacheKey); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate catalog cache")
	}
}

func (s *Service) caching() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *Service) cached(ctx context.Context) ([]CourseOffering, bool) {
	if !s.caching() {
		return nil, false
	}

	data, found, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		s.logger.WithError(err).Warn("Catalog cache read failed, falling back to gateway")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var courses []CourseOffering
	if err := json.Unmarshal(data, &courses); err != nil {
		s.logger.WithError(err).Warn("Catalog cache entry is corrupt, ignoring")
		return nil, false
	}
	return courses, true
}

func (s *Service) store(ctx context.Context, courses []CourseOffering) {
	if !s.caching() {
		return
	}

	data, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data, s.ttl); err != nil {
		s.logger.WithError(err).Warn("Catalog cache write failed")
	}
}
