package photostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/sirupsen/logrus"
	"repairshop.dev/photo-gateway/app/domain/photo"
	"repairshop.dev/photo-gateway/app/infrastructure/cache"
	"repairshop.dev/photo-gateway/app/utils/logger"
)

const (
	lockExpiry     = 20 * time.Second
	lockTries      = 40
	lockRetryDelay = 250 * time.Millisecond
)

type storedURL struct {
	URL      *string   `json:"url"`
	IssuedAt time.Time `json:"issued_at"`
}

// SharedFetcher puts a cross-replica tier in front of the backend. A URL
// minted by one replica is served by all of them until its fresh window ends,
// and a distributed lock keeps replicas from exchanging the same key at once.
// Scoped keys are stored per scope, so a URL fetched with one caller's
// credentials is only served back to that caller. Failures are never stored.
type SharedFetcher struct {
	store cache.CacheService
	next  photo.Fetcher
	now   func() time.Time
}

func NewSharedFetcher(store cache.CacheService, next photo.Fetcher) *SharedFetcher {
	return &SharedFetcher{store: store, next: next, now: time.Now}
}

func (s *SharedFetcher) Fetch(ctx context.Context, cfg photo.KindConfig, key photo.Key) (photo.Resolution, error) {
	if res, ok := s.lookup(ctx, cfg, key); ok {
		return res, nil
	}

	mutex := s.store.NewMutex(fmt.Sprintf(cache.PhotoLockKeyPattern, key.String()),
		redsync.WithExpiry(lockExpiry),
		redsync.WithTries(lockTries),
		redsync.WithRetryDelay(lockRetryDelay),
	)
	if mutex != nil {
		if err := mutex.LockContext(ctx); err != nil {
			logger.GetLogger().Debugf("photostore: fetching %s without lock: %v", key.Kind, err)
		} else {
			defer func() {
				if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
					logger.GetLogger().Debugf("photostore: unlock failed: %v", err)
				}
			}()
			// another replica may have finished while we waited
			if res, ok := s.lookup(ctx, cfg, key); ok {
				return res, nil
			}
		}
	}

	res, err := s.next.Fetch(ctx, cfg, key)
	if err != nil {
		return res, err
	}
	if res.IssuedAt.IsZero() {
		res.IssuedAt = s.now()
	}
	record := storedURL{URL: res.URL, IssuedAt: res.IssuedAt}
	if err := s.store.Set(ctx, storageKey(key), record, cfg.Fresh); err != nil {
		logger.GetLogger().WithFields(logrus.Fields{
			"kind":        key.Kind,
			"resource_id": key.ResourceID,
		}).Warnf("photostore: failed to store url: %v", err)
	}
	return res, nil
}

func (s *SharedFetcher) lookup(ctx context.Context, cfg photo.KindConfig, key photo.Key) (photo.Resolution, bool) {
	var record storedURL
	if err := s.store.Get(ctx, storageKey(key), &record); err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			logger.GetLogger().Warnf("photostore: lookup failed: %v", err)
		}
		return photo.Resolution{}, false
	}
	if record.IssuedAt.IsZero() || !s.now().Before(record.IssuedAt.Add(cfg.Fresh)) {
		return photo.Resolution{}, false
	}
	return photo.Resolution{URL: record.URL, IssuedAt: record.IssuedAt}, true
}

func (s *SharedFetcher) Forget(ctx context.Context, key photo.Key) error {
	key = key.Unscoped()
	if err := s.store.Delete(ctx, storageKey(key)); err != nil {
		return err
	}
	return s.store.DeletePattern(ctx, fmt.Sprintf(cache.PhotoResourceKeyPattern, key.ScopePrefix()))
}

func (s *SharedFetcher) ForgetResource(ctx context.Context, kind photo.Kind, resourceID string) error {
	prefix := photo.NewKey(kind, resourceID, "").ResourcePrefix()
	return s.store.DeletePattern(ctx, fmt.Sprintf(cache.PhotoResourceKeyPattern, prefix))
}

func (s *SharedFetcher) ForgetAll(ctx context.Context) error {
	return s.store.DeletePattern(ctx, cache.PhotoAllKeysPattern)
}

func storageKey(key photo.Key) string {
	return fmt.Sprintf(cache.PhotoURLKeyPattern, key.String())
}
