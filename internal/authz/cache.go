package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/models"
)

// watchedTables are the tables whose writes can change a resolved privilege set.
var watchedTables = map[string]struct{}{ //nolint:gochecknoglobals
	models.User{}.TableName():           {},
	models.Group{}.TableName():          {},
	models.Role{}.TableName():           {},
	models.RolePrivilege{}.TableName():  {},
	models.GroupRole{}.TableName():      {},
	models.GroupUser{}.TableName():      {},
	models.SystemFunction{}.TableName(): {},
}

// generationKey holds a token that changes on every invalidation. Replicas sharing
// a storage compare it around a fill, so a set read before another replica's
// commit is never kept.
const generationKey = "authz|generation"

// Cache keeps resolved privilege sets for a short time, keyed by username and company.
type Cache struct {
	storage    fiber.Storage
	ttl        time.Duration
	fills      singleflight.Group
	generation atomic.Uint64

	// mu orders storing a filled set against invalidation.
	mu sync.Mutex
}

// NewCache wraps a fiber storage. Entries expire after ttl.
func NewCache(storage fiber.Storage, ttl time.Duration) *Cache {
	c := &Cache{storage: storage, ttl: ttl}
	c.renewToken()

	return c
}

func cacheKey(username string, companyID uint) string {
	return username + "|" + strconv.FormatUint(uint64(companyID), 10)
}

// Get returns the cached set or fills it through load. Concurrent misses for the
// same key share one load, which runs detached from the caller's cancellation.
// A load that overlaps an invalidation is not stored.
func (c *Cache) Get(
	ctx context.Context,
	username string,
	companyID uint,
	load func(context.Context) (PrivilegeSet, error),
) (PrivilegeSet, error) {
	key := cacheKey(username, companyID)

	if raw, err := c.storage.Get(key); err == nil && len(raw) > 0 {
		var ids []uint
		if err = json.Unmarshal(raw, &ids); err == nil {
			cacheLookups.WithLabelValues("hit").Inc()

			held := make(PrivilegeSet, len(ids))
			for _, id := range ids {
				held[id] = struct{}{}
			}

			return held, nil
		}

		log.Warn().Err(err).Str("key", key).Msg("dropping unreadable privilege cache entry")
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("privilege cache read failed")
	}

	cacheLookups.WithLabelValues("miss").Inc()

	gen := c.generation.Load()
	fillCtx := context.WithoutCancel(ctx)

	ch := c.fills.DoChan(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		token := c.token()

		held, err := load(fillCtx)
		if err != nil {
			return nil, err
		}

		c.store(key, held, gen, token)

		return held, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err() //nolint:wrapcheck
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err //nolint:wrapcheck
		}

		return res.Val.(PrivilegeSet), nil //nolint:forcetypeassert
	}
}

// token reads the shared generation token. A missing token is replaced and
// reported as empty, which keeps the running fill from being stored.
func (c *Cache) token() []byte {
	raw, err := c.storage.Get(generationKey)
	if err != nil {
		log.Warn().Err(err).Msg("privilege cache generation read failed")

		return nil
	}

	if len(raw) == 0 {
		c.mu.Lock()
		c.renewToken()
		c.mu.Unlock()

		return nil
	}

	return raw
}

// store keeps held unless an invalidation happened since the fill read gen and token.
func (c *Cache) store(key string, held PrivilegeSet, gen uint64, token []byte) {
	if len(token) == 0 {
		return
	}

	raw, err := json.Marshal(held.IDs())
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation.Load() != gen || !c.sameToken(token) {
		return
	}

	if err = c.storage.Set(key, raw, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("privilege cache write failed")

		return
	}

	// another replica may have reset the storage between the check and the write.
	if !c.sameToken(token) {
		if err = c.storage.Delete(key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("privilege cache delete failed")
		}
	}
}

func (c *Cache) sameToken(token []byte) bool {
	current, err := c.storage.Get(generationKey)

	return err == nil && bytes.Equal(current, token)
}

// renewToken writes a fresh generation token. Callers hold mu once the cache is in use.
func (c *Cache) renewToken() {
	if err := c.storage.Set(generationKey, []byte(uuid.NewString()), 0); err != nil {
		log.Warn().Err(err).Msg("privilege cache generation write failed")
	}
}

// Invalidate drops every cached set, including those held for other replicas
// sharing the storage.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation.Add(1)
	cacheInvalidations.Inc()

	if err := c.storage.Reset(); err != nil {
		log.Error().Err(err).Msg("privilege cache reset failed")
	}

	c.renewToken()
}

// RegisterCallbacks invalidates the cache after every committed gorm create, update
// or delete on an authorization table. Writes inside a transaction invalidate when
// the transaction commits, so a fill that ran during it is discarded.
func (c *Cache) RegisterCallbacks(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().After("gorm:create").Register("authz:invalidate_on_create", c.afterWrite); err != nil {
		return fmt.Errorf("register create callback: %w", err)
	}

	if err := cb.Update().After("gorm:update").Register("authz:invalidate_on_update", c.afterWrite); err != nil {
		return fmt.Errorf("register update callback: %w", err)
	}

	if err := cb.Delete().After("gorm:delete").Register("authz:invalidate_on_delete", c.afterWrite); err != nil {
		return fmt.Errorf("register delete callback: %w", err)
	}

	if _, ok := db.Statement.ConnPool.(*commitPool); !ok {
		pool := &commitPool{ConnPool: db.Statement.ConnPool, cache: c}
		db.Statement.ConnPool = pool
		db.ConnPool = pool
	}

	return nil
}

func (c *Cache) afterWrite(tx *gorm.DB) {
	if tx.Error != nil {
		return
	}

	if _, ok := watchedTables[tx.Statement.Table]; !ok {
		return
	}

	if pending, ok := tx.Statement.ConnPool.(*commitTx); ok {
		pending.dirty.Store(true)

		return
	}

	c.Invalidate()
}

// Close releases the storage.
func (c *Cache) Close() error {
	return c.storage.Close() //nolint:wrapcheck
}
