package authz_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/db/controller/role"
	"github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/db/dbtest"
	"github.com/complyhub/complyhub/internal/db/models"
)

// countingStore counts graph loads.
type countingStore struct {
	authz.Store
	loads atomic.Int32
}

func (s *countingStore) Graph(ctx context.Context, userID uint64, companyID uint) (authz.Graph, error) {
	s.loads.Add(1)

	return s.Store.Graph(ctx, userID, companyID) //nolint:wrapcheck
}

func newCachedResolver(t *testing.T, f *fixture) (*authz.Resolver, *countingStore) {
	t.Helper()

	cache := authz.NewCache(memory.New(), time.Minute)
	require.NoError(t, cache.RegisterCallbacks(f.db))

	store := &countingStore{Store: authz.NewGormStore(f.db)}

	return authz.New(store, authz.WithCache(cache)), store
}

func TestCacheReusesSet(t *testing.T) {
	f := newFixture(t)
	resolver, store := newCachedResolver(t, f)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole))
	}

	assert.Equal(t, int32(1), store.loads.Load())
}

func TestCacheInvalidatedByGrant(t *testing.T) {
	f := newFixture(t)
	resolver, store := newCachedResolver(t, f)
	ctx := context.Background()

	require.ErrorIs(t, resolver.Authorize(ctx, "alice", authz.CanDeleteRole), authz.ErrNotAuthorized)

	_, err := role.AddSystemFunction(f.db, 7, "Editor", authz.CanDeleteRole)
	require.NoError(t, err)

	require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanDeleteRole))
	assert.Equal(t, int32(2), store.loads.Load())
}

func TestCacheInvalidatedByRevocation(t *testing.T) {
	f := newFixture(t)
	resolver, _ := newCachedResolver(t, f)
	ctx := context.Background()

	require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole))
	require.NoError(t, role.Delete(f.db, 7, "Editor"))
	require.ErrorIs(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole), authz.ErrNotAuthorized)
}

func TestCacheNeverHidesDeactivation(t *testing.T) {
	f := newFixture(t)
	resolver, _ := newCachedResolver(t, f)
	ctx := context.Background()

	require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole))

	_, err := user.Deactivate(f.db, 7, "alice")
	require.NoError(t, err)

	require.ErrorIs(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole), authz.ErrNotAuthorized)
}

func TestCacheIgnoresUnrelatedTables(t *testing.T) {
	f := newFixture(t)
	resolver, store := newCachedResolver(t, f)
	ctx := context.Background()

	require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole))
	require.NoError(t, f.db.Create(&models.Setting{Name: "token_secret", Value: []byte("x")}).Error)
	require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole))

	assert.Equal(t, int32(1), store.loads.Load())
}

func TestCacheConcurrentMisses(t *testing.T) {
	f := newFixture(t)
	resolver, _ := newCachedResolver(t, f)
	ctx := context.Background()

	var wg sync.WaitGroup

	errs := make(chan error, 16)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			errs <- resolver.Authorize(ctx, "alice", authz.CanCreateRole)
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestCacheRevocationCommittedDuringFill(t *testing.T) {
	f := newFixtureOn(t, dbtest.NewFile(t))
	resolver, store := newCachedResolver(t, f)
	ctx := context.Background()

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", uint(7)).Delete(&models.RolePrivilege{}).Error; err != nil {
			return err
		}

		// a resolve on another connection still reads the committed grant and caches it
		done := make(chan error, 1)

		go func() {
			done <- resolver.Authorize(ctx, "alice", authz.CanCreateRole)
		}()

		return <-done
	})
	require.NoError(t, err)
	require.Equal(t, int32(1), store.loads.Load())

	require.ErrorIs(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole), authz.ErrNotAuthorized)
	assert.Equal(t, int32(2), store.loads.Load())
}

func TestCacheKeptWhenTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	resolver, store := newCachedResolver(t, f)
	ctx := context.Background()
	errAbort := errors.New("abort")

	require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole))

	err := f.db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, tx.Where("company_id = ?", uint(7)).Delete(&models.RolePrivilege{}).Error)

		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	require.NoError(t, resolver.Authorize(ctx, "alice", authz.CanCreateRole))
	assert.Equal(t, int32(1), store.loads.Load())

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestCacheSharedStorageAcrossReplicas(t *testing.T) {
	storage := memory.New()
	local := authz.NewCache(storage, time.Minute)
	remote := authz.NewCache(storage, time.Minute)
	ctx := context.Background()

	var loads atomic.Int32

	load := func(context.Context) (authz.PrivilegeSet, error) {
		if loads.Add(1) == 1 {
			// the other replica commits a revocation while this fill reads
			remote.Invalidate()
		}

		return authz.PrivilegeSet{3: {}}, nil
	}

	for range 3 {
		held, err := local.Get(ctx, "alice", 7, load)
		require.NoError(t, err)
		assert.True(t, held.Has(3))
	}

	assert.Equal(t, int32(2), loads.Load())

	remote.Invalidate()

	_, err := local.Get(ctx, "alice", 7, load)
	require.NoError(t, err)
	assert.Equal(t, int32(3), loads.Load())
}

func TestCacheFillOutlivesCancelledCaller(t *testing.T) {
	cache := authz.NewCache(memory.New(), time.Minute)
	entered := make(chan struct{})
	release := make(chan struct{})

	var loads atomic.Int32

	load := func(ctx context.Context) (authz.PrivilegeSet, error) {
		if loads.Add(1) == 1 {
			close(entered)
		}

		select {
		case <-release:
			return authz.PrivilegeSet{3: {}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)

	go func() {
		_, err := cache.Get(first, "alice", 7, load)
		firstErr <- err
	}()

	<-entered

	type result struct {
		held authz.PrivilegeSet
		err  error
	}

	second := make(chan result, 1)

	go func() {
		held, err := cache.Get(context.Background(), "alice", 7, load)
		second <- result{held, err}
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	// give the second caller time to join the running fill
	time.Sleep(50 * time.Millisecond)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.True(t, res.held.Has(3))
	assert.Equal(t, int32(1), loads.Load())
}
