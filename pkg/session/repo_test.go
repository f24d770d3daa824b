package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepoTest(t *testing.T) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedisRepo(rdb, "test:"), mr
}

// repoContract runs the behaviour every Repo implementation shares.
func repoContract(t *testing.T, repo Repo) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Add(ctx, &Record{Token: "t1", UserID: "u1", ExpiresAt: exp}))
	require.NoError(t, repo.Add(ctx, &Record{Token: "t2", UserID: "u1", ExpiresAt: exp}))
	require.NoError(t, repo.Add(ctx, &Record{Token: "t3", UserID: "u2", ExpiresAt: exp}))

	rec, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "u1", rec.UserID)
	require.Equal(t, "t1", rec.Token)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNoAuth)

	require.NoError(t, repo.Destroy(ctx, "t1"))
	_, err = repo.Get(ctx, "t1")
	require.ErrorIs(t, err, ErrNoAuth)
	require.NoError(t, repo.Destroy(ctx, "t1"), "destroy is idempotent")

	require.NoError(t, repo.DestroyAll(ctx, "u1"))
	_, err = repo.Get(ctx, "t2")
	require.ErrorIs(t, err, ErrNoAuth)

	rec, err = repo.Get(ctx, "t3")
	require.NoError(t, err)
	require.Equal(t, "u2", rec.UserID)
}

func TestMemoryRepo_Contract(t *testing.T) {
	repoContract(t, NewMemoryRepo(0))
}

func TestRedisRepo_Contract(t *testing.T) {
	repo, _ := newRedisRepoTest(t)
	repoContract(t, repo)
}

func TestMemoryRepo_ExpiredRecordIsNotReturned(t *testing.T) {
	repo := NewMemoryRepo(0)
	repo.now = func() time.Time { return testNow }
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &Record{Token: "old", UserID: "u", ExpiresAt: testNow.Add(-time.Second)}))
	_, err := repo.Get(ctx, "old")
	require.ErrorIs(t, err, ErrNoAuth)

	repo.Cleanup()
	require.Empty(t, repo.sessions)
	require.Empty(t, repo.userSessions)
}

func TestMemoryRepo_EvictsFirstExpiringWhenFull(t *testing.T) {
	repo := NewMemoryRepo(2)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Add(ctx, &Record{Token: "soon", UserID: "u", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, repo.Add(ctx, &Record{Token: "later", UserID: "u", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Add(ctx, &Record{Token: "new", UserID: "u", ExpiresAt: now.Add(2 * time.Hour)}))

	_, err := repo.Get(ctx, "soon")
	require.ErrorIs(t, err, ErrNoAuth)
	_, err = repo.Get(ctx, "later")
	require.NoError(t, err)
	_, err = repo.Get(ctx, "new")
	require.NoError(t, err)
}

func TestRedisRepo_RecordExpiresWithTTL(t *testing.T) {
	repo, mr := newRedisRepoTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &Record{Token: "t", UserID: "u", ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "t")
	require.ErrorIs(t, err, ErrNoAuth)
}

func TestRedisRepo_RejectsExpiredRecord(t *testing.T) {
	repo, _ := newRedisRepoTest(t)
	err := repo.Add(context.Background(), &Record{Token: "t", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)})
	require.Error(t, err)
}

func TestNewRepo(t *testing.T) {
	repo, err := NewRepo("", nil, nil, 0)
	require.NoError(t, err)
	require.IsType(t, &MemoryRepo{}, repo)

	_, err = NewRepo(StoreRedis, nil, nil, 0)
	require.Error(t, err)

	_, err = NewRepo(StorePostgres, nil, nil, 0)
	require.Error(t, err)

	_, err = NewRepo("mongo", nil, nil, 0)
	require.Error(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	repo, err = NewRepo(StoreRedis, nil, rdb, 0)
	require.NoError(t, err)
	require.IsType(t, &RedisRepo{}, repo)
}

func TestNewRepo_BoundsMemoryStore(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepo(StoreMemory, nil, nil, 2)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.Add(ctx, &Record{Token: "soon", UserID: "u", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, repo.Add(ctx, &Record{Token: "later", UserID: "u", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Add(ctx, &Record{Token: "latest", UserID: "u", ExpiresAt: now.Add(2 * time.Hour)}))

	_, err = repo.Get(ctx, "soon")
	require.ErrorIs(t, err, ErrNoAuth)
	_, err = repo.Get(ctx, "later")
	require.NoError(t, err)
	_, err = repo.Get(ctx, "latest")
	require.NoError(t, err)
}
