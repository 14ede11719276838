package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"proxyconf/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Connect(filepath.Join(t.TempDir(), "profiles.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { Close(db) })
	return New(db)
}

func strPtr(s string) *string { return &s }

func sample(id, name string) model.Proxy {
	return model.Proxy{
		ID:         id,
		Type:       model.ProxyTypeShadowsocks,
		Name:       name,
		Host:       "1.2.3.4",
		Port:       8388,
		Authscheme: strPtr("aes-256-cfb"),
		Password:   strPtr("secret"),
		OTA:        true,
	}
}

func TestStore_UpsertInserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := sample("id-1", "Home")
	require.NoError(t, s.Upsert(ctx, &p))
	assert.False(t, p.CreatedAt.IsZero(), "timestamps are copied back on commit")

	got, err := s.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Name)
	assert.Equal(t, "aes-256-cfb", *got.Authscheme)
	assert.Equal(t, "secret", *got.Password)
	assert.Nil(t, got.User)
	assert.True(t, got.OTA)

	ok, err := s.Exists(ctx, "Home")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, " Home ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "home")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := sample("id-1", "Home")
	require.NoError(t, s.Upsert(ctx, &p))

	p.Name = "Office"
	p.Port = 443
	p.OTA = false
	p.Password = strPtr("changed")
	require.NoError(t, s.Upsert(ctx, &p))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetByName(ctx, "Office")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, 443, got.Port)
	assert.False(t, got.OTA)
	assert.Equal(t, "changed", *got.Password)

	_, err = s.GetByName(ctx, "Home")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DuplicateNameFailsAtomically(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := sample("id-1", "Home")
	require.NoError(t, s.Upsert(ctx, &first))

	dup := sample("id-2", "Home")
	before := dup
	err := s.Upsert(ctx, &dup)
	require.Error(t, err)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "save", se.Op)
	assert.Contains(t, err.Error(), "failed to save profile")
	assert.Equal(t, before, dup, "caller's profile is untouched on failure")

	_, err = s.Get(ctx, "id-2")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStore_UpsertRequiresID(t *testing.T) {
	s := openTestStore(t)
	p := sample("", "Home")

	err := s.Upsert(context.Background(), &p)
	var se *StoreError
	assert.True(t, errors.As(err, &se))
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	a, b := sample("id-1", "A"), sample("id-2", "B")
	require.NoError(t, tx.Upsert(&a))
	require.NoError(t, tx.Upsert(&b))
	tx.Rollback()
	tx.Rollback() // idempotent

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, a.CreatedAt.IsZero())

	// The write lock was released.
	c := sample("id-3", "C")
	require.NoError(t, s.Upsert(ctx, &c))
}

func TestTx_CommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	a, b := sample("id-1", "A"), sample("id-2", "B")
	require.NoError(t, tx.Upsert(&a))
	require.NoError(t, tx.Upsert(&b))
	require.NoError(t, tx.Commit())

	assert.Error(t, tx.Upsert(&a), "finished transactions reject writes")
	assert.Error(t, tx.Commit())

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, names)
}

func TestStore_ListOrderedByName(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for i, name := range []string{"charlie", "alpha", "bravo"} {
		p := sample(string(rune('a'+i)), name)
		p.Port = 1000 + i
		require.NoError(t, s.Upsert(ctx, &p))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "bravo", list[1].Name)
	assert.Equal(t, "charlie", list[2].Name)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := sample("id-1", "Home")
	require.NoError(t, s.Upsert(ctx, &p))

	require.NoError(t, s.Delete(ctx, "id-1"))
	assert.ErrorIs(t, s.Delete(ctx, "id-1"), ErrNotFound)

	ok, err := s.Exists(ctx, "Home")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := sample(string(rune('a'+i)), string(rune('A'+i)))
			errs[i] = s.Upsert(ctx, &p)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(errs), n)
}
