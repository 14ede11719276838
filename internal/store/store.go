// Package store persists proxy profiles. Every write goes through a single
// transaction so other readers never observe a partially written profile.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"proxyconf/internal/logger"
	"proxyconf/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("profile not found")

// StoreError reports a failed storage operation. The transaction it belonged
// to has been rolled back.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s profile: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

type Store struct {
	db *gorm.DB
	mu sync.Mutex // held for the lifetime of a write transaction
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Exists reports whether a profile with exactly this (trimmed) name is stored.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Proxy{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&n).Error
	if err != nil {
		return false, &StoreError{Op: "look up", Err: err}
	}
	return n > 0, nil
}

// Names returns every stored profile name.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&model.Proxy{}).Pluck("name", &names).Error; err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return names, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Proxy, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) GetByName(ctx context.Context, name string) (model.Proxy, error) {
	return s.first(ctx, "name = ?", strings.TrimSpace(name))
}

func (s *Store) first(ctx context.Context, query string, arg string) (model.Proxy, error) {
	var p model.Proxy
	err := s.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, &StoreError{Op: "load", Err: err}
	}
	return p, nil
}

// List returns all profiles ordered by name.
func (s *Store) List(ctx context.Context) ([]model.Proxy, error) {
	var list []model.Proxy
	if err := s.db.WithContext(ctx).Order("name").Find(&list).Error; err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return list, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Proxy{}).Count(&n).Error; err != nil {
		return 0, &StoreError{Op: "count", Err: err}
	}
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.WithContext(ctx).Delete(&model.Proxy{}, "id = ?", id)
	if res.Error != nil {
		return &StoreError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	logger.Log.Debugf("Deleted profile %s", id)
	return nil
}

// Upsert writes p in its own transaction: a new ID is inserted, an existing
// ID has every column replaced. On failure nothing is written and p is left
// untouched; on success p picks up the stored timestamps.
func (s *Store) Upsert(ctx context.Context, p *model.Proxy) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.Upsert(p); err != nil {
		return err
	}
	return tx.Commit()
}

// Tx is an open write transaction. It must end with Commit or Rollback;
// Rollback after Commit is a no-op so it can always be deferred.
type Tx struct {
	s      *Store
	tx     *gorm.DB
	staged []staged
	done   bool
}

type staged struct {
	dst *model.Proxy
	row model.Proxy
}

// Begin opens a write transaction. Writers are serialized until the
// transaction ends.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	s.mu.Lock()
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.mu.Unlock()
		return nil, &StoreError{Op: "begin", Err: tx.Error}
	}
	return &Tx{s: s, tx: tx}, nil
}

func (t *Tx) Upsert(p *model.Proxy) error {
	if t.done {
		return &StoreError{Op: "save", Err: errors.New("transaction already finished")}
	}
	if p.ID == "" {
		return &StoreError{Op: "save", Err: errors.New("profile has no id")}
	}

	row := p.Clone()
	err := t.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	t.staged = append(t.staged, staged{dst: p, row: row})
	return nil
}

func (t *Tx) Commit() error {
	if t.done {
		return &StoreError{Op: "commit", Err: errors.New("transaction already finished")}
	}
	defer t.release()

	if err := t.tx.Commit().Error; err != nil {
		t.tx.Rollback()
		return &StoreError{Op: "commit", Err: err}
	}
	for _, st := range t.staged {
		*st.dst = st.row
		logger.Log.Debugf("Committed profile %s (%s)", st.row.Name, st.row.ID)
	}
	return nil
}

func (t *Tx) Rollback() {
	if t.done {
		return
	}
	t.tx.Rollback()
	t.release()
}

func (t *Tx) release() {
	t.done = true
	t.staged = nil
	t.s.mu.Unlock()
}
