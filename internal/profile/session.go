package profile

import (
	"context"

	"proxyconf/internal/logger"
	"proxyconf/internal/model"

	"github.com/google/uuid"
)

// State of an edit session: Draft -> Validating -> Committed | Rejected.
// A Rejected session may be submitted again.
type State int

const (
	StateDraft State = iota
	StateValidating
	StateCommitted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateValidating:
		return "validating"
	case StateCommitted:
		return "committed"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// Store is what a session needs from the profile store.
type Store interface {
	Exists(ctx context.Context, name string) (bool, error)
	Upsert(ctx context.Context, p *model.Proxy) error
}

// Session owns one in-progress draft until it is committed or discarded.
// It is not safe for concurrent use.
type Session struct {
	store   Store
	draft   model.Proxy
	pending *RawFields // input of the last rejected submission
	isEdit  bool
	state   State
	err     error
}

// NewAddSession starts a create flow. The draft gets its identity now so a
// retried submission keeps the same ID.
func NewAddSession(store Store) *Session {
	return &Session{
		store: store,
		draft: model.Proxy{ID: uuid.NewString()},
	}
}

// NewEditSession starts an edit flow on a copy of stored.
func NewEditSession(store Store, stored model.Proxy) *Session {
	return &Session{
		store:  store,
		draft:  stored.Clone(),
		isEdit: true,
	}
}

func (s *Session) IsEdit() bool { return s.isEdit }

func (s *Session) State() State { return s.state }

// Err returns the failure of the last rejected submission.
func (s *Session) Err() error { return s.err }

// Draft returns a copy of the profile being edited. It only changes once a
// submission commits.
func (s *Session) Draft() model.Proxy { return s.draft.Clone() }

// Pending returns a copy of the input of the last rejected submission, so a
// form can be refilled after a failed save. ok is false before any
// rejection and after a commit.
func (s *Session) Pending() (raw RawFields, ok bool) {
	if s.pending == nil {
		return RawFields{}, false
	}
	return s.pending.clone(), true
}

// Submit validates raw and, if valid, commits it in one store write. The
// first validation or storage failure is returned and the session becomes
// Rejected with the draft unchanged.
func (s *Session) Submit(ctx context.Context, raw RawFields) (model.Proxy, error) {
	if s.state == StateCommitted {
		return model.Proxy{}, ErrSessionClosed
	}
	s.state = StateValidating

	p, err := ValidateWith(raw, s.isEdit, func(name string) (bool, error) {
		return s.store.Exists(ctx, name)
	})
	if err != nil {
		return s.reject(raw, err)
	}
	p.ID = s.draft.ID
	p.CreatedAt = s.draft.CreatedAt

	if err := s.store.Upsert(ctx, &p); err != nil {
		return s.reject(raw, err)
	}

	s.draft = p
	s.pending = nil
	s.state = StateCommitted
	s.err = nil
	logger.Log.Debugf("Session committed %q (edit=%v)", p.Name, s.isEdit)
	return p.Clone(), nil
}

func (s *Session) reject(raw RawFields, err error) (model.Proxy, error) {
	pending := raw.clone()
	s.pending = &pending
	s.state = StateRejected
	s.err = err
	logger.Log.Debugf("Session rejected: %v", err)
	return model.Proxy{}, err
}
