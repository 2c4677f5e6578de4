// Package directory maintains the in-memory index of registered users and
// chat messages, kept in lockstep with the durable document: every mutation
// updates both under one lock and reports success only after the document
// has been persisted.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meetloop/meetloop/internal/metrics"
	"github.com/meetloop/meetloop/internal/model"
)

// Service errors.
var (
	ErrMissingField = errors.New("required field missing")
	ErrUserNotFound = errors.New("user not found")
)

// Persister is the durable side of a mutation.
type Persister interface {
	Persist(ctx context.Context, doc *model.Document) error
}

// Index is the single writer of users and messages. The mutex is held
// across the in-memory mutation and the synchronous persist, so writes to
// the document are serialized and a success return implies durability.
type Index struct {
	mu       sync.RWMutex
	users    map[string]model.User
	messages []model.ChatMessage
	doc      *model.Document

	store   Persister
	logger  *slog.Logger
	metrics metrics.Recorder
}

// New creates an empty Index. Call Rebuild with the loaded document before
// serving traffic.
func New(store Persister, logger *slog.Logger, recorder metrics.Recorder) *Index {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Index{
		users:    make(map[string]model.User),
		messages: []model.ChatMessage{},
		doc:      model.EmptyDocument(),
		store:    store,
		logger:   logger,
		metrics:  recorder,
	}
}

// Rebuild populates the index from a loaded document, replacing any
// existing state. For duplicate user ids the later entry wins.
func (ix *Index) Rebuild(doc *model.Document) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	if doc.Messages == nil {
		doc.Messages = []model.ChatMessage{}
	}

	ix.doc = doc
	ix.users = make(map[string]model.User, len(doc.Users))
	for _, u := range doc.Users {
		ix.users[u.ID] = u.Clone()
	}
	ix.messages = append([]model.ChatMessage{}, doc.Messages...)
}

// RegisterUser inserts or overwrites a user and persists the document.
func (ix *Index) RegisterUser(ctx context.Context, u model.User) error {
	if u.ID == "" || u.Name == "" {
		return fmt.Errorf("%w: id and name required", ErrMissingField)
	}
	u = u.Clone()

	ix.mu.Lock()
	defer ix.mu.Unlock()

	prev, existed := ix.users[u.ID]
	ix.users[u.ID] = u

	prevIdx := -1
	if existed {
		for i := range ix.doc.Users {
			if ix.doc.Users[i].ID == u.ID {
				prevIdx = i
				ix.doc.Users[i] = u
				break
			}
		}
	} else {
		ix.doc.Users = append(ix.doc.Users, u)
	}

	if err := ix.store.Persist(ctx, ix.doc); err != nil {
		if existed {
			ix.users[u.ID] = prev
			if prevIdx >= 0 {
				ix.doc.Users[prevIdx] = prev
			}
		} else {
			delete(ix.users, u.ID)
			ix.doc.Users = ix.doc.Users[:len(ix.doc.Users)-1]
		}
		ix.logger.Error("durable write failed, registration rolled back",
			"user_id", u.ID, "error", err)
		return fmt.Errorf("failed to persist user %s: %w", u.ID, err)
	}

	ix.metrics.IncUserRegistered()
	return nil
}

// UpdateUser merges a partial patch over an existing user. Patch fields
// win, omitted fields are preserved and the id is immutable. An empty
// patch succeeds without changing the record.
func (ix *Index) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	prev, ok := ix.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}

	updated := patch.Apply(prev)
	updated.ID = id
	ix.users[id] = updated

	prevIdx := -1
	for i := range ix.doc.Users {
		if ix.doc.Users[i].ID == id {
			prevIdx = i
			ix.doc.Users[i] = updated
			break
		}
	}

	if err := ix.store.Persist(ctx, ix.doc); err != nil {
		ix.users[id] = prev
		if prevIdx >= 0 {
			ix.doc.Users[prevIdx] = prev
		}
		ix.logger.Error("durable write failed, update rolled back",
			"user_id", id, "error", err)
		return model.User{}, fmt.Errorf("failed to persist user %s: %w", id, err)
	}

	ix.metrics.IncUserUpdated()
	return updated.Clone(), nil
}

// AppendMessage appends a chat message and persists the document.
// Duplicates are legal; ordering is insertion order.
func (ix *Index) AppendMessage(ctx context.Context, msg model.ChatMessage) error {
	if msg.From == "" || msg.EventID == "" || msg.Text == "" {
		return fmt.Errorf("%w: from, eventId and text required", ErrMissingField)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.messages = append(ix.messages, msg)
	ix.doc.Messages = append(ix.doc.Messages, msg)

	if err := ix.store.Persist(ctx, ix.doc); err != nil {
		ix.messages = ix.messages[:len(ix.messages)-1]
		ix.doc.Messages = ix.doc.Messages[:len(ix.doc.Messages)-1]
		ix.logger.Error("durable write failed, message dropped",
			"event_id", msg.EventID, "from", msg.From, "error", err)
		return fmt.Errorf("failed to persist message: %w", err)
	}

	ix.metrics.IncMessageStored()
	return nil
}

// User returns the user with the given id.
func (ix *Index) User(id string) (model.User, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	u, ok := ix.users[id]
	if !ok {
		return model.User{}, false
	}
	return u.Clone(), true
}

// MessagesForEvent returns the ordered messages for one event.
func (ix *Index) MessagesForEvent(eventID string) []model.ChatMessage {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := []model.ChatMessage{}
	for _, m := range ix.messages {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out
}

// FindByInterest returns all users listing the given interest, in
// registration order.
func (ix *Index) FindByInterest(interest string) []model.User {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := []model.User{}
	for _, u := range ix.doc.Users {
		if u.HasInterest(interest) {
			out = append(out, u.Clone())
		}
	}
	return out
}

// Document returns a deep copy of the durable document as the index sees it.
func (ix *Index) Document() *model.Document {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.doc.Clone()
}
