package conversation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// ErrConversationNotFound is returned when a conversation ID is not present
// in the store. Lookups are checked before any mutation, so a failed lookup
// never leaves a partial append behind.
var ErrConversationNotFound = errors.New("conversation not found")

const greetingText = "Hi! I'm your app-building assistant. Describe the app you have in mind and I'll take it from there."

const closingText = "Thanks for building with me! Your requirements are saved and ready for generation."

// Store owns every conversation state, keyed by conversation ID. It is the
// only shared mutable resource in the service. Mutations on one conversation
// are serialized by a per-entry mutex, so concurrent SendMessage calls on the
// same ID cannot interleave their appends.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	// previousApps remembers app names generated per user so later
	// conversations start with that context.
	appsMu       sync.RWMutex
	previousApps map[string][]string

	engine *Engine
	now    func() time.Time
}

type entry struct {
	mu    sync.Mutex
	state *State
}

// NewStore creates an empty conversation store driven by the given engine.
func NewStore(engine *Engine) *Store {
	if engine == nil {
		engine = NewEngine(nil)
	}
	return &Store{
		entries:      make(map[string]*entry),
		previousApps: make(map[string][]string),
		engine:       engine,
		now:          time.Now,
	}
}

// Start creates a conversation for the user, seeds it with the canned
// greeting and returns the new state.
func (s *Store) Start(_ context.Context, userID string) (*State, Message, error) {
	now := s.now()
	greeting := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   greetingText,
		CreatedAt: now,
	}
	st := &State{
		ID:          shortuuid.New(),
		UserID:      userID,
		Messages:    []Message{greeting},
		CurrentStep: StepGreeting,
		Context: Context{
			UserPreferences: make(map[string]string),
			PreviousApps:    s.previousAppsFor(userID),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.entries[st.ID] = &entry{state: st}
	s.mu.Unlock()

	return copyState(st), greeting, nil
}

// SendMessage appends the user message, advances the state machine and
// appends the assistant reply, in that order. It returns both messages, a
// snapshot of the updated state and whether caller action is now required.
func (s *Store) SendMessage(_ context.Context, conversationID, text string) (Message, Message, *State, bool, error) {
	e, ok := s.lookup(conversationID)
	if !ok {
		return Message{}, Message{}, nil, false, errors.Wrapf(ErrConversationNotFound, "id %s", conversationID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	now := s.now()
	userMsg := Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   text,
		CreatedAt: now,
	}
	st.Messages = append(st.Messages, userMsg)

	turn := s.engine.Advance(st, text)

	assistantMsg := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   turn.Reply,
		CreatedAt: s.now(),
	}
	st.Messages = append(st.Messages, assistantMsg)
	st.CurrentStep = turn.Next
	st.UpdatedAt = assistantMsg.CreatedAt

	return userMsg, assistantMsg, copyState(st), turn.RequiresAction, nil
}

// Get returns a snapshot of the conversation state.
func (s *Store) Get(_ context.Context, conversationID string) (*State, error) {
	e, ok := s.lookup(conversationID)
	if !ok {
		return nil, errors.Wrapf(ErrConversationNotFound, "id %s", conversationID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyState(e.state), nil
}

// End appends the closing message and returns the final requirements plus a
// summary of the exchange. The conversation stays in the store until the
// cleanup job evicts it; End is the only operation besides SendMessage that
// appends a message.
func (s *Store) End(_ context.Context, conversationID string) (Message, *Requirements, Summary, error) {
	e, ok := s.lookup(conversationID)
	if !ok {
		return Message{}, nil, Summary{}, errors.Wrapf(ErrConversationNotFound, "id %s", conversationID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	closing := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   closingText,
		CreatedAt: s.now(),
	}
	st.Messages = append(st.Messages, closing)
	st.Ended = true
	st.UpdatedAt = closing.CreatedAt

	var finalReq *Requirements
	if st.Requirements != nil {
		finalReq = copyRequirements(st.Requirements)
	}
	return closing, finalReq, summarize(st.Messages), nil
}

// RecordApp remembers a generated app name for the user so future
// conversations carry it in their context.
func (s *Store) RecordApp(userID, appName string) {
	if userID == "" || appName == "" {
		return
	}
	s.appsMu.Lock()
	defer s.appsMu.Unlock()
	s.previousApps[userID] = append(s.previousApps[userID], appName)
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *Store) previousAppsFor(userID string) []string {
	s.appsMu.RLock()
	defer s.appsMu.RUnlock()
	return append([]string(nil), s.previousApps[userID]...)
}

// deleteOlderThan removes conversations whose last activity predates the
// cutoff. Returns the number of deleted conversations.
func (s *Store) deleteOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, e := range s.entries {
		if e.state.UpdatedAt.Before(cutoff) {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted
}

// evictOverCapacity removes the least recently updated conversations until
// at most max remain. Returns the number of evicted conversations.
func (s *Store) evictOverCapacity(max int) int {
	if max <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	over := len(s.entries) - max
	if over <= 0 {
		return 0
	}
	type aged struct {
		id string
		ts time.Time
	}
	all := make([]aged, 0, len(s.entries))
	for id, e := range s.entries {
		all = append(all, aged{id: id, ts: e.state.UpdatedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ts.Before(all[j].ts) })
	for i := 0; i < over; i++ {
		delete(s.entries, all[i].id)
	}
	return over
}

// copyState returns a snapshot safe to hand to callers while the entry keeps
// mutating.
func copyState(st *State) *State {
	cp := *st
	cp.Messages = append([]Message(nil), st.Messages...)
	cp.Context.TechnicalConstraints = append([]string(nil), st.Context.TechnicalConstraints...)
	cp.Context.PreviousApps = append([]string(nil), st.Context.PreviousApps...)
	if st.Context.UserPreferences != nil {
		prefs := make(map[string]string, len(st.Context.UserPreferences))
		for k, v := range st.Context.UserPreferences {
			prefs[k] = v
		}
		cp.Context.UserPreferences = prefs
	}
	if st.Requirements != nil {
		cp.Requirements = copyRequirements(st.Requirements)
	}
	return &cp
}

func copyRequirements(r *Requirements) *Requirements {
	cp := *r
	cp.Platforms = append([]Platform(nil), r.Platforms...)
	cp.CoreFeatures = append([]string(nil), r.CoreFeatures...)
	cp.Technical.ExternalAPIs = append([]string(nil), r.Technical.ExternalAPIs...)
	return &cp
}
