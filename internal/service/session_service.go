package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"flashdeck/internal/models"
	"flashdeck/internal/policy"
	"flashdeck/internal/queue"
	"flashdeck/internal/scheduler"

	"github.com/google/uuid"
)

// SessionService orchestrates study sessions: it builds the review
// queue, applies feedback through the scheduler and advances the
// session state machine.
type SessionService struct {
	decks       DeckStore
	states      StateStore
	sessions    SessionStore
	reviews     ReviewStore
	registry    *scheduler.Registry
	faustOffset int

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() int64
}

// NewSessionService creates a new session orchestrator
func NewSessionService(decks DeckStore, states StateStore, sessions SessionStore, reviews ReviewStore, registry *scheduler.Registry, faustOffset int) *SessionService {
	if faustOffset <= 0 {
		faustOffset = queue.DefaultFaustOffset
	}
	return &SessionService{
		decks:       decks,
		states:      states,
		sessions:    sessions,
		reviews:     reviews,
		registry:    registry,
		faustOffset: faustOffset,
		locks:       make(map[string]*sync.Mutex),
		now:         func() int64 { return time.Now().UnixMilli() },
	}
}

// lockSession returns the mutex guarding a single session's
// answer/end transitions. Locks are kept per session id so sessions
// never serialize against each other.
func (s *SessionService) lockSession(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *SessionService) releaseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, sessionID)
}

// Start creates a new study session over a deck. Cards the user has
// never reviewed get a fresh scheduling state (persisted, so analytics
// sees the full deck), then the chosen queue algorithm orders them.
func (s *SessionService) Start(userID, deckID string, mode models.SessionMode, algorithmName string) (*models.StudySession, *models.Deck, error) {
	switch mode {
	case "":
		mode = models.ModeFinite
	case models.ModeFinite, models.ModeInfinite:
	default:
		return nil, nil, fmt.Errorf("%w: unknown session mode %q", ErrInvalidInput, mode)
	}

	deck, err := s.decks.Get(userID, deckID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if deck == nil {
		return nil, nil, ErrDeckNotFound
	}

	algorithm, err := queue.Resolve(algorithmName, s.faustOffset)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	strategy := s.registry.GetOrDefault(deck.Settings.SchedulerID)

	now := s.now()
	states, err := s.states.ListDeckStates(userID, deckID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load scheduling states: %w", err)
	}

	cards := make([]models.ScheduledCard, 0, len(deck.Cards))
	for _, card := range deck.Cards {
		state, ok := states[card.ID]
		if !ok {
			state = strategy.InitialState(now)
			if err := s.states.Set(userID, deckID, card.ID, state); err != nil {
				return nil, nil, fmt.Errorf("failed to initialize card state: %w", err)
			}
		}
		cards = append(cards, models.ScheduledCard{Card: card, State: state})
	}

	ordered := algorithm.Build(cards, now)

	session := &models.StudySession{
		ID:          uuid.New().String(),
		UserID:      userID,
		DeckID:      deckID,
		SchedulerID: strategy.ID(),
		Algorithm:   algorithm.Name(),
		Mode:        mode,
		Status:      models.StatusActive,
		Completed:   []models.ReviewEvent{},
		StartedAt:   now,
	}

	if len(ordered) > 0 {
		session.ActiveCard = &ordered[0]
		session.Queue = ordered[1:]
	} else {
		session.Queue = []models.ScheduledCard{}
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, deck, nil
}

// Get retrieves a session for its owner
func (s *SessionService) Get(userID, sessionID string) (*models.StudySession, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

// Answer applies feedback to the active card and advances the queue.
//
// The scheduling state write is the commit point: if it fails the
// session is left untouched. The review event append is best-effort
// (an analytics gap is preferable to losing the answer), and the
// session update lands last.
func (s *SessionService) Answer(userID, sessionID string, rating models.FeedbackRating) (*models.StudySession, error) {
	if !rating.Valid() {
		return nil, fmt.Errorf("%w: feedback rating %d out of range", ErrInvalidInput, int(rating))
	}

	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() || session.ActiveCard == nil {
		return nil, ErrNoActiveCard
	}

	active := *session.ActiveCard
	strategy := s.registry.GetOrDefault(session.SchedulerID)

	now := s.now()
	nextState := strategy.Next(active.State, rating, now)

	if err := s.states.Set(userID, session.DeckID, active.Card.ID, nextState); err != nil {
		return nil, fmt.Errorf("failed to persist scheduling state: %w", err)
	}

	event := models.ReviewEvent{
		CardID:       active.Card.ID,
		DeckID:       session.DeckID,
		UserID:       userID,
		Timestamp:    now,
		Feedback:     rating,
		PrevInterval: active.State.Interval,
		NextInterval: nextState.Interval,
	}
	if err := s.reviews.Append(event); err != nil {
		log.Printf("Failed to append review event for card %s: %v", active.Card.ID, err)
	}

	session.Completed = append(session.Completed, event)

	if session.Mode == models.ModeInfinite && !rating.Success() {
		algorithm, err := queue.Resolve(session.Algorithm, s.faustOffset)
		if err != nil {
			algorithm, _ = queue.Resolve(queue.DefaultAlgorithm, s.faustOffset)
		}
		reinserted := models.ScheduledCard{Card: active.Card, State: nextState}
		session.Queue = algorithm.Reinsert(session.Queue, reinserted)
	}

	if len(session.Queue) > 0 {
		session.ActiveCard = &session.Queue[0]
		session.Queue = session.Queue[1:]
	} else {
		session.ActiveCard = nil
		if session.Mode == models.ModeFinite {
			session.Status = models.StatusCompleted
			session.EndedAt = now
		}
	}

	if err := s.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if session.Terminal() {
		s.releaseSession(sessionID)
	}

	return session, nil
}

// End terminates a session. Ending an already-terminal session is a
// no-op and returns the stored session unchanged.
func (s *SessionService) End(userID, sessionID string, status models.SessionStatus) (*models.StudySession, error) {
	switch status {
	case "":
		status = models.StatusCompleted
	case models.StatusCompleted, models.StatusAbandoned:
	default:
		return nil, fmt.Errorf("%w: unknown session status %q", ErrInvalidInput, status)
	}

	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return session, nil
	}

	session.Status = status
	session.EndedAt = s.now()

	if err := s.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.releaseSession(sessionID)
	return session, nil
}

// FeedbackPolicy resolves the feedback policy a deck presents to the
// study UI, falling back to the default when the deck names none.
func (s *SessionService) FeedbackPolicy(deck *models.Deck) policy.Policy {
	return policy.GetOrDefault(deck.Settings.FeedbackPolicyID)
}
