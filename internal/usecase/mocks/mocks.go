package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

// Store is an in-memory ledger backing the fake repositories. Transactions
// are serialized and roll back to a snapshot taken at Begin.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	cards      map[string]*domain.Card
	blueprints map[string]*domain.Blueprint
	postings   map[string]*domain.Posting

	// CreatePostingErr, when set, is consulted before every posting insert.
	CreatePostingErr func(p *domain.Posting) error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		cards:      make(map[string]*domain.Card),
		blueprints: make(map[string]*domain.Blueprint),
		postings:   make(map[string]*domain.Posting),
	}
}

// PutCard stores a card directly, outside any transaction.
func (s *Store) PutCard(card *domain.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[card.ID] = cloneCard(card)
}

// PutBlueprint stores a blueprint directly, outside any transaction.
func (s *Store) PutBlueprint(b *domain.Blueprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blueprints[b.ID] = cloneBlueprint(b)
}

// PutPosting stores a posting directly, outside any transaction.
func (s *Store) PutPosting(p *domain.Posting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postings[p.ID] = clonePosting(p)
}

// Card returns a copy of the stored card.
func (s *Store) Card(id string) *domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cards[id]; ok {
		return cloneCard(c)
	}
	return nil
}

// Blueprint returns a copy of the stored blueprint.
func (s *Store) Blueprint(id string) *domain.Blueprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.blueprints[id]; ok {
		return cloneBlueprint(b)
	}
	return nil
}

// Postings returns copies of all postings ordered by date.
func (s *Store) Postings() []*domain.Posting {
	return s.filterPostings(func(*domain.Posting) bool { return true })
}

// DeleteCard removes a card, outside any transaction.
func (s *Store) DeleteCard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, id)
}

func (s *Store) filterPostings(keep func(*domain.Posting) bool) []*domain.Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Posting
	for _, p := range s.postings {
		if keep(p) {
			out = append(out, clonePosting(p))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})

	return out
}

type snapshot struct {
	cards      map[string]*domain.Card
	blueprints map[string]*domain.Blueprint
	postings   map[string]*domain.Posting
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		cards:      make(map[string]*domain.Card, len(s.cards)),
		blueprints: make(map[string]*domain.Blueprint, len(s.blueprints)),
		postings:   make(map[string]*domain.Posting, len(s.postings)),
	}
	for k, v := range s.cards {
		snap.cards[k] = cloneCard(v)
	}
	for k, v := range s.blueprints {
		snap.blueprints[k] = cloneBlueprint(v)
	}
	for k, v := range s.postings {
		snap.postings[k] = clonePosting(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = snap.cards
	s.blueprints = snap.blueprints
	s.postings = snap.postings
}

// FakeTransactionManager begins snapshot transactions on a Store.
type FakeTransactionManager struct {
	store    *Store
	BeginErr error
	Begins   atomic.Int32
}

// NewFakeTransactionManager creates a transaction manager for store.
func NewFakeTransactionManager(store *Store) *FakeTransactionManager {
	return &FakeTransactionManager{store: store}
}

func (m *FakeTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.Begins.Add(1)
	m.store.txMu.Lock()
	return &FakeTransaction{store: m.store, snap: m.store.snapshot()}, nil
}

// FakeTransaction is a Store transaction.
type FakeTransaction struct {
	store *Store
	snap  snapshot
	done  bool
}

func (t *FakeTransaction) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("transaction already closed")
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *FakeTransaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.restore(t.snap)
	t.store.txMu.Unlock()
	return nil
}

// FakeCardRepository implements usecase.CardRepository on a Store.
type FakeCardRepository struct {
	store *Store
}

// NewFakeCardRepository creates a card repository for store.
func NewFakeCardRepository(store *Store) *FakeCardRepository {
	return &FakeCardRepository{store: store}
}

func (r *FakeCardRepository) Create(ctx context.Context, card *domain.Card) error {
	r.store.PutCard(card)
	return nil
}

func (r *FakeCardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	if c := r.store.Card(id); c != nil {
		return c, nil
	}
	return nil, domain.ErrCardNotFound
}

func (r *FakeCardRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Card, error) {
	return r.GetByID(ctx, id)
}

func (r *FakeCardRepository) List(ctx context.Context, limit, offset int) ([]*domain.Card, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Card, 0, len(r.store.cards))
	for _, c := range r.store.cards {
		out = append(out, cloneCard(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if offset >= len(out) {
		return []*domain.Card{}, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

// AdjustLimitUsed enforces the same range check as the database constraint.
func (r *FakeCardRepository) AdjustLimitUsed(ctx context.Context, tx usecase.Transaction, id string, delta int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.cards[id]
	if !ok {
		return domain.ErrCardNotFound
	}

	used := c.LimitUsed + delta
	if used < 0 || used > c.MaxLimit {
		return fmt.Errorf("limit_used %d out of range for card %s", used, id)
	}
	c.LimitUsed = used
	return nil
}

// FakeBlueprintRepository implements usecase.BlueprintRepository on a Store.
type FakeBlueprintRepository struct {
	store *Store
}

// NewFakeBlueprintRepository creates a blueprint repository for store.
func NewFakeBlueprintRepository(store *Store) *FakeBlueprintRepository {
	return &FakeBlueprintRepository{store: store}
}

func (r *FakeBlueprintRepository) Create(ctx context.Context, tx usecase.Transaction, b *domain.Blueprint) error {
	r.store.PutBlueprint(b)
	return nil
}

func (r *FakeBlueprintRepository) GetByID(ctx context.Context, id string) (*domain.Blueprint, error) {
	if b := r.store.Blueprint(id); b != nil {
		return b, nil
	}
	return nil, domain.ErrBlueprintNotFound
}

func (r *FakeBlueprintRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Blueprint, error) {
	return r.GetByID(ctx, id)
}

func (r *FakeBlueprintRepository) List(ctx context.Context, limit, offset int) ([]*domain.Blueprint, error) {
	all, _ := r.ListAll(ctx)
	if offset >= len(all) {
		return []*domain.Blueprint{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *FakeBlueprintRepository) ListAll(ctx context.Context) ([]*domain.Blueprint, error) {
	return r.filter(func(*domain.Blueprint) bool { return true }), nil
}

func (r *FakeBlueprintRepository) ListByCard(ctx context.Context, cardID string) ([]*domain.Blueprint, error) {
	return r.filter(func(b *domain.Blueprint) bool {
		return b.CardID != nil && *b.CardID == cardID
	}), nil
}

func (r *FakeBlueprintRepository) UpdateLastProcessed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.blueprints[id]
	if !ok {
		return domain.ErrBlueprintNotFound
	}
	at = at.UTC()
	b.LastProcessedAt = &at
	return nil
}

// Delete detaches generated postings like ON DELETE SET NULL.
func (r *FakeBlueprintRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.blueprints[id]; !ok {
		return domain.ErrBlueprintNotFound
	}
	delete(r.store.blueprints, id)

	for _, p := range r.store.postings {
		if p.RecurringID != nil && *p.RecurringID == id {
			p.RecurringID = nil
		}
	}
	return nil
}

func (r *FakeBlueprintRepository) filter(keep func(*domain.Blueprint) bool) []*domain.Blueprint {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.Blueprint
	for _, b := range r.store.blueprints {
		if keep(b) {
			out = append(out, cloneBlueprint(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FakePostingRepository implements usecase.PostingRepository on a Store.
type FakePostingRepository struct {
	store *Store
}

// NewFakePostingRepository creates a posting repository for store.
func NewFakePostingRepository(store *Store) *FakePostingRepository {
	return &FakePostingRepository{store: store}
}

// Create enforces one posting per blueprint per local date like the unique index.
func (r *FakePostingRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Posting) error {
	if r.store.CreatePostingErr != nil {
		if err := r.store.CreatePostingErr(p); err != nil {
			return err
		}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if p.RecurringID != nil {
		for _, existing := range r.store.postings {
			if existing.RecurringID != nil && *existing.RecurringID == *p.RecurringID && existing.Date.Equal(p.Date) {
				return fmt.Errorf("%w: blueprint %s at %s", domain.ErrDuplicatePosting, *p.RecurringID, p.Date)
			}
		}
	}

	r.store.postings[p.ID] = clonePosting(p)
	return nil
}

func (r *FakePostingRepository) GetByID(ctx context.Context, id string) (*domain.Posting, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if p, ok := r.store.postings[id]; ok {
		return clonePosting(p), nil
	}
	return nil, domain.ErrPostingNotFound
}

func (r *FakePostingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Posting, error) {
	return r.GetByID(ctx, id)
}

func (r *FakePostingRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.postings[id]; !ok {
		return domain.ErrPostingNotFound
	}
	delete(r.store.postings, id)
	return nil
}

func (r *FakePostingRepository) DeleteByBlueprint(ctx context.Context, tx usecase.Transaction, blueprintID string) ([]*domain.Posting, error) {
	deleted := r.store.filterPostings(func(p *domain.Posting) bool {
		return p.RecurringID != nil && *p.RecurringID == blueprintID
	})

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range deleted {
		delete(r.store.postings, p.ID)
	}
	return deleted, nil
}

func (r *FakePostingRepository) ListByBlueprint(ctx context.Context, blueprintID string) ([]*domain.Posting, error) {
	return r.store.filterPostings(func(p *domain.Posting) bool {
		return p.RecurringID != nil && *p.RecurringID == blueprintID
	}), nil
}

func (r *FakePostingRepository) ListByBlueprintTx(ctx context.Context, tx usecase.Transaction, blueprintID string, from, to time.Time) ([]*domain.Posting, error) {
	return r.store.filterPostings(func(p *domain.Posting) bool {
		return p.RecurringID != nil && *p.RecurringID == blueprintID &&
			!p.Date.Before(from) && !p.Date.After(to)
	}), nil
}

func (r *FakePostingRepository) ListByCardBetween(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error) {
	return r.store.filterPostings(func(p *domain.Posting) bool {
		return p.CardID != nil && *p.CardID == cardID && !p.Date.Before(from) && p.Date.Before(to)
	}), nil
}

func (r *FakePostingRepository) CardCycleTotals(ctx context.Context, cardID string, from, to time.Time) (int64, int, error) {
	postings, _ := r.ListByCardBetween(ctx, cardID, from, to)

	var total int64
	for _, p := range postings {
		total += p.StatementAmount()
	}
	return total, len(postings), nil
}

// PassthroughRetrier runs operations once.
type PassthroughRetrier struct{}

func (PassthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// SequentialIDGenerator generates predictable IDs.
type SequentialIDGenerator struct {
	prefix  string
	counter atomic.Int64
}

// NewSequentialIDGenerator creates a generator producing prefix-1, prefix-2, ...
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Add(1))
}

// RecordingNotifier records skip notifications.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []domain.RecurringChargeSkipped
	Err    error
}

func (n *RecordingNotifier) RecurringChargeSkipped(ctx context.Context, event domain.RecurringChargeSkipped) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.Err
}

// Events returns the recorded notifications.
func (n *RecordingNotifier) Events() []domain.RecurringChargeSkipped {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.RecurringChargeSkipped(nil), n.events...)
}

// FakeIdempotencyStore is an in-memory IdempotencyStore.
type FakeIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewFakeIdempotencyStore creates an empty FakeIdempotencyStore.
func NewFakeIdempotencyStore() *FakeIdempotencyStore {
	return &FakeIdempotencyStore{data: make(map[string][]byte)}
}

func (m *FakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response == nil {
		response = []byte("processing")
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *FakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *FakeIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func cloneCard(c *domain.Card) *domain.Card {
	cp := *c
	return &cp
}

func cloneBlueprint(b *domain.Blueprint) *domain.Blueprint {
	cp := *b
	if b.LastProcessedAt != nil {
		t := *b.LastProcessedAt
		cp.LastProcessedAt = &t
	}
	cp.CardID = cloneString(b.CardID)
	cp.AccountID = cloneString(b.AccountID)
	return &cp
}

func clonePosting(p *domain.Posting) *domain.Posting {
	cp := *p
	cp.RecurringID = cloneString(p.RecurringID)
	cp.CardID = cloneString(p.CardID)
	cp.AccountID = cloneString(p.AccountID)
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
