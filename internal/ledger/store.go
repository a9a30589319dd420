package ledger

import (
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

// Account is the system-level record behind every stored entity.
type Account struct {
	Lamports uint64
	DataLen  int
}

type state struct {
	accounts   map[solana.PublicKey]*Account
	pools      map[solana.PublicKey]*model.Pool
	positions  map[solana.PublicKey]*model.Position
	tickArrays map[solana.PublicKey]tick.Array
	mints      map[solana.PublicKey]*model.Mint
	tokens     map[solana.PublicKey]*model.TokenAccount
}

func newState() *state {
	return &state{
		accounts:   make(map[solana.PublicKey]*Account),
		pools:      make(map[solana.PublicKey]*model.Pool),
		positions:  make(map[solana.PublicKey]*model.Position),
		tickArrays: make(map[solana.PublicKey]tick.Array),
		mints:      make(map[solana.PublicKey]*model.Mint),
		tokens:     make(map[solana.PublicKey]*model.TokenAccount),
	}
}

// Store is an in-memory account store. All mutation goes through Update,
// which serializes callers and commits only on success.
type Store struct {
	mu     sync.RWMutex
	st     *state
	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{st: newState(), logger: logger}
}

// Update runs fn against a transaction overlay and commits it when fn
// returns nil. On error nothing is written.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s.st)
	if err := fn(tx); err != nil {
		s.logger.Debug("ledger update rolled back", zap.Error(err))
		return err
	}
	tx.commit()
	return nil
}

// View runs fn against a read-only transaction. Changes fn makes are
// discarded.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(newTx(s.st))
}

// table is one account kind seen through a transaction: reads copy the
// committed value into the overlay so callers may mutate it freely.
type table[T any] struct {
	base    map[solana.PublicKey]T
	overlay map[solana.PublicKey]T
	deleted map[solana.PublicKey]bool
	clone   func(T) T
}

func newTable[T any](base map[solana.PublicKey]T, clone func(T) T) *table[T] {
	return &table[T]{
		base:    base,
		overlay: make(map[solana.PublicKey]T),
		deleted: make(map[solana.PublicKey]bool),
		clone:   clone,
	}
}

func (t *table[T]) get(key solana.PublicKey) (T, bool) {
	var zero T
	if t.deleted[key] {
		return zero, false
	}
	if v, ok := t.overlay[key]; ok {
		return v, true
	}
	v, ok := t.base[key]
	if !ok {
		return zero, false
	}
	c := t.clone(v)
	t.overlay[key] = c
	return c, true
}

func (t *table[T]) has(key solana.PublicKey) bool {
	if t.deleted[key] {
		return false
	}
	if _, ok := t.overlay[key]; ok {
		return true
	}
	_, ok := t.base[key]
	return ok
}

func (t *table[T]) put(key solana.PublicKey, v T) {
	delete(t.deleted, key)
	t.overlay[key] = v
}

func (t *table[T]) del(key solana.PublicKey) {
	delete(t.overlay, key)
	t.deleted[key] = true
}

func (t *table[T]) keys() []solana.PublicKey {
	seen := make(map[solana.PublicKey]bool, len(t.base)+len(t.overlay))
	for k := range t.base {
		seen[k] = true
	}
	for k := range t.overlay {
		seen[k] = true
	}
	out := make([]solana.PublicKey, 0, len(seen))
	for k := range seen {
		if !t.deleted[k] {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (t *table[T]) commit() {
	for k := range t.deleted {
		delete(t.base, k)
	}
	for k, v := range t.overlay {
		t.base[k] = v
	}
}

func clonePtr[T any](v *T) *T {
	c := *v
	return &c
}

func cloneMint(m *model.Mint) *model.Mint {
	c := *m
	if m.TransferFee != nil {
		fee := *m.TransferFee
		c.TransferFee = &fee
	}
	return &c
}

func cloneArray(a tick.Array) tick.Array { return a.Clone() }

// Tx is a view of the store inside Update or View.
type Tx struct {
	accounts   *table[*Account]
	pools      *table[*model.Pool]
	positions  *table[*model.Position]
	tickArrays *table[tick.Array]
	mints      *table[*model.Mint]
	tokens     *table[*model.TokenAccount]
}

func newTx(st *state) *Tx {
	return &Tx{
		accounts:   newTable(st.accounts, clonePtr[Account]),
		pools:      newTable(st.pools, clonePtr[model.Pool]),
		positions:  newTable(st.positions, clonePtr[model.Position]),
		tickArrays: newTable(st.tickArrays, cloneArray),
		mints:      newTable(st.mints, cloneMint),
		tokens:     newTable(st.tokens, clonePtr[model.TokenAccount]),
	}
}

func (tx *Tx) commit() {
	tx.accounts.commit()
	tx.pools.commit()
	tx.positions.commit()
	tx.tickArrays.commit()
	tx.mints.commit()
	tx.tokens.commit()
}

func notFound(kind string, key solana.PublicKey) error {
	return errcode.Wrap(errcode.AccountNotInitialized, "%s %s", kind, key)
}

// Pool returns a mutable copy of the pool at key.
func (tx *Tx) Pool(key solana.PublicKey) (*model.Pool, error) {
	p, ok := tx.pools.get(key)
	if !ok {
		return nil, notFound("pool", key)
	}
	return p, nil
}

func (tx *Tx) PutPool(key solana.PublicKey, p *model.Pool) { tx.pools.put(key, p) }

func (tx *Tx) PoolKeys() []solana.PublicKey { return tx.pools.keys() }

// Position returns a mutable copy of the position at key.
func (tx *Tx) Position(key solana.PublicKey) (*model.Position, error) {
	p, ok := tx.positions.get(key)
	if !ok {
		return nil, notFound("position", key)
	}
	return p, nil
}

func (tx *Tx) PutPosition(key solana.PublicKey, p *model.Position) { tx.positions.put(key, p) }

func (tx *Tx) DeletePosition(key solana.PublicKey) { tx.positions.del(key) }

// TickArray returns a mutable copy of the tick array at key.
func (tx *Tx) TickArray(key solana.PublicKey) (tick.Array, error) {
	a, ok := tx.tickArrays.get(key)
	if !ok {
		return nil, notFound("tick array", key)
	}
	return a, nil
}

func (tx *Tx) HasTickArray(key solana.PublicKey) bool { return tx.tickArrays.has(key) }

func (tx *Tx) PutTickArray(key solana.PublicKey, a tick.Array) { tx.tickArrays.put(key, a) }

// Mint returns a mutable copy of the mint at key.
func (tx *Tx) Mint(key solana.PublicKey) (*model.Mint, error) {
	m, ok := tx.mints.get(key)
	if !ok {
		return nil, errcode.Wrap(errcode.InvalidMint, "mint %s", key)
	}
	return m, nil
}

func (tx *Tx) PutMint(key solana.PublicKey, m *model.Mint) { tx.mints.put(key, m) }

// TokenAccount returns a mutable copy of the token account at key.
func (tx *Tx) TokenAccount(key solana.PublicKey) (*model.TokenAccount, error) {
	a, ok := tx.tokens.get(key)
	if !ok {
		return nil, notFound("token account", key)
	}
	return a, nil
}

// Exists reports whether any record lives at key.
func (tx *Tx) Exists(key solana.PublicKey) bool {
	return tx.accounts.has(key) || tx.pools.has(key) || tx.positions.has(key) ||
		tx.tickArrays.has(key) || tx.mints.has(key) || tx.tokens.has(key)
}
