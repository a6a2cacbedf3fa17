// Package cart implements the shopping cart state container: mutation
// operations, derived totals, and load-on-init / save-on-mutation persistence
// to a durable key-value slot.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// saveTimeout bounds a single background persistence write.
const saveTimeout = 5 * time.Second

// Subscriber is invoked with a snapshot of the cart after every mutation.
type Subscriber func(model.CartState)

// Store holds the cart state. It is an explicit container created once at
// startup and passed to its consumers; all mutations go through its methods.
type Store struct {
	mu    sync.Mutex
	lines []model.CartLine
	subs  []Subscriber

	slot     storage.Slot
	slotName string
	notifier notify.Notifier
	logger   zerolog.Logger

	saves sync.WaitGroup

	// seq is stamped on each snapshot while mu is still held, so sequence
	// order matches mutation order. saveMu serialises slot writes and guards
	// savedSeq; together they ensure a slow older write can never clobber a
	// newer snapshot.
	seq      uint64
	saveMu   sync.Mutex
	savedSeq uint64
}

// NewStore creates an empty cart store persisting into the named slot.
func NewStore(slot storage.Slot, slotName string, notifier notify.Notifier, logger zerolog.Logger) *Store {
	return &Store{
		slot:     slot,
		slotName: slotName,
		notifier: notifier,
		logger:   logger.With().Str("component", "cart-store").Logger(),
	}
}

// Load restores the cart from the slot. An absent or malformed stored value
// starts the cart empty; a storage failure is logged and the store carries on
// in memory only.
func (s *Store) Load(ctx context.Context) {
	data, err := s.slot.Get(ctx, s.slotName)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("cart slot unreadable, starting empty")
		}
		return
	}

	state, err := decodeState(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stored cart malformed, starting empty")
		return
	}

	s.mu.Lock()
	s.lines = state.Lines
	s.mu.Unlock()

	s.logger.Info().Int("lines", len(state.Lines)).Msg("cart restored from storage")
}

// Subscribe registers fn to be called with a snapshot after every mutation.
// Register subscribers before handing the store to concurrent callers.
func (s *Store) Subscribe(fn Subscriber) {
	s.subs = append(s.subs, fn)
}

// AddToCart adds one unit of product. An existing line is incremented, a new
// product gets a fresh line with quantity 1. The product's fields, including
// its unit price, are captured on first add.
func (s *Store) AddToCart(product model.Product) {
	s.mu.Lock()
	updated := false
	for i := range s.lines {
		if s.lines[i].ID == product.ID {
			s.lines[i].Quantity++
			updated = true
			break
		}
	}
	if !updated {
		s.lines = append(s.lines, model.CartLine{Product: product, Quantity: 1})
	}
	state, seq := s.snapshotLocked()
	s.mu.Unlock()

	if updated {
		s.notifier.Success(fmt.Sprintf("%s quantity updated!", product.Title))
	} else {
		s.notifier.Success(fmt.Sprintf("%s added to cart!", product.Title))
	}

	s.afterMutation(state, seq)
}

// UpdateQuantity sets the line for id to exactly quantity. A quantity of zero
// or less removes the line. Unknown ids are ignored. Unlike AddToCart this is
// an absolute set, not an increment; both behaviours are relied upon.
func (s *Store) UpdateQuantity(id int64, quantity int) {
	s.mu.Lock()
	changed := false
	if quantity <= 0 {
		for i := range s.lines {
			if s.lines[i].ID == id {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
				changed = true
				break
			}
		}
	} else {
		for i := range s.lines {
			if s.lines[i].ID == id {
				changed = s.lines[i].Quantity != quantity
				s.lines[i].Quantity = quantity
				break
			}
		}
	}
	state, seq := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.afterMutation(state, seq)
	}
}

// RemoveItem removes the line for id. Removing an absent id is a silent
// no-op; a successful removal emits a notification with the product title.
func (s *Store) RemoveItem(id int64) {
	s.mu.Lock()
	var removed *model.CartLine
	for i := range s.lines {
		if s.lines[i].ID == id {
			line := s.lines[i]
			removed = &line
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	state, seq := s.snapshotLocked()
	s.mu.Unlock()

	if removed == nil {
		return
	}

	s.notifier.Error(fmt.Sprintf("%s removed from cart!", removed.Title))
	s.afterMutation(state, seq)
}

// ClearCart empties the cart unconditionally.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.lines = nil
	state, seq := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(state, seq)
}

// TotalItems returns the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice returns the sum of unit price times quantity over all lines,
// using the price stored on each line at add time.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.CartLine(nil), s.lines...)
}

// Summary returns the lines together with the derived totals.
func (s *Store) Summary() model.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := model.CartSummary{
		Lines: append([]model.CartLine(nil), s.lines...),
	}
	for _, line := range s.lines {
		summary.TotalItems += line.Quantity
		summary.TotalPrice += line.Subtotal()
	}
	return summary
}

// Close waits for in-flight persistence writes to finish.
func (s *Store) Close() {
	s.saves.Wait()
}

// afterMutation fans the snapshot out to subscribers and kicks off the
// fire-and-forget persistence write. Callers never wait on the write and a
// failed write only logs.
func (s *Store) afterMutation(state model.CartState, seq uint64) {
	for _, fn := range s.subs {
		fn(state)
	}

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		data, err := encodeState(state)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to encode cart state")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		s.saveMu.Lock()
		defer s.saveMu.Unlock()

		if seq <= s.savedSeq {
			// A newer snapshot has already been written.
			return
		}

		if err := s.slot.Put(ctx, s.slotName, data); err != nil {
			s.logger.Warn().Err(err).Msg("cart persistence write failed, continuing in memory")
			return
		}
		s.savedSeq = seq
	}()
}

// snapshotLocked copies the current lines and stamps the copy with the next
// persistence sequence number. Caller must hold the mutex; taking the number
// inside the critical section ties sequence order to mutation order even when
// mutations race each other to the slot.
func (s *Store) snapshotLocked() (model.CartState, uint64) {
	s.seq++
	return model.CartState{Lines: append([]model.CartLine(nil), s.lines...)}, s.seq
}

// encodeState serialises a cart state for the slot.
func encodeState(state model.CartState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart state: %w", err)
	}
	return data, nil
}

// decodeState deserialises a slot value into a cart state. Lines that violate
// the quantity invariant are dropped rather than restored.
func decodeState(data []byte) (model.CartState, error) {
	var state model.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.CartState{}, fmt.Errorf("failed to unmarshal cart state: %w", err)
	}

	valid := state.Lines[:0]
	for _, line := range state.Lines {
		if line.Quantity >= 1 {
			valid = append(valid, line)
		}
	}
	state.Lines = valid

	return state, nil
}
