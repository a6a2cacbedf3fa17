package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memSlot is an in-memory Slot implementation for tests.
type memSlot struct {
	mu     sync.Mutex
	values map[string][]byte
	getErr error
	putErr error
}

func newMemSlot() *memSlot {
	return &memSlot{values: make(map[string][]byte)}
}

func (s *memSlot) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	value, ok := s.values[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return value, nil
}

func (s *memSlot) Put(ctx context.Context, name string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}
	s.values[name] = append([]byte(nil), value...)
	return nil
}

// recordingNotifier captures emitted notifications.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

var (
	redShirt = model.Product{ID: 1, Title: "Red Shirt", Category: "clothing", Price: 20}
	blueMug  = model.Product{ID: 2, Title: "Blue Mug", Category: "home", Price: 10}
)

func newTestStore(t *testing.T, slot storage.Slot, notifier notify.Notifier) *Store {
	t.Helper()

	if notifier == nil {
		notifier = notify.Nop{}
	}
	store := NewStore(slot, "cart-storage", notifier, zerolog.Nop())
	t.Cleanup(store.Close)

	return store
}

func TestStore_AddToCart_RepeatedAddsAccumulate(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	for i := 0; i < 5; i++ {
		store.AddToCart(redShirt)
	}

	assert.Equal(t, 5, store.TotalItems())

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, redShirt.ID, lines[0].ID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestStore_AddToCart_Notifications(t *testing.T) {
	notifier := &recordingNotifier{}
	store := newTestStore(t, newMemSlot(), notifier)

	store.AddToCart(redShirt)
	store.AddToCart(redShirt)
	store.AddToCart(blueMug)

	assert.Equal(t, []string{
		"Red Shirt added to cart!",
		"Red Shirt quantity updated!",
		"Blue Mug added to cart!",
	}, notifier.successes)
	assert.Empty(t, notifier.errors)
}

func TestStore_AddToCart_PreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	store.AddToCart(redShirt)
	store.AddToCart(blueMug)
	store.AddToCart(redShirt)

	lines := store.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, redShirt.ID, lines[0].ID)
	assert.Equal(t, blueMug.ID, lines[1].ID)
}

func TestStore_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name          string
		id            int64
		quantity      int
		expectedItems int
		expectedLines int
	}{
		{
			name:          "Absolute set overrides accumulated quantity",
			id:            redShirt.ID,
			quantity:      7,
			expectedItems: 7 + 1, // red shirt set to 7, blue mug untouched
			expectedLines: 2,
		},
		{
			name:          "Zero quantity removes the line",
			id:            redShirt.ID,
			quantity:      0,
			expectedItems: 1,
			expectedLines: 1,
		},
		{
			name:          "Negative quantity removes the line",
			id:            redShirt.ID,
			quantity:      -3,
			expectedItems: 1,
			expectedLines: 1,
		},
		{
			name:          "Unknown id is a no-op",
			id:            999,
			quantity:      4,
			expectedItems: 3,
			expectedLines: 2,
		},
		{
			name:          "Unknown id with non-positive quantity is a no-op",
			id:            999,
			quantity:      0,
			expectedItems: 3,
			expectedLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, newMemSlot(), nil)
			store.AddToCart(redShirt)
			store.AddToCart(redShirt)
			store.AddToCart(blueMug)

			store.UpdateQuantity(tt.id, tt.quantity)

			assert.Equal(t, tt.expectedItems, store.TotalItems())
			assert.Len(t, store.Lines(), tt.expectedLines)
		})
	}
}

func TestStore_RemoveItem(t *testing.T) {
	notifier := &recordingNotifier{}
	store := newTestStore(t, newMemSlot(), notifier)

	store.AddToCart(redShirt)
	store.AddToCart(blueMug)

	store.RemoveItem(redShirt.ID)

	assert.Equal(t, 1, store.TotalItems())
	assert.Equal(t, []string{"Red Shirt removed from cart!"}, notifier.errors)
}

func TestStore_RemoveItem_AbsentIDIsNoOp(t *testing.T) {
	notifier := &recordingNotifier{}
	store := newTestStore(t, newMemSlot(), notifier)

	store.AddToCart(redShirt)

	store.RemoveItem(999)

	assert.Equal(t, 1, store.TotalItems())
	assert.Len(t, store.Lines(), 1)
	assert.Empty(t, notifier.errors)
}

func TestStore_ClearCart(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	store.AddToCart(redShirt)
	store.AddToCart(blueMug)

	store.ClearCart()

	assert.Equal(t, 0, store.TotalItems())
	assert.Equal(t, 0.0, store.TotalPrice())
	assert.Empty(t, store.Lines())
}

func TestStore_TotalPrice(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	store.AddToCart(redShirt) // 20
	store.AddToCart(redShirt) // 40
	store.AddToCart(blueMug)  // 50

	assert.Equal(t, 50.0, store.TotalPrice())
}

func TestStore_TotalPrice_UsesStoredUnitPrice(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	store.AddToCart(redShirt)

	// An upstream price change after the first add must not affect the cart
	// total: the line keeps the unit price captured at add time.
	repriced := redShirt
	repriced.Price = 99
	store.AddToCart(repriced)

	assert.Equal(t, 40.0, store.TotalPrice())

	store.UpdateQuantity(redShirt.ID, 3)
	assert.Equal(t, 60.0, store.TotalPrice())
}

func TestStore_EmptyCartTotals(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	assert.Equal(t, 0, store.TotalItems())
	assert.Equal(t, 0.0, store.TotalPrice())
}

func TestStore_PersistAndRestore(t *testing.T) {
	slot := newMemSlot()

	store := newTestStore(t, slot, nil)
	store.AddToCart(redShirt)
	store.AddToCart(redShirt)
	store.AddToCart(blueMug)
	store.Close() // wait for background writes

	restored := newTestStore(t, slot, nil)
	restored.Load(context.Background())

	assert.Equal(t, store.Lines(), restored.Lines())
	assert.Equal(t, 3, restored.TotalItems())
	assert.Equal(t, 50.0, restored.TotalPrice())
}

// stallNotifier holds the mutation whose message carries stallTitle between
// its state change and its persistence write, letting other mutations through.
type stallNotifier struct {
	stallTitle string
	stalled    chan struct{}
	release    chan struct{}
}

func (n *stallNotifier) Success(message string) {
	if strings.HasPrefix(message, n.stallTitle) {
		close(n.stalled)
		<-n.release
	}
}

func (n *stallNotifier) Error(string) {}

func TestStore_ConcurrentMutations_NewestSnapshotStaysDurable(t *testing.T) {
	slot := newMemSlot()
	notifier := &stallNotifier{
		stallTitle: redShirt.Title,
		stalled:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	store := newTestStore(t, slot, notifier)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.AddToCart(redShirt)
	}()
	<-notifier.stalled // first mutation applied, write not yet started

	store.AddToCart(blueMug)
	require.Eventually(t, func() bool {
		data, err := slot.Get(context.Background(), "cart-storage")
		if err != nil {
			return false
		}
		state, err := decodeState(data)
		return err == nil && len(state.Lines) == 2
	}, time.Second, 5*time.Millisecond)

	close(notifier.release)
	<-done
	store.Close()

	// The held write carries an older sequence number and must not displace
	// the two-line snapshot already in the slot.
	data, err := slot.Get(context.Background(), "cart-storage")
	require.NoError(t, err)
	state, err := decodeState(data)
	require.NoError(t, err)
	require.Len(t, state.Lines, 2)
	assert.Equal(t, 2, store.TotalItems())
}

func TestStore_Load_AbsentSlotStartsEmpty(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	store.Load(context.Background())

	assert.Equal(t, 0, store.TotalItems())
}

func TestStore_Load_MalformedValueStartsEmpty(t *testing.T) {
	slot := newMemSlot()
	require.NoError(t, slot.Put(context.Background(), "cart-storage", []byte("{not json")))

	store := newTestStore(t, slot, nil)
	store.Load(context.Background())

	assert.Equal(t, 0, store.TotalItems())
}

func TestStore_Load_DropsLinesViolatingQuantityInvariant(t *testing.T) {
	slot := newMemSlot()
	data, err := encodeState(model.CartState{Lines: []model.CartLine{
		{Product: redShirt, Quantity: 2},
		{Product: blueMug, Quantity: 0},
	}})
	require.NoError(t, err)
	require.NoError(t, slot.Put(context.Background(), "cart-storage", data))

	store := newTestStore(t, slot, nil)
	store.Load(context.Background())

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, redShirt.ID, lines[0].ID)
}

func TestStore_Load_StorageErrorStartsEmpty(t *testing.T) {
	slot := newMemSlot()
	slot.getErr = errors.New("storage unavailable")

	store := newTestStore(t, slot, nil)
	store.Load(context.Background())

	assert.Equal(t, 0, store.TotalItems())
}

func TestStore_PersistenceFailureDoesNotBreakOperations(t *testing.T) {
	slot := newMemSlot()
	slot.putErr = errors.New("storage unavailable")

	store := newTestStore(t, slot, nil)

	store.AddToCart(redShirt)
	store.AddToCart(blueMug)
	store.UpdateQuantity(blueMug.ID, 4)

	assert.Equal(t, 5, store.TotalItems())
	assert.Equal(t, 60.0, store.TotalPrice())
}

func TestStore_Subscribe(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)

	var snapshots []model.CartState
	store.Subscribe(func(state model.CartState) {
		snapshots = append(snapshots, state)
	})

	store.AddToCart(redShirt)
	store.UpdateQuantity(redShirt.ID, 3)
	store.ClearCart()

	require.Len(t, snapshots, 3)
	assert.Equal(t, 1, snapshots[0].Lines[0].Quantity)
	assert.Equal(t, 3, snapshots[1].Lines[0].Quantity)
	assert.Empty(t, snapshots[2].Lines)
}

func TestStore_Subscribe_NotCalledForNoOpMutations(t *testing.T) {
	store := newTestStore(t, newMemSlot(), nil)
	store.AddToCart(redShirt)

	calls := 0
	store.Subscribe(func(model.CartState) { calls++ })

	store.UpdateQuantity(999, 4)  // unknown id
	store.UpdateQuantity(999, -1) // unknown id, non-positive
	store.RemoveItem(999)         // unknown id

	assert.Equal(t, 0, calls)
}

func TestEncodeDecodeState_RoundTrip(t *testing.T) {
	state := model.CartState{Lines: []model.CartLine{
		{Product: redShirt, Quantity: 2},
		{Product: blueMug, Quantity: 7},
	}}

	data, err := encodeState(state)
	require.NoError(t, err)

	decoded, err := decodeState(data)
	require.NoError(t, err)

	assert.Equal(t, state, decoded)
}
