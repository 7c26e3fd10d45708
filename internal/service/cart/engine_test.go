package cart

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/storefront"
)

type stubGateway struct {
	mu sync.Mutex

	createCart  *domain.Cart
	createErr   error
	createCalls int

	fetchCart *domain.Cart
	fetchErr  error

	addFn       func(call int, cartID string, lines []storefront.LineInput) (*domain.Cart, error)
	addCalls    int
	lastAddID   string
	lastAddAdds []storefront.LineInput

	updateResult    *domain.Cart
	updateErr       error
	lastUpdateID    string
	lastUpdateLines []storefront.LineUpdateInput

	removeFn    func(cartID string, lineIDs []string) (*domain.Cart, error)
	removeCalls int
}

func (s *stubGateway) CreateCart(_ context.Context) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	return s.createCart, s.createErr
}

func (s *stubGateway) Cart(_ context.Context, _ string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.fetchCart, nil
}

func (s *stubGateway) AddLines(_ context.Context, cartID string, lines []storefront.LineInput) (*domain.Cart, error) {
	s.mu.Lock()
	s.addCalls++
	call := s.addCalls
	s.lastAddID = cartID
	s.lastAddAdds = lines
	fn := s.addFn
	s.mu.Unlock()
	return fn(call, cartID, lines)
}

func (s *stubGateway) UpdateLines(_ context.Context, cartID string, lines []storefront.LineUpdateInput) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdateID = cartID
	s.lastUpdateLines = lines
	return s.updateResult, s.updateErr
}

func (s *stubGateway) RemoveLines(_ context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	s.mu.Lock()
	s.removeCalls++
	fn := s.removeFn
	s.mu.Unlock()
	return fn(cartID, lineIDs)
}

type stubIDStore struct {
	mu      sync.Mutex
	stored  map[string]string
	loadErr error
	saveErr error
	clears  int
}

func (s *stubIDStore) Load(_ context.Context, ownerKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return "", s.loadErr
	}
	id, ok := s.stored[ownerKey]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (s *stubIDStore) Save(_ context.Context, ownerKey, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.stored == nil {
		s.stored = make(map[string]string)
	}
	s.stored[ownerKey] = cartID
	return nil
}

func (s *stubIDStore) Clear(_ context.Context, ownerKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	delete(s.stored, ownerKey)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func usd(amount string) domain.Money {
	return domain.Money{Amount: amount, CurrencyCode: "USD"}
}

func emptyCart(id string) *domain.Cart {
	return &domain.Cart{
		ID:          id,
		CheckoutURL: "https://shop.example.com/checkouts/123",
		Lines:       []domain.Line{},
		Subtotal:    usd("0.00"),
		Total:       usd("0.00"),
	}
}

func cartWithLines(id string, lines ...domain.Line) *domain.Cart {
	c := emptyCart(id)
	c.Lines = append(c.Lines, lines...)
	return c
}

func line(id string, quantity int, amount string) domain.Line {
	return domain.Line{
		ID:       id,
		Quantity: quantity,
		Merchandise: domain.Merchandise{
			ID:           "var-" + id,
			Title:        "Variant " + id,
			ProductTitle: "Product " + id,
		},
		Cost: usd(amount),
	}
}

func TestResolveCreatesWhenNoStoredID(t *testing.T) {
	gw := &stubGateway{createCart: emptyCart("cart-1")}
	ids := &stubIDStore{}
	eng := NewEngine(gw, ids, "owner-1", testLogger())

	cart, err := eng.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Equal(t, "cart-1", ids.stored["owner-1"])
	assert.Equal(t, StateReady, eng.State())
	assert.Empty(t, eng.LastError())
}

func TestResolveIsIdempotent(t *testing.T) {
	gw := &stubGateway{createCart: emptyCart("cart-1")}
	ids := &stubIDStore{}
	eng := NewEngine(gw, ids, "owner-1", testLogger())

	first, err := eng.Resolve(context.Background())
	require.NoError(t, err)
	second, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, gw.createCalls)
}

func TestResolveResumesStoredCart(t *testing.T) {
	stored := cartWithLines("cart-9", line("l1", 2, "20.00"))
	gw := &stubGateway{fetchCart: stored}
	ids := &stubIDStore{stored: map[string]string{"owner-1": "cart-9"}}
	eng := NewEngine(gw, ids, "owner-1", testLogger())

	cart, err := eng.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cart-9", cart.ID)
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 0, gw.createCalls)
}

func TestResolveFallsBackWhenStoredCartGone(t *testing.T) {
	gw := &stubGateway{fetchErr: domain.ErrNotFound, createCart: emptyCart("cart-2")}
	ids := &stubIDStore{stored: map[string]string{"owner-1": "cart-old"}}
	eng := NewEngine(gw, ids, "owner-1", testLogger())

	cart, err := eng.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cart-2", cart.ID)
	assert.Equal(t, "cart-2", ids.stored["owner-1"])
	// A null cart just means the id is dead; only transport failures clear
	// the stored id explicitly.
	assert.Equal(t, 0, ids.clears)
}

func TestResolveClearsStoredIDOnTransportFailure(t *testing.T) {
	gw := &stubGateway{
		fetchErr:   &storefront.TransportError{Op: "cart", Err: context.DeadlineExceeded},
		createCart: emptyCart("cart-3"),
	}
	ids := &stubIDStore{stored: map[string]string{"owner-1": "cart-old"}}
	eng := NewEngine(gw, ids, "owner-1", testLogger())

	cart, err := eng.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cart-3", cart.ID)
	assert.Equal(t, 1, ids.clears)
	assert.Equal(t, "cart-3", ids.stored["owner-1"])
}

func TestResolveCreateFailure(t *testing.T) {
	gw := &stubGateway{createErr: &storefront.APIError{Op: "cartCreate", Fallback: "Failed to create cart"}}
	ids := &stubIDStore{}
	eng := NewEngine(gw, ids, "owner-1", testLogger())

	_, err := eng.Resolve(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateErrored, eng.State())
	assert.Equal(t, "Failed to create cart", eng.LastError())
	assert.Nil(t, eng.Snapshot())
}

func TestAddLineReplacesSnapshotFromServer(t *testing.T) {
	added := cartWithLines("cart-1", line("line-1", 1, "10.00"))
	added.Subtotal = usd("10.00")
	added.Total = usd("10.00")

	gw := &stubGateway{
		createCart: emptyCart("cart-1"),
		addFn: func(_ int, _ string, _ []storefront.LineInput) (*domain.Cart, error) {
			return added, nil
		},
	}
	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())

	cart, err := eng.AddLine(context.Background(), "variant-1", 1)

	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, "10.00", cart.Subtotal.Amount)
	assert.Equal(t, "USD", cart.Subtotal.CurrencyCode)
	assert.Equal(t, StateReady, eng.State())
	assert.Empty(t, eng.LastError())
	require.Len(t, gw.lastAddAdds, 1)
	assert.Equal(t, "variant-1", gw.lastAddAdds[0].MerchandiseID)
	assert.Equal(t, 1, gw.lastAddAdds[0].Quantity)
}

func TestAddLineUserErrorKeepsLastGoodSnapshot(t *testing.T) {
	gw := &stubGateway{
		createCart: emptyCart("cart-1"),
		addFn: func(_ int, _ string, _ []storefront.LineInput) (*domain.Cart, error) {
			return nil, &storefront.APIError{Op: "cartLinesAdd", Messages: []string{"Variant out of stock"}, Fallback: "Failed to add line"}
		},
	}
	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())

	before, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	_, err = eng.AddLine(context.Background(), "variant-1", 1)

	require.Error(t, err)
	assert.Equal(t, "Variant out of stock", eng.LastError())
	assert.Equal(t, StateErrored, eng.State())
	assert.Equal(t, before, eng.Snapshot())
}

func TestUpdateLineQuantityRequiresExistingCart(t *testing.T) {
	eng := NewEngine(&stubGateway{}, &stubIDStore{}, "owner-1", testLogger())

	_, err := eng.UpdateLineQuantity(context.Background(), "line-1", 2)

	assert.ErrorIs(t, err, domain.ErrNoCart)
}

func TestUpdateLineQuantityForwardsValueAsIs(t *testing.T) {
	updated := emptyCart("cart-1")
	gw := &stubGateway{createCart: cartWithLines("cart-1", line("line-1", 1, "10.00")), updateResult: updated}
	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())

	_, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	// Zero is not special-cased into a removal; the remote API decides.
	_, err = eng.UpdateLineQuantity(context.Background(), "line-1", 0)

	require.NoError(t, err)
	require.Len(t, gw.lastUpdateLines, 1)
	assert.Equal(t, "line-1", gw.lastUpdateLines[0].ID)
	assert.Equal(t, 0, gw.lastUpdateLines[0].Quantity)
}

func TestRemoveLastLineLeavesEmptyReadyCart(t *testing.T) {
	gw := &stubGateway{
		createCart: cartWithLines("cart-1", line("line-1", 1, "10.00")),
		removeFn: func(_ string, _ []string) (*domain.Cart, error) {
			return emptyCart("cart-1"), nil
		},
	}
	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())

	_, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	cart, err := eng.RemoveLine(context.Background(), "line-1")

	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, StateReady, eng.State())
}

func TestClearRemovesAllLinesConcurrently(t *testing.T) {
	full := cartWithLines("cart-1", line("l1", 1, "10.00"), line("l2", 2, "20.00"), line("l3", 3, "30.00"))

	var barrier sync.WaitGroup
	barrier.Add(3)
	var mu sync.Mutex
	removed := make(map[string]bool)

	gw := &stubGateway{createCart: full}
	gw.removeFn = func(_ string, lineIDs []string) (*domain.Cart, error) {
		mu.Lock()
		for _, id := range lineIDs {
			removed[id] = true
		}
		mu.Unlock()
		// Block until every remove reached the server so each response
		// reflects all three removals, whatever the completion order.
		barrier.Done()
		barrier.Wait()

		mu.Lock()
		defer mu.Unlock()
		result := emptyCart("cart-1")
		for _, l := range full.Lines {
			if !removed[l.ID] {
				result.Lines = append(result.Lines, l)
			}
		}
		return result, nil
	}

	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())
	_, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	cart, err := eng.Clear(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, gw.removeCalls)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, StateReady, eng.State())
}

func TestClearOnEmptyCartIsNoOp(t *testing.T) {
	gw := &stubGateway{createCart: emptyCart("cart-1")}
	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())

	_, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	cart, err := eng.Clear(context.Background())

	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, gw.removeCalls)
}

func TestStaleMutationResponseIsDiscarded(t *testing.T) {
	stale := cartWithLines("cart-1", line("stale", 1, "10.00"))
	fresh := cartWithLines("cart-1", line("fresh", 2, "20.00"))

	firstArrived := make(chan struct{})
	release := make(chan struct{})

	gw := &stubGateway{createCart: emptyCart("cart-1")}
	gw.addFn = func(call int, _ string, _ []storefront.LineInput) (*domain.Cart, error) {
		if call == 1 {
			close(firstArrived)
			<-release
			return stale, nil
		}
		return fresh, nil
	}

	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())
	_, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	var slowCart *domain.Cart
	go func() {
		defer wg.Done()
		slowCart, _ = eng.AddLine(context.Background(), "variant-slow", 1)
	}()

	// Let the slow mutation take its ticket and reach the gateway before
	// the fast one starts.
	<-firstArrived
	fastCart, err := eng.AddLine(context.Background(), "variant-fast", 1)
	require.NoError(t, err)
	require.Len(t, fastCart.Lines, 1)
	assert.Equal(t, "fresh", fastCart.Lines[0].ID)

	close(release)
	wg.Wait()

	// The slow response completed after a newer mutation, so it was
	// discarded and both callers observe the fresher snapshot.
	require.NotNil(t, slowCart)
	require.Len(t, slowCart.Lines, 1)
	assert.Equal(t, "fresh", slowCart.Lines[0].ID)
	assert.Equal(t, "fresh", eng.Snapshot().Lines[0].ID)
	assert.Equal(t, StateReady, eng.State())
}

func TestRefreshOverwritesSnapshot(t *testing.T) {
	reconciled := cartWithLines("cart-1", line("l1", 5, "50.00"))
	gw := &stubGateway{createCart: emptyCart("cart-1")}
	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())

	_, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	gw.mu.Lock()
	gw.fetchCart = reconciled
	gw.mu.Unlock()

	cart, err := eng.Refresh(context.Background())

	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	gw := &stubGateway{createCart: emptyCart("cart-1")}
	eng := NewEngine(gw, &stubIDStore{}, "owner-1", testLogger())

	before, err := eng.Resolve(context.Background())
	require.NoError(t, err)

	gw.mu.Lock()
	gw.fetchErr = domain.ErrNotFound
	gw.mu.Unlock()

	_, err = eng.Refresh(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateErrored, eng.State())
	assert.Equal(t, before, eng.Snapshot())
}

func TestRegistryReturnsSameEnginePerOwner(t *testing.T) {
	reg := NewRegistry(&stubGateway{}, &stubIDStore{}, testLogger())

	a := reg.For("owner-a")
	b := reg.For("owner-b")

	assert.Same(t, a, reg.For("owner-a"))
	assert.NotSame(t, a, b)
}
