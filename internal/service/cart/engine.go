package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"storefront/internal/domain"
	"storefront/internal/storefront"
)

type gateway interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	Cart(ctx context.Context, id string) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []storefront.LineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []storefront.LineUpdateInput) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
}

type identityStore interface {
	Load(ctx context.Context, ownerKey string) (string, error)
	Save(ctx context.Context, ownerKey, cartID string) error
	Clear(ctx context.Context, ownerKey string) error
}

// State describes where the engine is in its lifecycle. Errored keeps the
// last good snapshot alongside the stored message.
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateReady
	StateMutating
	StateErrored
)

// Engine owns the in-memory snapshot of one owner's cart and reconciles it
// against the remote resource. The snapshot is only ever a cached copy; the
// server's returned cart is authoritative for line ids and computed costs,
// so every successful mutation replaces the snapshot wholesale.
//
// Concurrent mutations are allowed. Each one takes a monotonic ticket when
// it starts and its response is applied only if no newer mutation has
// completed since; stale responses are discarded instead of overwriting a
// fresher snapshot.
type Engine struct {
	gw    gateway
	ids   identityStore
	owner string
	log   *logrus.Entry

	resolveMu sync.Mutex // serializes resume-or-create

	mu       sync.Mutex
	state    State
	snapshot *domain.Cart
	lastErr  string
	pending  int
	next     uint64 // ticket source
	applied  uint64 // ticket of the last applied response
}

func NewEngine(gw gateway, ids identityStore, owner string, logger *logrus.Logger) *Engine {
	return &Engine{
		gw:    gw,
		ids:   ids,
		owner: owner,
		log:   logger.WithFields(logrus.Fields{"component": "cart", "owner": owner}),
	}
}

// Snapshot returns the current cached cart, which may be nil before the
// first successful resolve. Callers must treat it as read-only.
func (e *Engine) Snapshot() *domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastError returns the stored human-readable message from the most recent
// failed operation, empty once an operation succeeds again.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Resolve resumes the stored cart identifier or creates a new cart. It is
// idempotent: once a snapshot exists, it is returned as-is. After a
// successful resolve exactly one identifier is persisted and it matches the
// snapshot's id.
func (e *Engine) Resolve(ctx context.Context) (*domain.Cart, error) {
	e.resolveMu.Lock()
	defer e.resolveMu.Unlock()

	e.mu.Lock()
	if e.snapshot != nil {
		snap := e.snapshot
		e.mu.Unlock()
		return snap, nil
	}
	e.state = StateResolving
	e.mu.Unlock()

	storedID, err := e.ids.Load(ctx, e.owner)
	switch {
	case err == nil:
		cart, ferr := e.gw.Cart(ctx, storedID)
		if ferr == nil {
			return e.adopt(cart), nil
		}
		if !errors.Is(ferr, domain.ErrNotFound) {
			// Transport-level failure on resumption: drop the stored id
			// and fall through to creation.
			e.log.WithError(ferr).Warn("stored cart did not resolve, creating a new one")
			if cerr := e.ids.Clear(ctx, e.owner); cerr != nil {
				e.log.WithError(cerr).Warn("clear stored cart id")
			}
		}
		// A null cart means the id no longer resolves; the new id from
		// creation overwrites it below.
	case !errors.Is(err, domain.ErrNotFound):
		return nil, e.fail(err)
	}

	cart, err := e.gw.CreateCart(ctx)
	if err != nil {
		return nil, e.fail(err)
	}
	if err := e.ids.Save(ctx, e.owner, cart.ID); err != nil {
		return nil, e.fail(err)
	}
	return e.adopt(cart), nil
}

// AddLine appends a single new line, resolving a cart first if none exists.
// Quantity validation (>= 1) is the caller's responsibility.
func (e *Engine) AddLine(ctx context.Context, merchandiseID string, quantity int) (*domain.Cart, error) {
	cart, err := e.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	ticket := e.begin()
	updated, err := e.gw.AddLines(ctx, cart.ID, []storefront.LineInput{{MerchandiseID: merchandiseID, Quantity: quantity}})
	if err != nil {
		return nil, e.failTicket(ticket, err)
	}
	return e.apply(ticket, updated), nil
}

// UpdateLineQuantity requires an existing cart. The quantity is forwarded
// to the remote mutation as-is; zero or negative values are not
// special-cased into removals and any rejection surfaces as an API error.
func (e *Engine) UpdateLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.Cart, error) {
	cart, err := e.current()
	if err != nil {
		return nil, err
	}
	ticket := e.begin()
	updated, err := e.gw.UpdateLines(ctx, cart.ID, []storefront.LineUpdateInput{{ID: lineID, Quantity: quantity}})
	if err != nil {
		return nil, e.failTicket(ticket, err)
	}
	return e.apply(ticket, updated), nil
}

// RemoveLine requires an existing cart. Removing the last line yields a
// Ready snapshot with zero lines, not an absent cart.
func (e *Engine) RemoveLine(ctx context.Context, lineID string) (*domain.Cart, error) {
	cart, err := e.current()
	if err != nil {
		return nil, err
	}
	ticket := e.begin()
	updated, err := e.gw.RemoveLines(ctx, cart.ID, []string{lineID})
	if err != nil {
		return nil, e.failTicket(ticket, err)
	}
	return e.apply(ticket, updated), nil
}

// Clear removes every current line with one concurrent remove mutation per
// line. There is no ordering or atomicity guarantee between them: if one
// remove fails the others still apply, and the first error (if any) is
// returned alongside whatever snapshot the surviving responses produced.
func (e *Engine) Clear(ctx context.Context) (*domain.Cart, error) {
	cart, err := e.current()
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return cart, nil
	}

	var g errgroup.Group
	for _, line := range cart.Lines {
		lineID := line.ID
		g.Go(func() error {
			_, err := e.RemoveLine(ctx, lineID)
			return err
		})
	}
	err = g.Wait()
	return e.Snapshot(), err
}

// Refresh re-fetches the cart by id and unconditionally overwrites the
// snapshot, reconciling any stale local state.
func (e *Engine) Refresh(ctx context.Context) (*domain.Cart, error) {
	cart, err := e.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	ticket := e.begin()
	fresh, err := e.gw.Cart(ctx, cart.ID)
	if err != nil {
		return nil, e.failTicket(ticket, err)
	}
	return e.apply(ticket, fresh), nil
}

// current returns the snapshot for operations that require an existing
// cart, failing with domain.ErrNoCart before one has been resolved.
func (e *Engine) current() (*domain.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snapshot == nil {
		return nil, domain.ErrNoCart
	}
	return e.snapshot, nil
}

func (e *Engine) adopt(cart *domain.Cart) *domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = cart
	e.state = StateReady
	e.lastErr = ""
	return cart
}

// begin hands out the next mutation ticket and clears any previous error,
// mirroring how each operation starts from a clean error state.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.pending++
	e.state = StateMutating
	e.lastErr = ""
	return e.next
}

// apply installs a server response unless a newer mutation already
// completed, in which case the stale response is discarded and the current
// snapshot returned instead.
func (e *Engine) apply(ticket uint64, cart *domain.Cart) *domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending--
	if ticket > e.applied {
		e.applied = ticket
		e.snapshot = cart
		e.lastErr = ""
	} else {
		e.log.WithField("ticket", ticket).Debug("discarding stale mutation response")
	}
	if e.pending == 0 {
		e.state = StateReady
	}
	return e.snapshot
}

// failTicket records a mutation failure. The applied ticket is left alone
// so a slower successful response can still land; the last good snapshot is
// never rolled back.
func (e *Engine) failTicket(_ uint64, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending--
	e.state = StateErrored
	e.lastErr = err.Error()
	return err
}

func (e *Engine) fail(err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateErrored
	e.lastErr = err.Error()
	return err
}
