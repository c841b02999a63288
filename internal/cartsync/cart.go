// Package cartsync keeps a client-side cart on disk and mirrors it to the
// server for signed-in users.
package cartsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

var ErrUnknownItem = errors.New("cartsync: product not in cart")

// Remote is the server side of the cart.
type Remote interface {
	GetCart(ctx context.Context) (*types.Cart, error)
	ReplaceCart(ctx context.Context, items types.LineItems) (*types.Cart, error)
}

// Totals is what decides whether a push is needed.
type Totals struct {
	Items  int   `json:"items"`
	Amount int64 `json:"amount"`
}

type fileState struct {
	Items      types.LineItems `json:"items"`
	UserID     int64           `json:"userId,omitempty"`
	LastPushed *Totals         `json:"lastPushed,omitempty"`
}

// Cart is safe for concurrent use. Every mutation is written to path before
// the optional push.
type Cart struct {
	mu     sync.Mutex
	path   string
	remote Remote
	logg   *logger.Logger

	items      map[int64]types.LineItem
	userID     int64
	lastPushed *Totals
}

// Open loads the cart stored at path, starting empty when the file is missing.
func Open(path string, remote Remote, logg *logger.Logger) (*Cart, error) {
	if path == "" {
		return nil, fmt.Errorf("cart path is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	c := &Cart{path: path, remote: remote, logg: logg, items: map[int64]types.LineItem{}}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", path, err)
	}
	for _, item := range state.Items {
		c.items[item.ProductID] = item
	}
	c.userID = state.UserID
	c.lastPushed = state.LastPushed
	return c, nil
}

// Items returns the lines ordered by product id.
func (c *Cart) Items() types.LineItems {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals()
}

// UserID is the signed-in user the cart syncs for; zero means guest.
func (c *Cart) UserID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Add puts quantity more of product into the cart, raising the line to the
// product's minimum order quantity when it would fall short.
func (c *Cart) Add(ctx context.Context, product types.Product, quantity int) error {
	if product.ID <= 0 {
		return fmt.Errorf("product id must be positive")
	}
	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	return c.mutate(ctx, func() error {
		next := c.items[product.ID].Quantity + quantity
		if next < product.MinOrderQuantity {
			next = product.MinOrderQuantity
		}
		if next < 1 {
			next = 1
		}
		c.items[product.ID] = line(product.ID, product.Name, product.Price, next)
		return nil
	})
}

// SetQuantity overwrites a line's quantity. Quantities below one are refused;
// use Remove to drop a line.
func (c *Cart) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	return c.mutate(ctx, func() error {
		item, ok := c.items[productID]
		if !ok {
			return ErrUnknownItem
		}
		c.items[productID] = line(item.ProductID, item.Name, item.Price, quantity)
		return nil
	})
}

func (c *Cart) Increment(ctx context.Context, productID int64) error {
	return c.mutate(ctx, func() error {
		item, ok := c.items[productID]
		if !ok {
			return ErrUnknownItem
		}
		c.items[productID] = line(item.ProductID, item.Name, item.Price, item.Quantity+1)
		return nil
	})
}

// Decrement lowers a line by one and stops at one.
func (c *Cart) Decrement(ctx context.Context, productID int64) error {
	return c.mutate(ctx, func() error {
		item, ok := c.items[productID]
		if !ok {
			return ErrUnknownItem
		}
		if item.Quantity <= 1 {
			return nil
		}
		c.items[productID] = line(item.ProductID, item.Name, item.Price, item.Quantity-1)
		return nil
	})
}

func (c *Cart) Remove(ctx context.Context, productID int64) error {
	return c.mutate(ctx, func() error {
		if _, ok := c.items[productID]; !ok {
			return ErrUnknownItem
		}
		delete(c.items, productID)
		return nil
	})
}

func (c *Cart) Clear(ctx context.Context) error {
	return c.mutate(ctx, func() error {
		c.items = map[int64]types.LineItem{}
		return nil
	})
}

// Login binds the cart to userID and replaces the local lines with the
// server's copy. Server carts win; nothing is merged.
func (c *Cart) Login(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("user id must be positive")
	}
	if c.remote == nil {
		return fmt.Errorf("no remote configured")
	}
	remote, err := c.remote.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("load server cart: %w", err)
	}

	priced, _, err := remote.Items.Priced()
	if err != nil {
		return fmt.Errorf("server cart: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = userID
	c.items = make(map[int64]types.LineItem, len(priced))
	for _, item := range priced {
		c.items[item.ProductID] = item
	}
	totals := c.totals()
	c.lastPushed = &totals
	return c.save()
}

// Logout unbinds the user. The local lines stay as a guest cart.
func (c *Cart) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = 0
	c.lastPushed = nil
	return c.save()
}

func (c *Cart) mutate(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := make(map[int64]types.LineItem, len(c.items))
	for id, item := range c.items {
		before[id] = item
	}
	if err := fn(); err != nil {
		c.items = before
		return err
	}
	if err := c.reprice(); err != nil {
		c.items = before
		return err
	}
	if err := c.save(); err != nil {
		return err
	}
	c.push(ctx)
	return nil
}

// push mirrors the cart to the server when a user is signed in and the item
// count or amount moved since the last successful push. A failed push is
// logged and retried implicitly by the next mutation.
func (c *Cart) push(ctx context.Context) {
	if c.userID <= 0 || c.remote == nil {
		return
	}
	totals := c.totals()
	if c.lastPushed != nil && *c.lastPushed == totals {
		return
	}

	if _, err := c.remote.ReplaceCart(ctx, c.snapshot()); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
			"user_id": c.userID,
			"items":   totals.Items,
			"error":   err.Error(),
		}), "cart.sync_failed")
		return
	}
	c.lastPushed = &totals
	if err := c.save(); err != nil {
		c.logg.Error(ctx, "cart.save_failed", err)
	}
}

func (c *Cart) snapshot() types.LineItems {
	out := make(types.LineItems, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (c *Cart) totals() Totals {
	var t Totals
	for _, item := range c.items {
		t.Items += item.Quantity
		t.Amount += item.Subtotal
	}
	return t
}

func (c *Cart) save() error {
	state := fileState{Items: c.snapshot(), UserID: c.userID, LastPushed: c.lastPushed}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return os.Rename(tmp, c.path)
}

// line builds an unpriced line; reprice fills in the subtotal.
func line(productID int64, name string, price int64, quantity int) types.LineItem {
	return types.LineItem{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
	}
}

// reprice recomputes every subtotal and refuses a cart whose total would
// overflow.
func (c *Cart) reprice() error {
	lines := c.snapshot()
	priced, _, err := lines.Priced()
	if err != nil {
		var overflow *types.LineOverflowError
		if errors.As(err, &overflow) {
			return fmt.Errorf("product %d: %w", lines[overflow.Index].ProductID, types.ErrAmountOverflow)
		}
		return err
	}
	for _, item := range priced {
		c.items[item.ProductID] = item
	}
	return nil
}
