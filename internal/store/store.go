package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/loganlanou/podstore/internal/utils"
)

// Keys the two sequences are stored under, matching the storefront's
// original local storage keys.
const (
	CartKey     = "cart"
	WishlistKey = "wishlist"
)

// ErrCorrupt wraps a persisted value that is not valid JSON for its sequence.
var ErrCorrupt = errors.New("store: corrupt value")

type CartItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Quantity    int    `json:"quantity"`
}

// LineTotalCents is price × quantity in minor units; unparseable prices count as zero.
func (i CartItem) LineTotalCents() int64 {
	cents, err := utils.ParseCents(i.Price)
	if err != nil {
		return 0
	}
	return cents * int64(i.Quantity)
}

type WishlistItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Price string `json:"price"`
}

// Cart is the shopper's intended purchase. SetQuantity never removes an
// item; callers remove explicitly.
type Cart interface {
	Load(ctx context.Context) ([]CartItem, error)
	Add(ctx context.Context, item CartItem) error
	Remove(ctx context.Context, id string) error
	SetQuantity(ctx context.Context, id string, n int) error
	Clear(ctx context.Context) error
}

type Wishlist interface {
	Load(ctx context.Context) ([]WishlistItem, error)
	Add(ctx context.Context, item WishlistItem) error
	Remove(ctx context.Context, id string) error
	Toggle(ctx context.Context, item WishlistItem) (bool, error)
	Clear(ctx context.Context) error
}

// Session bundles the stores belonging to one shopper.
type Session struct {
	ID       string
	Cart     Cart
	Wishlist Wishlist
}

// Manager hands out per-session stores over a shared backend.
type Manager struct {
	backend Backend
}

func NewManager(backend Backend) *Manager {
	return &Manager{backend: backend}
}

func (m *Manager) Backend() Backend {
	return m.backend
}

func (m *Manager) ForSession(sessionID string) *Session {
	return &Session{
		ID:       sessionID,
		Cart:     &cart{seq: sequence[CartItem]{backend: m.backend, sessionID: sessionID, key: CartKey}},
		Wishlist: &wishlist{seq: sequence[WishlistItem]{backend: m.backend, sessionID: sessionID, key: WishlistKey}},
	}
}

// sequence reads and writes one JSON array under a key.
type sequence[T any] struct {
	backend   Backend
	sessionID string
	key       string
}

func (s sequence[T]) load(ctx context.Context) ([]T, error) {
	raw, err := s.backend.Get(ctx, s.sessionID, s.key)
	if errors.Is(err, ErrNoValue) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", s.key, ErrCorrupt, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s sequence[T]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.backend.Set(ctx, s.sessionID, s.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func (s sequence[T]) clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.sessionID, s.key); err != nil {
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	return nil
}

type cart struct {
	seq sequence[CartItem]
}

func (c *cart) Load(ctx context.Context) ([]CartItem, error) {
	return c.seq.load(ctx)
}

// Add merges by id, incrementing quantity on a repeat add.
func (c *cart) Add(ctx context.Context, item CartItem) error {
	if item.ID == "" {
		return errors.New("cart item id is required")
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items, err := c.seq.load(ctx)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			return c.seq.save(ctx, items)
		}
	}

	return c.seq.save(ctx, append(items, item))
}

func (c *cart) Remove(ctx context.Context, id string) error {
	items, err := c.seq.load(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return c.seq.save(ctx, kept)
}

// SetQuantity is a no-op for n < 1 or an unknown id.
func (c *cart) SetQuantity(ctx context.Context, id string, n int) error {
	if n < 1 {
		return nil
	}

	items, err := c.seq.load(ctx)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = n
			return c.seq.save(ctx, items)
		}
	}
	return nil
}

func (c *cart) Clear(ctx context.Context) error {
	return c.seq.clear(ctx)
}

type wishlist struct {
	seq sequence[WishlistItem]
}

func (w *wishlist) Load(ctx context.Context) ([]WishlistItem, error) {
	return w.seq.load(ctx)
}

// Add ignores items already on the list.
func (w *wishlist) Add(ctx context.Context, item WishlistItem) error {
	if item.ID == "" {
		return errors.New("wishlist item id is required")
	}

	items, err := w.seq.load(ctx)
	if err != nil {
		return err
	}
	if containsWishlist(items, item.ID) {
		return nil
	}
	return w.seq.save(ctx, append(items, item))
}

func (w *wishlist) Remove(ctx context.Context, id string) error {
	items, err := w.seq.load(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return w.seq.save(ctx, kept)
}

// Toggle adds the item if absent and removes it otherwise. It reports
// whether the item is on the list afterwards.
func (w *wishlist) Toggle(ctx context.Context, item WishlistItem) (bool, error) {
	items, err := w.seq.load(ctx)
	if err != nil {
		return false, err
	}
	if containsWishlist(items, item.ID) {
		return false, w.Remove(ctx, item.ID)
	}
	return true, w.Add(ctx, item)
}

func (w *wishlist) Clear(ctx context.Context) error {
	return w.seq.clear(ctx)
}

func containsWishlist(items []WishlistItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Contains reports whether id is on the wishlist.
func Contains(ctx context.Context, w Wishlist, id string) (bool, error) {
	items, err := w.Load(ctx)
	if err != nil {
		return false, err
	}
	return containsWishlist(items, id), nil
}

// Count returns the number of cart entries, not the quantity sum.
func Count(ctx context.Context, c Cart) (int, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// SubtotalCents sums price × quantity over all items.
func SubtotalCents(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotalCents()
	}
	return total
}
