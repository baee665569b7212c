package checkout

import (
    "fmt"
    "sync"

    "github.com/MahmoudElhosary/MastercardHostedCheckout/checkout/models"
)

var ErrNotFound = fmt.Errorf("not found")

// Repository holds the in-flight checkouts for the life of the process.
// Order history is not persisted; the store exists so that replayed
// callbacks and repeated capture calls can be answered idempotently.
type Repository struct {
    mu        sync.RWMutex
    checkouts []*models.Checkout
}

func NewRepository() *Repository {
    return &Repository{
        checkouts: make([]*models.Checkout, 0),
    }
}

func (r *Repository) CreateCheckout(c *models.Checkout) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    for _, existing := range r.checkouts {
        if existing.OrderID == c.OrderID {
            return fmt.Errorf("order %s already exists", c.OrderID)
        }
    }

    r.checkouts = append(r.checkouts, c.Clone())
    return nil
}

// GetCheckout returns a copy of the stored checkout. Copies keep readers
// (callback replays, concurrent observes) off the fields a concurrent
// update is writing under the lock.
func (r *Repository) GetCheckout(orderID string) (*models.Checkout, error) {
    r.mu.RLock()
    defer r.mu.RUnlock()

    for _, c := range r.checkouts {
        if c.OrderID == orderID {
            return c.Clone(), nil
        }
    }

    return nil, ErrNotFound
}

// UpdateCheckout applies fn to the stored checkout under the write lock
// and returns a copy of the result. Terminal states absorb: once an order
// is CAPTURED or FAILED its status is never changed again.
func (r *Repository) UpdateCheckout(orderID string, fn func(*models.Checkout)) (*models.Checkout, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    for _, c := range r.checkouts {
        if c.OrderID != orderID {
            continue
        }
        if !c.Status.Terminal() {
            fn(c)
        }
        return c.Clone(), nil
    }

    return nil, ErrNotFound
}
