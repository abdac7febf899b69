package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"vparts/models"
	"vparts/rdx"

	"github.com/redis/go-redis/v9"
)

// Snapshotter persists cart contents between sessions. Writes are
// best-effort; the in-memory cart stays authoritative for the session.
type Snapshotter interface {
	Save(ctx context.Context, userID string, items []models.LineItem) error
	Load(ctx context.Context, userID string) ([]models.LineItem, error)
	Delete(ctx context.Context, userID string) error
}

// Store owns one cart per user. Mutations go through the pure Apply
// function; every change is snapshotted asynchronously.
type Store struct {
	mu    sync.Mutex
	carts map[string]models.CartState
	snaps Snapshotter
}

func NewStore(snaps Snapshotter) *Store {
	return &Store{
		carts: make(map[string]models.CartState),
		snaps: snaps,
	}
}

// state returns the user's cart, rehydrating it from the snapshot the
// first time the user is seen. Callers must hold s.mu.
func (s *Store) state(ctx context.Context, userID string) models.CartState {
	if st, ok := s.carts[userID]; ok {
		return st
	}
	st := Apply(models.CartState{}, Clear{})
	if s.snaps != nil {
		items, err := s.snaps.Load(ctx, userID)
		if err != nil {
			log.Printf("cart: snapshot load for %s failed: %v", userID, err)
		} else if len(items) > 0 {
			st = Apply(st, Load{Items: items})
		}
	}
	s.carts[userID] = st
	return st
}

func (s *Store) dispatch(ctx context.Context, userID string, cmd Command) models.CartState {
	s.mu.Lock()
	st := Apply(s.state(ctx, userID), cmd)
	s.carts[userID] = st
	s.mu.Unlock()

	s.persist(userID, st)
	return st
}

// persist snapshots the cart off the request path. Failures are logged
// and swallowed.
func (s *Store) persist(userID string, st models.CartState) {
	if s.snaps == nil {
		return
	}
	items := st.Items
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var err error
		if len(items) == 0 {
			err = s.snaps.Delete(ctx, userID)
		} else {
			err = s.snaps.Save(ctx, userID, items)
		}
		if err != nil {
			log.Printf("cart: snapshot save for %s failed: %v", userID, err)
		}
	}()
}

func (s *Store) Get(ctx context.Context, userID string) models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID)
}

func (s *Store) AddItem(ctx context.Context, userID string, product models.Product, qty int) models.CartState {
	return s.dispatch(ctx, userID, AddItem{Product: product, Quantity: qty})
}

func (s *Store) RemoveItem(ctx context.Context, userID, productID string) models.CartState {
	return s.dispatch(ctx, userID, RemoveItem{ProductID: productID})
}

func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, qty int) models.CartState {
	return s.dispatch(ctx, userID, UpdateQuantity{ProductID: productID, Quantity: qty})
}

func (s *Store) ClearCart(ctx context.Context, userID string) models.CartState {
	return s.dispatch(ctx, userID, Clear{})
}

func (s *Store) GetItemQuantity(ctx context.Context, userID, productID string) int {
	st := s.Get(ctx, userID)
	for _, it := range st.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

func (s *Store) IsInCart(ctx context.Context, userID, productID string) bool {
	return s.GetItemQuantity(ctx, userID, productID) > 0
}

// RedisSnapshots keeps cart snapshots as JSON under cart:<userid>.
type RedisSnapshots struct {
	Conn *redis.Client
}

func NewRedisSnapshots() *RedisSnapshots {
	return &RedisSnapshots{Conn: rdx.Conn}
}

func (r *RedisSnapshots) key(userID string) string { return "cart:" + userID }

func (r *RedisSnapshots) Save(ctx context.Context, userID string, items []models.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.Conn.Set(ctx, r.key(userID), data, 0).Err()
}

func (r *RedisSnapshots) Load(ctx context.Context, userID string) ([]models.LineItem, error) {
	data, err := r.Conn.Get(ctx, r.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []models.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisSnapshots) Delete(ctx context.Context, userID string) error {
	return r.Conn.Del(ctx, r.key(userID)).Err()
}
