// Package experience кеширует каталог впечатлений в Redis
package experience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

const listKey = "catalog:experiences:list"

// Cache кеш списка впечатлений
// Хранит только каталог, вместимость слотов сюда не попадает
type Cache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCache создает кеш поверх клиента Redis
func NewCache(client redis.Cmdable, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

type cachedExperience struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GetList возвращает закешированный список; ok=false при промахе
func (c *Cache) GetList(ctx context.Context) ([]*domain.Experience, bool, error) {
	raw, err := c.client.Get(ctx, c.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: GetList: %v", ErrCacheRead, err)
	}

	var items []cachedExperience
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("%w: GetList: %v", ErrDecode, err)
	}

	list := make([]*domain.Experience, 0, len(items))
	for _, item := range items {
		exp, err := item.toDomain()
		if err != nil {
			return nil, false, fmt.Errorf("%w: GetList: %v", ErrDecode, err)
		}
		list = append(list, exp)
	}

	return list, true, nil
}

// SetList сохраняет список с TTL
func (c *Cache) SetList(ctx context.Context, list []*domain.Experience) error {
	items := make([]cachedExperience, 0, len(list))
	for _, exp := range list {
		items = append(items, fromDomain(exp))
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: SetList - marshal: %v", ErrCacheWrite, err)
	}

	if err := c.client.Set(ctx, c.key(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: SetList: %v", ErrCacheWrite, err)
	}

	return nil
}

// Invalidate удаляет закешированный список
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key()).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate: %v", ErrCacheWrite, err)
	}
	return nil
}

func (c *Cache) key() string {
	return c.prefix + listKey
}
