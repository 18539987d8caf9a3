package customrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

// ValkeyRepository stores each owner's activities in a hash keyed by id,
// with a companion list recording insertion order.
type ValkeyRepository struct {
	client valkey.Client
	prefix string
}

// NewValkeyRepository constructs a repository backed by Valkey.
func NewValkeyRepository(client valkey.Client, prefix string) *ValkeyRepository {
	if prefix == "" {
		prefix = "custom-activities"
	}
	return &ValkeyRepository{client: client, prefix: prefix}
}

func (r *ValkeyRepository) List(ctx context.Context, ownerID string) ([]activity.Activity, error) {
	ids, err := r.client.Do(ctx, r.client.B().Lrange().Key(r.orderKey(ownerID)).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []activity.Activity{}, nil
		}
		return nil, err
	}
	if len(ids) == 0 {
		return []activity.Activity{}, nil
	}
	values, err := r.client.Do(ctx, r.client.B().Hmget().Key(r.itemsKey(ownerID)).Field(ids...).Build()).ToArray()
	if err != nil {
		return nil, err
	}
	out := make([]activity.Activity, 0, len(values))
	for _, value := range values {
		payload, err := value.ToString()
		if err != nil {
			if valkey.IsValkeyNil(err) {
				continue
			}
			return nil, err
		}
		item, err := decodeActivity(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *ValkeyRepository) Get(ctx context.Context, ownerID, id string) (activity.Activity, bool, error) {
	payload, err := r.client.Do(ctx, r.client.B().Hget().Key(r.itemsKey(ownerID)).Field(id).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return activity.Activity{}, false, nil
		}
		return activity.Activity{}, false, err
	}
	item, err := decodeActivity(payload)
	if err != nil {
		return activity.Activity{}, false, err
	}
	return item, true, nil
}

func (r *ValkeyRepository) Save(ctx context.Context, ownerID string, item activity.Activity) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	added, err := r.client.Do(ctx, r.client.B().Hset().Key(r.itemsKey(ownerID)).FieldValue().FieldValue(item.ID, string(payload)).Build()).AsInt64()
	if err != nil {
		return err
	}
	if added == 0 {
		return nil
	}
	return r.client.Do(ctx, r.client.B().Rpush().Key(r.orderKey(ownerID)).Element(item.ID).Build()).Error()
}

func (r *ValkeyRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	removed, err := r.client.Do(ctx, r.client.B().Hdel().Key(r.itemsKey(ownerID)).Field(id).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	if err := r.client.Do(ctx, r.client.B().Lrem().Key(r.orderKey(ownerID)).Count(0).Element(id).Build()).Error(); err != nil {
		return removed > 0, err
	}
	return removed > 0, nil
}

func (r *ValkeyRepository) itemsKey(ownerID string) string {
	return fmt.Sprintf("%s:%s:items", r.prefix, ownerID)
}

func (r *ValkeyRepository) orderKey(ownerID string) string {
	return fmt.Sprintf("%s:%s:order", r.prefix, ownerID)
}

func decodeActivity(payload string) (activity.Activity, error) {
	var item activity.Activity
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return activity.Activity{}, err
	}
	item.IsCustom = true
	return item, nil
}
