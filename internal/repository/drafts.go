package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/models"
)

const draftKeyPrefix = "drafts:"

var _ DraftStore = (*RedisDraftStore)(nil)

// RedisDraftStore keeps draft quotes in a Redis hash per operator, keyed by
// quote ID. Drafts never expire; they are removed explicitly on discard or
// promotion to an order.
type RedisDraftStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisDraftStore creates a new Redis-backed draft store.
func NewRedisDraftStore(client *redis.Client, logger *slog.Logger) *RedisDraftStore {
	return &RedisDraftStore{client: client, logger: logger}
}

// List returns all draft quotes for the operator, newest first.
func (s *RedisDraftStore) List(ctx context.Context, operatorID string) ([]*models.Quote, error) {
	entries, err := s.client.HGetAll(ctx, draftKeyPrefix+operatorID).Result()
	if err != nil {
		s.logger.Error("draft list error", "operator_id", operatorID, "error", err)
		return nil, err
	}

	quotes := make([]*models.Quote, 0, len(entries))
	for id, raw := range entries {
		var quote models.Quote
		if err := json.Unmarshal([]byte(raw), &quote); err != nil {
			// A corrupt entry should not hide the rest of the drafts.
			s.logger.Warn("skipping unreadable draft", "operator_id", operatorID, "quote_id", id, "error", err)
			continue
		}
		quotes = append(quotes, &quote)
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})
	return quotes, nil
}

// Get returns a single draft quote, or errs.ErrNotFound.
func (s *RedisDraftStore) Get(ctx context.Context, operatorID, quoteID string) (*models.Quote, error) {
	raw, err := s.client.HGet(ctx, draftKeyPrefix+operatorID, quoteID).Result()
	if err == redis.Nil {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var quote models.Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// Save stores or replaces a draft quote for the operator.
func (s *RedisDraftStore) Save(ctx context.Context, operatorID string, quote *models.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, draftKeyPrefix+operatorID, quote.ID, data).Err(); err != nil {
		s.logger.Error("draft save error", "operator_id", operatorID, "quote_id", quote.ID, "error", err)
		return err
	}
	return nil
}

// Delete removes a draft quote. Deleting a missing draft returns
// errs.ErrNotFound.
func (s *RedisDraftStore) Delete(ctx context.Context, operatorID, quoteID string) error {
	removed, err := s.client.HDel(ctx, draftKeyPrefix+operatorID, quoteID).Result()
	if err != nil {
		s.logger.Error("draft delete error", "operator_id", operatorID, "quote_id", quoteID, "error", err)
		return err
	}
	if removed == 0 {
		return errs.ErrNotFound
	}
	return nil
}
