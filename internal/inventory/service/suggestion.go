package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/keyvalue"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// suggestionTTL keeps saved suggestions around long enough to be useful
// across intake sessions without accumulating forever.
const suggestionTTL = 90 * 24 * time.Hour

// maxSuggestions caps each suggestion list.
const maxSuggestions = 50

// SuggestionService keeps small per-field suggestion lists (device names,
// locations, common fault notes) in an injected key-value store so intake
// forms can offer previously used values.
type SuggestionService struct {
	store  keyvalue.Store
	logger *logger.Logger
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(store keyvalue.Store, log *logger.Logger) *SuggestionService {
	return &SuggestionService{
		store:  store,
		logger: log,
	}
}

func suggestionKey(kind string) string {
	return "suggestions:" + kind
}

// Get returns the saved suggestions for a kind, most recent first.
func (s *SuggestionService) Get(ctx context.Context, kind string) ([]string, error) {
	if kind == "" {
		return nil, errors.Validation(map[string]string{"kind": "kind is required"})
	}

	raw, found, err := s.store.Get(ctx, suggestionKey(kind))
	if err != nil {
		return nil, errors.Persistence(err)
	}
	if !found {
		return []string{}, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		// A corrupt entry is dropped rather than surfaced to the caller.
		s.logger.Warn().Err(err).Str("kind", kind).Msg("discarding corrupt suggestion entry")
		return []string{}, nil
	}
	return values, nil
}

// Add records a newly used value for a kind. The value moves to the front
// of the list; duplicates are removed and the list is capped.
func (s *SuggestionService) Add(ctx context.Context, kind, value string) ([]string, error) {
	if kind == "" {
		return nil, errors.Validation(map[string]string{"kind": "kind is required"})
	}
	if value == "" {
		return nil, errors.Validation(map[string]string{"value": "value is required"})
	}

	values, err := s.Get(ctx, kind)
	if err != nil {
		return nil, err
	}

	updated := []string{value}
	for _, v := range values {
		if v == value {
			continue
		}
		updated = append(updated, v)
		if len(updated) == maxSuggestions {
			break
		}
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return nil, errors.Internal("failed to encode suggestions")
	}
	if err := s.store.Set(ctx, suggestionKey(kind), string(raw), suggestionTTL); err != nil {
		return nil, errors.Persistence(err)
	}

	return updated, nil
}

// Clear removes all saved suggestions for a kind.
func (s *SuggestionService) Clear(ctx context.Context, kind string) error {
	if kind == "" {
		return errors.Validation(map[string]string{"kind": "kind is required"})
	}
	if err := s.store.Delete(ctx, suggestionKey(kind)); err != nil {
		return errors.Persistence(err)
	}
	return nil
}
