package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/keyvalue"
)

func newSuggestionService() *service.SuggestionService {
	return service.NewSuggestionService(keyvalue.NewMemoryStore(), testLogger())
}

func TestSuggestions_AddAndGet(t *testing.T) {
	svc := newSuggestionService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "device", "iPhone 12")
	require.NoError(t, err)
	values, err := svc.Add(ctx, "device", "Galaxy S22")
	require.NoError(t, err)

	// Most recent first.
	assert.Equal(t, []string{"Galaxy S22", "iPhone 12"}, values)

	loaded, err := svc.Get(ctx, "device")
	require.NoError(t, err)
	assert.Equal(t, values, loaded)
}

func TestSuggestions_DuplicateMovesToFront(t *testing.T) {
	svc := newSuggestionService()
	ctx := context.Background()

	for _, v := range []string{"a", "b", "c"} {
		_, err := svc.Add(ctx, "device", v)
		require.NoError(t, err)
	}

	values, err := svc.Add(ctx, "device", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, values)
}

func TestSuggestions_KindsAreIsolated(t *testing.T) {
	svc := newSuggestionService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "device", "iPhone 12")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "location", "Warehouse A")
	require.NoError(t, err)

	devices, err := svc.Get(ctx, "device")
	require.NoError(t, err)
	assert.Equal(t, []string{"iPhone 12"}, devices)

	locations, err := svc.Get(ctx, "location")
	require.NoError(t, err)
	assert.Equal(t, []string{"Warehouse A"}, locations)
}

func TestSuggestions_GetUnknownKindIsEmpty(t *testing.T) {
	svc := newSuggestionService()

	values, err := svc.Get(context.Background(), "device")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSuggestions_Clear(t *testing.T) {
	svc := newSuggestionService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "device", "iPhone 12")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "device"))

	values, err := svc.Get(ctx, "device")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSuggestions_Validation(t *testing.T) {
	svc := newSuggestionService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.Add(ctx, "", "x")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.Add(ctx, "device", "")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	assert.True(t, errors.Is(svc.Clear(ctx, ""), errors.ErrValidation))
}
