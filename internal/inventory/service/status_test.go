package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/errors"
)

func TestSetStatus_ChangeRecordsAudit(t *testing.T) {
	items := newFakeItemStore(testItem("item-1", repository.StatusAvailable))
	audits := &fakeAuditStore{}
	statusSvc, _ := newLifecycleServices(items, audits)

	result, err := statusSvc.SetStatus(context.Background(), "item-1", repository.StatusSold, "Customer purchase")
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, repository.StatusSold, result.Item.Status)

	require.NotNil(t, result.AuditEntry)
	assert.Equal(t, "status", result.AuditEntry.FieldName)
	assert.Equal(t, repository.StatusAvailable, result.AuditEntry.OldValue)
	assert.Equal(t, repository.StatusSold, result.AuditEntry.NewValue)
	require.NotNil(t, result.AuditEntry.Reason)
	assert.Equal(t, "Customer purchase", *result.AuditEntry.Reason)

	assert.Len(t, audits.entriesFor("item-1"), 1)
}

func TestSetStatus_NoOpProducesNoAudit(t *testing.T) {
	items := newFakeItemStore(testItem("item-1", repository.StatusAvailable))
	audits := &fakeAuditStore{}
	statusSvc, _ := newLifecycleServices(items, audits)

	result, err := statusSvc.SetStatus(context.Background(), "item-1", repository.StatusAvailable, "")
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Nil(t, result.AuditEntry)
	assert.Empty(t, audits.entriesFor("item-1"))
}

func TestSetStatus_NoOpIdempotentAcrossAllStatuses(t *testing.T) {
	for _, status := range repository.Statuses {
		items := newFakeItemStore(testItem("item-1", status))
		audits := &fakeAuditStore{}
		statusSvc, _ := newLifecycleServices(items, audits)

		result, err := statusSvc.SetStatus(context.Background(), "item-1", status, "no change")
		require.NoError(t, err, status)
		assert.False(t, result.Changed, status)
		assert.Empty(t, audits.entriesFor("item-1"), status)
	}
}

func TestSetStatus_AnyTransitionAllowed(t *testing.T) {
	// No transition graph exists: even end-of-life states may move back.
	items := newFakeItemStore(testItem("item-1", repository.StatusReturned))
	audits := &fakeAuditStore{}
	statusSvc, _ := newLifecycleServices(items, audits)

	result, err := statusSvc.SetStatus(context.Background(), "item-1", repository.StatusAvailable, "restocked")
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, repository.StatusAvailable, result.Item.Status)
}

func TestSetStatus_InvalidStatusRejected(t *testing.T) {
	items := newFakeItemStore(testItem("item-1", repository.StatusAvailable))
	audits := &fakeAuditStore{}
	statusSvc, _ := newLifecycleServices(items, audits)

	_, err := statusSvc.SetStatus(context.Background(), "item-1", "broken", "")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	// Validation failures never reach the store or the audit trail.
	current, err := items.GetByID(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusAvailable, current.Status)
	assert.Empty(t, audits.entriesFor("item-1"))
}

func TestSetStatus_UnknownItem(t *testing.T) {
	items := newFakeItemStore()
	audits := &fakeAuditStore{}
	statusSvc, _ := newLifecycleServices(items, audits)

	_, err := statusSvc.SetStatus(context.Background(), "missing", repository.StatusSold, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
