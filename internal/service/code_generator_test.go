package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

func TestNextNumber(t *testing.T) {
	assert.Equal(t, 1, nextNumber(""))
	assert.Equal(t, 1, nextNumber("abc"))
	assert.Equal(t, 1, nextNumber("-4"))
	assert.Equal(t, 10, nextNumber("009"))
	assert.Equal(t, 1000, nextNumber("999"))
}

func TestClientCodesAreSequentialAndUnique(t *testing.T) {
	a := newAgency()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 12; i++ {
		client, err := a.clients.Create(ctx, dto.ClientRequest{Name: "Client"})
		require.NoError(t, err)
		assert.False(t, seen[client.Code], "duplicate code %s", client.Code)
		seen[client.Code] = true
	}
	assert.True(t, seen["MST001"])
	assert.True(t, seen["MST012"])
}

func TestClientCodeProbesPastTakenCodes(t *testing.T) {
	a := newAgency()
	a.clientRepo.insertRawClient("MST002", "Later")
	a.clientRepo.insertRawClient("MST001", "Earlier")

	code, err := a.codes.NextClientCode(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "MST003", code)
}

func TestClientCodeRestartsWhenLastCodeIsMalformed(t *testing.T) {
	a := newAgency()
	a.clientRepo.insertRawClient("LEGACY", "Old")

	code, err := a.codes.NextClientCode(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "MST001", code)
}

func TestWorkItemAndDeliverableCodesAreScopedPerClient(t *testing.T) {
	a := newAgency()
	ctx := context.Background()
	acme := a.clientRepo.insertRawClient("MST001", "Acme")
	beta := a.clientRepo.insertRawClient("MST002", "Beta")

	for _, c := range []*models.Client{acme, beta, acme} {
		_, err := a.workItems.Create(ctx, dto.WorkItemRequest{ClientID: c.ID, Date: "2025-03-01"})
		require.NoError(t, err)
	}

	codes := map[int64][]string{}
	for _, w := range a.store.workItems {
		codes[w.ClientID] = append(codes[w.ClientID], w.Code)
	}
	assert.Equal(t, []string{"MST001-IS001", "MST001-IS002"}, codes[acme.ID])
	assert.Equal(t, []string{"MST002-IS001"}, codes[beta.ID])

	d1, err := a.deliverables.Create(ctx, dto.DeliverableRequest{ClientID: beta.ID, Title: "Poster"})
	require.NoError(t, err)
	d2, err := a.deliverables.Create(ctx, dto.DeliverableRequest{ClientID: acme.ID, Title: "Banner"})
	require.NoError(t, err)
	d3, err := a.deliverables.Create(ctx, dto.DeliverableRequest{ClientID: beta.ID, Title: "Reel"})
	require.NoError(t, err)
	assert.Equal(t, "TSLMST002001", d1.Code)
	assert.Equal(t, "TSLMST001001", d2.Code)
	assert.Equal(t, "TSLMST002002", d3.Code)
}

func TestCodesFallBackToUnknownWithoutClientCode(t *testing.T) {
	a := newAgency()
	ctx := context.Background()

	code, err := a.codes.NextWorkItemCode(ctx, nil, &models.Client{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.UnknownWorkItemCode, code)

	code, err = a.codes.NextDeliverableCode(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.UnknownDeliverableCode, code)
}

func TestUnknownFallbackCodesKeepProbing(t *testing.T) {
	a := newAgency()
	ctx := context.Background()
	a.store.workItems = append(a.store.workItems, models.WorkItem{ID: 50, Code: models.UnknownWorkItemCode})
	a.store.deliverables = append(a.store.deliverables, models.Deliverable{ID: 51, Code: models.UnknownDeliverableCode})

	code, err := a.codes.NextWorkItemCode(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN-IS002", code)

	code, err = a.codes.NextDeliverableCode(ctx, nil, &models.Client{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "TSLUNKNOWN002", code)
}

func TestAllocateRetriesAfterConcurrentInsert(t *testing.T) {
	a := newAgency()
	acme := a.clientRepo.insertRawClient("MST001", "Acme")
	a.store.beforeCreate["work_items"] = func() {
		a.store.workItems = append(a.store.workItems, models.WorkItem{ID: a.store.id(), ClientID: acme.ID, Code: "MST001-IS001"})
	}

	item, err := a.workItems.Create(context.Background(), dto.WorkItemRequest{ClientID: acme.ID, Date: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "MST001-IS002", item.Code)
	assert.Len(t, a.store.workItems, 2)
}

func TestAllocateGivesUpAfterMaxAttempts(t *testing.T) {
	gen := NewCodeGenerator(nil, nil, nil, 3)
	calls := 0
	err := gen.Allocate(context.Background(), nil, "client", func() error {
		calls++
		return uniqueViolation()
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrInternal.Code))
	assert.Contains(t, err.Error(), "failed to allocate client code")
}

func TestAllocateDoesNotRetryOtherErrors(t *testing.T) {
	gen := NewCodeGenerator(nil, nil, nil, 0)
	calls := 0
	err := gen.Allocate(context.Background(), nil, "client", func() error {
		calls++
		return errStoreDown
	})
	assert.True(t, errors.Is(err, errStoreDown))
	assert.Equal(t, 1, calls)
}
