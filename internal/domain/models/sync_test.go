package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddError_CountsBeyondCap(t *testing.T) {
	result := &SyncResult{Success: true}

	for i := 0; i < MaxSyncErrors+5; i++ {
		result.AddError(fmt.Sprintf("error %d", i))
	}

	assert.Equal(t, MaxSyncErrors+5, result.ErrorCount)
	assert.Len(t, result.Errors, MaxSyncErrors)
	assert.Equal(t, "error 0", result.Errors[0])
}

func TestMerge_CombinesCounts(t *testing.T) {
	total := &SyncResult{Success: true}

	total.Merge(&SyncResult{
		Success:       true,
		Marketplace:   MarketplaceWildberries,
		SyncedCount:   5,
		TotalProducts: 7,
		ErrorCount:    2,
		Errors:        []string{"a", "b"},
	})
	total.Merge(&SyncResult{
		Success:       true,
		Marketplace:   MarketplaceOzon,
		SyncedCount:   3,
		TotalProducts: 3,
	})

	assert.True(t, total.Success)
	assert.Equal(t, 8, total.SyncedCount)
	assert.Equal(t, 10, total.TotalProducts)
	assert.Equal(t, 2, total.ErrorCount)
	assert.Len(t, total.Errors, 2)
}

func TestMerge_FatalRunClearsSuccess(t *testing.T) {
	total := &SyncResult{Success: true}

	total.Merge(&SyncResult{Success: true, SyncedCount: 4, TotalProducts: 4})
	total.Merge(&SyncResult{Success: false, Error: "listing fetch failed"})

	assert.False(t, total.Success)
	assert.Equal(t, "listing fetch failed", total.Error)
	assert.Equal(t, 4, total.SyncedCount)
}

func TestMerge_RespectsErrorCap(t *testing.T) {
	total := &SyncResult{Success: true}

	first := &SyncResult{Success: true}
	for i := 0; i < MaxSyncErrors; i++ {
		first.AddError(fmt.Sprintf("wb %d", i))
	}
	second := &SyncResult{Success: true}
	second.AddError("ozon 0")

	total.Merge(first)
	total.Merge(second)

	assert.Equal(t, MaxSyncErrors+1, total.ErrorCount)
	assert.Len(t, total.Errors, MaxSyncErrors)
}
