package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Additional-Code/ordergraph/internal/dto"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
)

func TestSummarize(t *testing.T) {
	got := dto.Summarize(reconcile.Stats{
		reconcile.Shipments: {Updated: 1},
		reconcile.Items:     {Added: 2, Removed: 1},
	})
	assert.Equal(t, []dto.ChangeSummary{
		{Collection: reconcile.Items, Added: 2, Removed: 1},
		{Collection: reconcile.Shipments, Updated: 1},
	}, got)

	assert.Empty(t, dto.Summarize(nil))
	assert.NotNil(t, dto.Summarize(reconcile.Stats{}), "encodes as an empty list")
}
