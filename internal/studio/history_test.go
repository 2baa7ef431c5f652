package studio

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_KeepsLastFiveNewestFirst(t *testing.T) {
	h := NewHistory()
	for i := 1; i <= 7; i++ {
		h.Add(HistoryItem{ID: fmt.Sprintf("r%d", i)})
	}

	items := h.Items()
	require.Len(t, items, HistoryLimit)
	assert.Equal(t, 5, h.Len())

	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"r7", "r6", "r5", "r4", "r3"}, ids)

	_, ok := h.Get("r2")
	assert.False(t, ok)
	got, ok := h.Get("r5")
	assert.True(t, ok)
	assert.Equal(t, "r5", got.ID)
}

func TestHistory_ItemsIsACopy(t *testing.T) {
	h := NewHistory()
	h.Add(HistoryItem{ID: "a", Text: "original"})

	items := h.Items()
	items[0].Text = "changed"

	assert.Equal(t, "original", h.Items()[0].Text)
}
