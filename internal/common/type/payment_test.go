package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDJSON(t *testing.T) {
	t.Parallel()

	var items []CartItem
	require.NoError(t, json.Unmarshal([]byte(`[{"id":7,"title":"A"},{"id":"sku-1","title":"B"},{"id":null}]`), &items))
	assert.Equal(t, ItemID("7"), items[0].ID)
	assert.Equal(t, ItemID("sku-1"), items[1].ID)
	assert.Equal(t, ItemID(""), items[2].ID)

	b, err := json.Marshal([]ItemID{"42", "sku-1", ""})
	require.NoError(t, err)
	assert.JSONEq(t, `[42,"sku-1",null]`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &items[0]))
}

func TestLineTotal(t *testing.T) {
	t.Parallel()

	item := CartItem{Title: "Book A", Price: 10, Quantity: 2}
	assert.InDelta(t, 20.0, item.LineTotal(), 1e-9)
}
