package seed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultMenu_ParsesAllItems(t *testing.T) {
	items, err := DefaultMenu("https://img.example.com/upload/")
	require.NoError(t, err)
	require.Len(t, items, 8)
	require.Equal(t, "0001", items[0].ExternalID)
	require.True(t, items[0].Price.Equal(decimal.NewFromInt(99)))
	require.Equal(t, "https://img.example.com/upload/menu/burger-11", items[0].ImageURL)
}

func TestParse_RejectsBadPrice(t *testing.T) {
	_, err := Parse([]byte("items:\n  - id: \"x\"\n    title: X\n    price: abc\n"), "")
	require.Error(t, err)
}

func TestParse_RejectsOutOfRangeRating(t *testing.T) {
	_, err := Parse([]byte("items:\n  - id: \"x\"\n    title: X\n    price: \"1\"\n    rating: 7\n"), "")
	require.Error(t, err)
}
