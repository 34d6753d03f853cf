package quote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
  "price_total_usd": 182.5,
  "overall_reasoning": "Two simple aluminum parts.",
  "bodies": [
    {
      "name": "plate",
      "dimensions_mm": [100, 50, 5],
      "volume_mm3": 25000,
      "operations": ["waterjet", "drilling"],
      "machine_time_min": 12,
      "price_usd": 82.5,
      "reasoning": "Flat plate with four holes."
    },
    {
      "name": "bracket",
      "dimensions_mm": [40, 40, 30],
      "volume_mm3": 9000,
      "operations": ["3-axis milling"],
      "machine_time_min": 25,
      "price_usd": 100,
      "reasoning": "L bracket milled from block."
    }
  ]
}`

func TestParseQuote(t *testing.T) {
	q, err := ParseQuote(validReply)
	require.NoError(t, err)

	assert.Equal(t, 182.5, q.PriceTotalUSD)
	assert.Equal(t, "Two simple aluminum parts.", q.OverallReasoning)
	require.Len(t, q.Bodies, 2)
	assert.Equal(t, "plate", q.Bodies[0].Name)
	assert.Equal(t, [3]float64{100, 50, 5}, q.Bodies[0].DimensionsMM)
	assert.Equal(t, []string{"waterjet", "drilling"}, q.Bodies[0].Operations)
	assert.Equal(t, 25.0, q.Bodies[1].MachineTimeMin)
}

func TestParseQuoteEmptyBodies(t *testing.T) {
	q, err := ParseQuote(`{"price_total_usd": 0, "overall_reasoning": "nothing to make", "bodies": []}`)
	require.NoError(t, err)
	assert.Empty(t, q.Bodies)
}

func TestParseQuoteDropsExtraKeys(t *testing.T) {
	reply := `{"price_total_usd": 10, "overall_reasoning": "ok", "currency": "USD", "bodies": [
		{"name": "pin", "dimensions_mm": [5, 5, 20], "volume_mm3": 390, "operations": ["turning"],
		 "machine_time_min": 3, "price_usd": 10, "reasoning": "lathe part", "material_grade": "6061"}]}`

	q, err := ParseQuote(reply)
	require.NoError(t, err)
	require.Len(t, q.Bodies, 1)

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "currency")
	assert.NotContains(t, string(out), "material_grade")
	assert.Contains(t, string(out), `"price_total_usd":10`)
}

func TestParseQuoteRejects(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "The part costs about $100."},
		{"markdown fence", "```json\n" + validReply + "\n```"},
		{"array", `[1, 2, 3]`},
		{"missing total", `{"overall_reasoning": "x", "bodies": []}`},
		{"missing reasoning", `{"price_total_usd": 1, "bodies": []}`},
		{"missing bodies", `{"price_total_usd": 1, "overall_reasoning": "x"}`},
		{"range instead of number", `{"price_total_usd": "100-120", "overall_reasoning": "x", "bodies": []}`},
		{"body without price", `{"price_total_usd": 1, "overall_reasoning": "x", "bodies": [
			{"name": "a", "dimensions_mm": [1,2,3], "volume_mm3": 1, "operations": [], "machine_time_min": 1, "reasoning": "r"}]}`},
		{"two dimensions", `{"price_total_usd": 1, "overall_reasoning": "x", "bodies": [
			{"name": "a", "dimensions_mm": [1,2], "volume_mm3": 1, "operations": [], "machine_time_min": 1, "price_usd": 1, "reasoning": "r"}]}`},
		{"body without operations", `{"price_total_usd": 1, "overall_reasoning": "x", "bodies": [
			{"name": "a", "dimensions_mm": [1,2,3], "volume_mm3": 1, "machine_time_min": 1, "price_usd": 1, "reasoning": "r"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuote(tt.reply)
			assert.ErrorIs(t, err, ErrInvalidQuote)
		})
	}
}
