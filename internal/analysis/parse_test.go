package analysis

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizzaResponse = `[
  {
    "output": {
      "items": [
        {
          "name": "Pizza",
          "portion_g": 150,
          "calories_kcal": 400,
          "protein_g": 15,
          "carbs_g": 45,
          "fat_g": 18,
          "method": "vision",
          "dietFit": ["high-fat"],
          "note": "",
          "tip": ""
        }
      ],
      "totals": {"portion_g": 150, "calories_kcal": 400, "protein_g": 15, "carbs_g": 45, "fat_g": 18},
      "summary": {"quality": "High in carbs and fats, moderate protein."}
    }
  }
]`

func TestParseSelectsFirstEnvelope(t *testing.T) {
	body := `[
	  {"output": {"items": [{"name": "Apple"}], "totals": {"calories_kcal": 52}, "summary": {}}},
	  {"output": {"items": [{"name": "Banana"}], "totals": {"calories_kcal": 89}, "summary": {}}},
	  {"output": {"items": [{"name": "Orange"}], "totals": {"calories_kcal": 47}, "summary": {}}}
	]`

	res, err := Parse([]byte(body))
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Apple", res.Items[0].Name)
	assert.Equal(t, 52.0, res.Totals.CaloriesKcal)
}

func TestParseEmptyArrayIsNoResult(t *testing.T) {
	res, err := Parse([]byte(`[]`))
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestParsePizzaScenario(t *testing.T) {
	res, err := Parse([]byte(pizzaResponse))
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Equal(t, "Pizza", item.Name)
	assert.Equal(t, 150.0, item.PortionG)
	assert.Equal(t, 400.0, item.CaloriesKcal)
	assert.Equal(t, 15.0, item.ProteinG)
	assert.Equal(t, 45.0, item.CarbsG)
	assert.Equal(t, 18.0, item.FatG)
	assert.Equal(t, "vision", item.Method)
	assert.Equal(t, []string{"high-fat"}, item.DietFit)
	assert.Empty(t, item.Note)
	assert.Empty(t, item.Tip)
	assert.Equal(t, "High in carbs and fats, moderate protein.", res.Summary.Quality)
}

func TestParsePassesNumbersThrough(t *testing.T) {
	body := `[{"output": {"items": [{"name": "X", "portion_g": -20, "calories_kcal": 1e9}], "totals": {"fat_g": -1}, "summary": {}}}]`

	res, err := Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, -20.0, res.Items[0].PortionG)
	assert.Equal(t, 1e9, res.Items[0].CaloriesKcal)
	assert.Equal(t, -1.0, res.Totals.FatG)
}

func TestParseMissingCollections(t *testing.T) {
	res, err := Parse([]byte(`[{"output": {"totals": {}, "summary": {}}}]`))
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)

	res, err = Parse([]byte(`[{"output": {"items": [{"name": "Rice", "dietFit": null}]}}]`))
	require.NoError(t, err)
	assert.NotNil(t, res.Items[0].DietFit)
	assert.Empty(t, res.Items[0].DietFit)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>oops</html>`},
		{name: "object instead of array", body: `{"output": {}}`},
		{name: "missing output", body: `[{}]`},
		{name: "null output", body: `[{"output": null}]`},
		{name: "string number", body: `[{"output": {"items": [{"portion_g": "150"}]}}]`},
		{name: "empty body", body: ``},
		{name: "null body", body: `null`},
		{name: "null body with whitespace", body: " null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.body))
			assert.Nil(t, res)
			var malformed *MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "expected MalformedResponseError, got %v", err)
		})
	}
}

func TestReadResponseStatus(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(strings.NewReader("upstream down")),
	}

	res, err := ReadResponse(resp)
	assert.Nil(t, res)

	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusBadGateway, transport.StatusCode)
	assert.Contains(t, err.Error(), "502")
}

func TestReadResponseSuccess(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusCreated,
		Body:       io.NopCloser(strings.NewReader(pizzaResponse)),
	}

	res, err := ReadResponse(resp)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Pizza", res.Items[0].Name)
}
