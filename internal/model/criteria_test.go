package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueUnmarshalShapes(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`3`), &v))
	require.NotNil(t, v.Number)
	assert.Equal(t, 3.0, *v.Number)

	v = Value{}
	require.NoError(t, json.Unmarshal([]byte(`"Delhi"`), &v))
	assert.Equal(t, "Delhi", v.Text)
	assert.Nil(t, v.Number)

	v = Value{}
	require.NoError(t, json.Unmarshal([]byte(`[1.2, 2.0]`), &v))
	assert.Equal(t, []float64{1.2, 2.0}, v.Range)

	v = Value{}
	require.NoError(t, json.Unmarshal([]byte(`["East", "West"]`), &v))
	assert.Equal(t, []string{"East", "West"}, v.List)

	v = Value{}
	assert.Error(t, json.Unmarshal([]byte(`{"nested": true}`), &v))
}

func TestValueMarshalRoundTrip(t *testing.T) {
	for _, raw := range []string{`3`, `"Delhi"`, `[1.2,2]`, `["East","West"]`} {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(raw), &v))

		data, err := json.Marshal(v)
		require.NoError(t, err)

		var again Value
		require.NoError(t, json.Unmarshal(data, &again))
		assert.Equal(t, v, again, "round trip of %s", raw)
	}
}

func TestSearchCriteriaUnmarshal(t *testing.T) {
	raw := `{
		"bedRoom": 3,
		"address": "Delhi",
		"Price_in_Crore": [1.0, 2.5],
		"facing": ["East", "North"]
	}`

	var c SearchCriteria
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	require.NotNil(t, c.Bedroom)
	assert.Equal(t, 3.0, *c.Bedroom.Number)
	assert.Equal(t, "Delhi", c.Address.Text)
	assert.Equal(t, []float64{1.0, 2.5}, c.Price.Range)
	assert.Equal(t, []string{"East", "North"}, c.Facing.List)
	assert.Nil(t, c.Society)
}

func TestSearchCriteriaGet(t *testing.T) {
	c := SearchCriteria{
		Bedroom: &Value{Text: "3"},
		Address: &Value{Text: "Delhi"},
	}

	assert.Same(t, c.Bedroom, c.Get(FieldBedroom))
	assert.Same(t, c.Address, c.Get(FieldAddress))
	assert.Nil(t, c.Get(FieldPrice))
	assert.Nil(t, c.Get("no_such_column"))

	var nilCriteria *SearchCriteria
	assert.Nil(t, nilCriteria.Get(FieldBedroom))
}

func TestComparatorMapUnmarshal(t *testing.T) {
	raw := `{"Price_in_Crore": "Lesser than", "bedRoom": "Greater than"}`

	var m ComparatorMap
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	require.NotNil(t, m.Price)
	assert.Equal(t, ComparatorLesser, *m.Price)
	require.NotNil(t, m.Bedroom)
	assert.Equal(t, ComparatorGreater, *m.Bedroom)
	assert.Nil(t, m.Rate)

	assert.Same(t, m.Price, m.Get(FieldPrice))
	assert.Nil(t, m.Get(FieldAddress))

	var nilMap *ComparatorMap
	assert.Nil(t, nilMap.Get(FieldPrice))
}

func TestFieldMaskEnabled(t *testing.T) {
	mask := FieldMask{Price: true, Bedroom: true, Address: true, TopFloor: true}

	// Schema order, and the derived TopFloor flag never surfaces as a column.
	assert.Equal(t, []string{FieldPrice, FieldBedroom, FieldAddress}, mask.Enabled())
	assert.Empty(t, FieldMask{TopFloor: true}.Enabled())
	assert.Empty(t, FieldMask{}.Enabled())
}

func TestFieldMaskUnmarshal(t *testing.T) {
	raw := `{"bedRoom": true, "Price_in_Crore": true, "top_floor": true, "society": false}`

	var mask FieldMask
	require.NoError(t, json.Unmarshal([]byte(raw), &mask))

	assert.True(t, mask.Bedroom)
	assert.True(t, mask.Price)
	assert.True(t, mask.TopFloor)
	assert.False(t, mask.Society)
}

func TestIntentUnmarshal(t *testing.T) {
	raw := `{"Greeting": false, "Property_Related": true, "Farewell": false, "Other": false}`

	var intent Intent
	require.NoError(t, json.Unmarshal([]byte(raw), &intent))

	assert.True(t, intent.PropertyRelated)
	assert.False(t, intent.Greeting)
	assert.False(t, intent.Farewell)
	assert.False(t, intent.Other)
}
