package model

import (
	"encoding/json"
	"fmt"
)

// Value is a criteria value taken verbatim from the query: a bare number,
// a string (enum or free text), or a two-element numeric range when the
// query implied one ("between 1 and 2 crore"). No arithmetic is derived.
type Value struct {
	Number *float64
	Text   string
	Range  []float64
	List   []string
}

// UnmarshalJSON accepts the shapes the extraction model produces:
// a JSON number, a JSON string, or an array of numbers or strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		v.Number = &num
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		v.Text = text
		return nil
	}

	var nums []float64
	if err := json.Unmarshal(data, &nums); err == nil {
		v.Range = nums
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		v.List = list
		return nil
	}

	return fmt.Errorf("unsupported criteria value: %s", string(data))
}

// MarshalJSON writes the value back in the shape it arrived in.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Number != nil:
		return json.Marshal(*v.Number)
	case v.Range != nil:
		return json.Marshal(v.Range)
	case v.List != nil:
		return json.Marshal(v.List)
	default:
		return json.Marshal(v.Text)
	}
}

// SearchCriteria holds the literal values extracted per attribute.
// A nil field means the query did not mention that attribute.
type SearchCriteria struct {
	Society         *Value `json:"society,omitempty"`
	Price           *Value `json:"Price_in_Crore,omitempty"`
	Rate            *Value `json:"Rate_rs_sqft,omitempty"`
	AreaType        *Value `json:"AreaType,omitempty"`
	Area            *Value `json:"Area_in_sq_meter,omitempty"`
	Bedroom         *Value `json:"bedRoom,omitempty"`
	Bathroom        *Value `json:"bathroom,omitempty"`
	Balcony         *Value `json:"balcony,omitempty"`
	AdditionalRoom  *Value `json:"additionalRoom,omitempty"`
	Address         *Value `json:"address,omitempty"`
	FloorNum        *Value `json:"floorNum,omitempty"`
	TotalFloor      *Value `json:"Totalfloor,omitempty"`
	Facing          *Value `json:"facing,omitempty"`
	AgePossession   *Value `json:"agePossession,omitempty"`
	NearbyLocations *Value `json:"nearbyLocations,omitempty"`
	FurnishDetails  *Value `json:"furnishDetails,omitempty"`
	Features        *Value `json:"features,omitempty"`
	Rating          *Value `json:"rating,omitempty"`
}

// Get looks up the extracted value for a dataset column. Unknown columns
// return nil, which the filter engine treats as "no predicate".
func (c *SearchCriteria) Get(field string) *Value {
	if c == nil {
		return nil
	}
	switch field {
	case FieldSociety:
		return c.Society
	case FieldPrice:
		return c.Price
	case FieldRate:
		return c.Rate
	case FieldAreaType:
		return c.AreaType
	case FieldArea:
		return c.Area
	case FieldBedroom:
		return c.Bedroom
	case FieldBathroom:
		return c.Bathroom
	case FieldBalcony:
		return c.Balcony
	case FieldAdditionalRoom:
		return c.AdditionalRoom
	case FieldAddress:
		return c.Address
	case FieldFloorNum:
		return c.FloorNum
	case FieldTotalFloor:
		return c.TotalFloor
	case FieldFacing:
		return c.Facing
	case FieldAgePossession:
		return c.AgePossession
	case FieldNearbyLocations:
		return c.NearbyLocations
	case FieldFurnishDetails:
		return c.FurnishDetails
	case FieldFeatures:
		return c.Features
	case FieldRating:
		return c.Rating
	default:
		return nil
	}
}

// Comparator overrides the default equality semantics of a numeric
// predicate. Wire values match what the comparator extraction prompt emits.
type Comparator string

const (
	// ComparatorGreater keeps rows with column value >= the criteria value.
	ComparatorGreater Comparator = "Greater than"
	// ComparatorLesser keeps rows with column value <= the criteria value.
	ComparatorLesser Comparator = "Lesser than"
)

// ComparatorMap carries the per-column inequality directions. Only the
// numeric columns the comparator prompt knows about appear here; a nil
// field means equality (or range, when the criteria value is a pair).
type ComparatorMap struct {
	Price      *Comparator `json:"Price_in_Crore,omitempty"`
	Rate       *Comparator `json:"Rate_rs_sqft,omitempty"`
	Area       *Comparator `json:"Area_in_sq_meter,omitempty"`
	Bedroom    *Comparator `json:"bedRoom,omitempty"`
	Bathroom   *Comparator `json:"bathroom,omitempty"`
	Balcony    *Comparator `json:"balcony,omitempty"`
	FloorNum   *Comparator `json:"floorNum,omitempty"`
	TotalFloor *Comparator `json:"Totalfloor,omitempty"`
}

// Get returns the comparator for a dataset column, nil when absent.
func (m *ComparatorMap) Get(field string) *Comparator {
	if m == nil {
		return nil
	}
	switch field {
	case FieldPrice:
		return m.Price
	case FieldRate:
		return m.Rate
	case FieldArea:
		return m.Area
	case FieldBedroom:
		return m.Bedroom
	case FieldBathroom:
		return m.Bathroom
	case FieldBalcony:
		return m.Balcony
	case FieldFloorNum:
		return m.FloorNum
	case FieldTotalFloor:
		return m.TotalFloor
	default:
		return nil
	}
}
