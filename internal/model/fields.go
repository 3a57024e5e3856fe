package model

// Dataset column names. These are the contract between the extraction
// prompts, the filter engine and the property table itself.
const (
	FieldPropertyID      = "property_id"
	FieldSociety         = "society"
	FieldPrice           = "Price_in_Crore"
	FieldRate            = "Rate_rs_sqft"
	FieldAreaType        = "AreaType"
	FieldArea            = "Area_in_sq_meter"
	FieldBedroom         = "bedRoom"
	FieldBathroom        = "bathroom"
	FieldBalcony         = "balcony"
	FieldAdditionalRoom  = "additionalRoom"
	FieldAddress         = "address"
	FieldFloorNum        = "floorNum"
	FieldTotalFloor      = "Totalfloor"
	FieldFacing          = "facing"
	FieldAgePossession   = "agePossession"
	FieldNearbyLocations = "nearbyLocations"
	FieldFurnishDetails  = "furnishDetails"
	FieldFeatures        = "features"
	FieldRating          = "rating"
)

// FieldMask flags which property attributes a query cares about. It is
// produced once per query by the field-mask extraction call and is
// immutable afterwards. TopFloor is derived ("highest floor" style
// queries) and is applied as a row restriction, not a column predicate.
type FieldMask struct {
	Society         bool `json:"society"`
	Price           bool `json:"Price_in_Crore"`
	Rate            bool `json:"Rate_rs_sqft"`
	AreaType        bool `json:"AreaType"`
	Area            bool `json:"Area_in_sq_meter"`
	Bedroom         bool `json:"bedRoom"`
	Bathroom        bool `json:"bathroom"`
	Balcony         bool `json:"balcony"`
	AdditionalRoom  bool `json:"additionalRoom"`
	Address         bool `json:"address"`
	FloorNum        bool `json:"floorNum"`
	TotalFloor      bool `json:"Totalfloor"`
	Facing          bool `json:"facing"`
	AgePossession   bool `json:"agePossession"`
	NearbyLocations bool `json:"nearbyLocations"`
	FurnishDetails  bool `json:"furnishDetails"`
	Features        bool `json:"features"`
	Rating          bool `json:"rating"`
	TopFloor        bool `json:"top_floor"`
}

// Enabled returns the dataset columns flagged relevant, in schema order.
// TopFloor is excluded: it is handled before the per-column predicates.
func (m FieldMask) Enabled() []string {
	flags := []struct {
		field string
		on    bool
	}{
		{FieldSociety, m.Society},
		{FieldPrice, m.Price},
		{FieldRate, m.Rate},
		{FieldAreaType, m.AreaType},
		{FieldArea, m.Area},
		{FieldBedroom, m.Bedroom},
		{FieldBathroom, m.Bathroom},
		{FieldBalcony, m.Balcony},
		{FieldAdditionalRoom, m.AdditionalRoom},
		{FieldAddress, m.Address},
		{FieldFloorNum, m.FloorNum},
		{FieldTotalFloor, m.TotalFloor},
		{FieldFacing, m.Facing},
		{FieldAgePossession, m.AgePossession},
		{FieldNearbyLocations, m.NearbyLocations},
		{FieldFurnishDetails, m.FurnishDetails},
		{FieldFeatures, m.Features},
		{FieldRating, m.Rating},
	}

	var enabled []string
	for _, f := range flags {
		if f.on {
			enabled = append(enabled, f.field)
		}
	}
	return enabled
}
