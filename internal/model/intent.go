package model

// Intent is the coarse classification of a user query. The extraction model
// is instructed to set exactly one flag; the workflow only branches on
// PropertyRelated, so a malformed response degrades to the chat path.
type Intent struct {
	Greeting        bool `json:"Greeting"`
	PropertyRelated bool `json:"Property_Related"`
	Farewell        bool `json:"Farewell"`
	Other           bool `json:"Other"`
}
