package dto

// ClickRequest is one map click from the widget. Seq is the client clock in
// milliseconds and orders it against manual edits.
type ClickRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
	Seq int64    `json:"seq" validate:"min=0"`
}

// ManualLocationRequest is a numeric edit. Any finite value is accepted.
type ManualLocationRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lon *float64 `json:"lon" validate:"required"`
	Seq int64    `json:"seq" validate:"min=0"`
}

type MapViewResponse struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

type LocationResponse struct {
	Lat     float64         `json:"lat"`
	Lon     float64         `json:"lon"`
	Source  string          `json:"source"`
	Seq     int64           `json:"seq"`
	Applied bool            `json:"applied"`
	Message string          `json:"message"`
	Preview MapViewResponse `json:"preview"`
}
