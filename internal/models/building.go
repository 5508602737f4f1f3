package models

// Building is one row of a scenario's building table.
type Building struct {
	ObjectID        string  `json:"objectid" gorm:"primaryKey"`
	Scenario        string  `json:"scenario" gorm:"primaryKey"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	AreaID          string  `json:"area_id" gorm:"index"`
	GroundSource    bool    `json:"ground_source"`
	DistrictHeating bool    `json:"district_heating"`
	Solar           bool    `json:"solar"`
	AirToAir        bool    `json:"air_to_air"`
	Retrofit        bool    `json:"retrofit"`
	FloorArea       float64 `json:"floor_area"`
	Address         string  `json:"address"`
	BuildingType    string  `json:"building_type"`
	WellMeters      float64 `json:"well_meters"`
	SolarProduction float64 `json:"solar_production"`
}

// HasMeasure reports whether any supply or retrofit measure is applied.
func (b Building) HasMeasure() bool {
	return b.GroundSource || b.DistrictHeating || b.Solar || b.AirToAir || b.Retrofit
}

// BuildingArea is a selectable subset of the building stock.
type BuildingArea struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label" toml:"label"`
}

// MeasureCounts is the number of selected buildings per applied measure.
type MeasureCounts struct {
	GroundSource    int `json:"ground_source"`
	DistrictHeating int `json:"district_heating"`
	Solar           int `json:"solar"`
	AirToAir        int `json:"air_to_air"`
	Retrofit        int `json:"retrofit"`
	None            int `json:"none"`
}

// FloorAreaShare is one slice of the floor-area breakdown of a selection.
type FloorAreaShare struct {
	Address   string  `json:"address"`
	FloorArea float64 `json:"floor_area"`
}
