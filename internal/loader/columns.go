package loader

import "energyplan/server/internal/models"

// Column names of the simulation output.
const (
	colObjectID        = "objectid"
	colX               = "x"
	colY               = "y"
	colAreaID          = "bygningsomraadeid"
	colGroundSource    = "grunnvarme"
	colDistrictHeating = "fjernvarme"
	colSolar           = "solceller"
	colAirToAir        = "luft_luft_varmepumpe"
	colRetrofit        = "oppgraderes"
	colFloorArea       = "bruksareal_totalt"
	colAddress         = "har_adresse"
	colBuildingType    = "profet_bygningstype"
	colWellMeters      = "grunnvarme_meter"
	colSolarProduction = "_solcelleproduksjon_sum"

	colSeriesID = "ID"
	colScenario = "scenario_navn"
	colIndex    = "Unnamed: 0"
)

var requiredBuildingColumns = []string{colObjectID, colX, colY, colAreaID}

// CategoryColumns maps the series labels of the hourly table to categories.
var CategoryColumns = map[string]models.Category{
	"_termisk_energibehov":         models.CategoryThermalDelivered,
	"_elektrisk_energibehov":       models.CategoryElectricDelivered,
	"_romoppvarming_energibehov":   models.CategorySpaceHeating,
	"_tappevann_energibehov":       models.CategoryHotWater,
	"_elspesifikt_energibehov":     models.CategoryElectricSpecific,
	"_nettutveksling_energi_liste": models.CategoryGridExchange,
}
