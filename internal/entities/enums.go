package entities

import "strings"

// Categorical dive fields are closed string-backed enumerations. The zero
// value ("") always means "not set". CSV carries the human-facing labels
// below; UDDF represents only the gas mixture, as O2/He fractions.

type DiveType string

const (
	DiveTypeShore    DiveType = "shore"
	DiveTypeBoat     DiveType = "boat"
	DiveTypeNight    DiveType = "night"
	DiveTypeDrift    DiveType = "drift"
	DiveTypeWreck    DiveType = "wreck"
	DiveTypeCave     DiveType = "cave"
	DiveTypeIce      DiveType = "ice"
	DiveTypeAltitude DiveType = "altitude"
	DiveTypeTraining DiveType = "training"
)

type Weighting string

const (
	WeightingUnder Weighting = "underweighted"
	WeightingGood  Weighting = "good"
	WeightingOver  Weighting = "overweighted"
)

type TankMaterial string

const (
	TankMaterialAluminum TankMaterial = "aluminum"
	TankMaterialSteel    TankMaterial = "steel"
	TankMaterialCarbon   TankMaterial = "carbon"
)

type GasMix string

const (
	GasMixAir        GasMix = "air"
	GasMixEANx32     GasMix = "eanx32"
	GasMixEANx36     GasMix = "eanx36"
	GasMixEANx40     GasMix = "eanx40"
	GasMixEnriched   GasMix = "enriched"
	GasMixTrimix     GasMix = "trimix"
	GasMixRebreather GasMix = "rebreather"
)

type SuitType string

const (
	SuitTypeNone     SuitType = "none"
	SuitTypeShorty   SuitType = "shorty"
	SuitTypeWetsuit3 SuitType = "wetsuit3"
	SuitTypeWetsuit5 SuitType = "wetsuit5"
	SuitTypeWetsuit7 SuitType = "wetsuit7"
	SuitTypeSemiDry  SuitType = "semidry"
	SuitTypeDrysuit  SuitType = "drysuit"
)

type WaterType string

const (
	WaterTypeFresh    WaterType = "fresh"
	WaterTypeSalt     WaterType = "salt"
	WaterTypeBrackish WaterType = "brackish"
)

type WaterBody string

const (
	WaterBodyOcean  WaterBody = "ocean"
	WaterBodyLake   WaterBody = "lake"
	WaterBodyRiver  WaterBody = "river"
	WaterBodyQuarry WaterBody = "quarry"
	WaterBodyPool   WaterBody = "pool"
	WaterBodyOther  WaterBody = "other"
)

// Severity grades waves, current, and surge.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLight    Severity = "light"
	SeverityModerate Severity = "moderate"
	SeverityStrong   Severity = "strong"
)

type VisibilityCategory string

const (
	VisibilityTerrible  VisibilityCategory = "terrible"
	VisibilityPoor      VisibilityCategory = "poor"
	VisibilityFair      VisibilityCategory = "fair"
	VisibilityGood      VisibilityCategory = "good"
	VisibilityExcellent VisibilityCategory = "excellent"
)

var diveTypeLabels = map[DiveType]string{
	DiveTypeShore:    "Shore",
	DiveTypeBoat:     "Boat",
	DiveTypeNight:    "Night",
	DiveTypeDrift:    "Drift",
	DiveTypeWreck:    "Wreck",
	DiveTypeCave:     "Cave",
	DiveTypeIce:      "Ice",
	DiveTypeAltitude: "Altitude",
	DiveTypeTraining: "Training",
}

var weightingLabels = map[Weighting]string{
	WeightingUnder: "Underweighted",
	WeightingGood:  "Good",
	WeightingOver:  "Overweighted",
}

var tankMaterialLabels = map[TankMaterial]string{
	TankMaterialAluminum: "Aluminum",
	TankMaterialSteel:    "Steel",
	TankMaterialCarbon:   "Carbon Fiber",
}

var gasMixLabels = map[GasMix]string{
	GasMixAir:        "Air",
	GasMixEANx32:     "EANx32",
	GasMixEANx36:     "EANx36",
	GasMixEANx40:     "EANx40",
	GasMixEnriched:   "Enriched",
	GasMixTrimix:     "Trimix",
	GasMixRebreather: "Rebreather",
}

var suitTypeLabels = map[SuitType]string{
	SuitTypeNone:     "None",
	SuitTypeShorty:   "Shorty",
	SuitTypeWetsuit3: "3mm Wetsuit",
	SuitTypeWetsuit5: "5mm Wetsuit",
	SuitTypeWetsuit7: "7mm Wetsuit",
	SuitTypeSemiDry:  "Semi-Dry",
	SuitTypeDrysuit:  "Drysuit",
}

var waterTypeLabels = map[WaterType]string{
	WaterTypeFresh:    "Fresh",
	WaterTypeSalt:     "Salt",
	WaterTypeBrackish: "Brackish",
}

var waterBodyLabels = map[WaterBody]string{
	WaterBodyOcean:  "Ocean",
	WaterBodyLake:   "Lake",
	WaterBodyRiver:  "River",
	WaterBodyQuarry: "Quarry",
	WaterBodyPool:   "Pool",
	WaterBodyOther:  "Other",
}

var severityLabels = map[Severity]string{
	SeverityNone:     "None",
	SeverityLight:    "Light",
	SeverityModerate: "Moderate",
	SeverityStrong:   "Strong",
}

var visibilityCategoryLabels = map[VisibilityCategory]string{
	VisibilityTerrible:  "Terrible",
	VisibilityPoor:      "Poor",
	VisibilityFair:      "Fair",
	VisibilityGood:      "Good",
	VisibilityExcellent: "Excellent",
}

func (v DiveType) Label() string           { return diveTypeLabels[v] }
func (v Weighting) Label() string          { return weightingLabels[v] }
func (v TankMaterial) Label() string       { return tankMaterialLabels[v] }
func (v GasMix) Label() string             { return gasMixLabels[v] }
func (v SuitType) Label() string           { return suitTypeLabels[v] }
func (v WaterType) Label() string          { return waterTypeLabels[v] }
func (v WaterBody) Label() string          { return waterBodyLabels[v] }
func (v Severity) Label() string           { return severityLabels[v] }
func (v VisibilityCategory) Label() string { return visibilityCategoryLabels[v] }

func parseLabel[T ~string](labels map[T]string, s string) T {
	s = strings.TrimSpace(s)
	for value, label := range labels {
		if strings.EqualFold(label, s) || strings.EqualFold(string(value), s) {
			return value
		}
	}
	var zero T
	return zero
}

// ParseX functions map a CSV label (or raw enum value) back to the enum.
// Unrecognized text yields the zero value, which importers treat as absence.

func ParseDiveType(s string) DiveType         { return parseLabel(diveTypeLabels, s) }
func ParseWeighting(s string) Weighting       { return parseLabel(weightingLabels, s) }
func ParseTankMaterial(s string) TankMaterial { return parseLabel(tankMaterialLabels, s) }
func ParseGasMix(s string) GasMix             { return parseLabel(gasMixLabels, s) }
func ParseSuitType(s string) SuitType         { return parseLabel(suitTypeLabels, s) }
func ParseWaterType(s string) WaterType       { return parseLabel(waterTypeLabels, s) }
func ParseWaterBody(s string) WaterBody       { return parseLabel(waterBodyLabels, s) }
func ParseSeverity(s string) Severity         { return parseLabel(severityLabels, s) }
func ParseVisibilityCategory(s string) VisibilityCategory {
	return parseLabel(visibilityCategoryLabels, s)
}

// GasFractions holds the O2 and He fractions of a gas mixture. The N2
// fraction is derived as 1 - O2 - He, floored at zero.
type GasFractions struct {
	O2 float64
	He float64
}

// N2 returns the derived nitrogen fraction.
func (g GasFractions) N2() float64 {
	n2 := 1.0 - g.O2 - g.He
	if n2 < 0 {
		return 0
	}
	return n2
}

var gasMixFractions = map[GasMix]GasFractions{
	GasMixAir:        {O2: 0.21, He: 0},
	GasMixEANx32:     {O2: 0.32, He: 0},
	GasMixEANx36:     {O2: 0.36, He: 0},
	GasMixEANx40:     {O2: 0.40, He: 0},
	GasMixEnriched:   {O2: 0.50, He: 0},
	GasMixTrimix:     {O2: 0.21, He: 0.35},
	GasMixRebreather: {O2: 1.00, He: 0},
}

// Fractions returns the nominal O2/He composition for the mixture.
// The zero GasMix reports air.
func (v GasMix) Fractions() GasFractions {
	if f, ok := gasMixFractions[v]; ok {
		return f
	}
	return gasMixFractions[GasMixAir]
}

// gasClassifyOrder fixes the tolerance-match order for ClassifyGasMix.
var gasClassifyOrder = []GasMix{
	GasMixAir, GasMixEANx32, GasMixEANx36, GasMixEANx40, GasMixRebreather,
}

const gasO2Tolerance = 0.02

// ClassifyGasMix maps an arbitrary O2/He composition back to the nearest
// known category. Any helium above trace level means trimix; otherwise the
// O2 fraction is matched against the nitrox categories within a +-0.02
// tolerance. Unmapped compositions fall to "enriched" when richer than air,
// else to plain air.
func ClassifyGasMix(o2, he float64) GasMix {
	if he > 0.01 {
		return GasMixTrimix
	}
	for _, mix := range gasClassifyOrder {
		f := gasMixFractions[mix]
		if o2 >= f.O2-gasO2Tolerance && o2 <= f.O2+gasO2Tolerance {
			return mix
		}
	}
	if o2 > gasMixFractions[GasMixAir].O2+gasO2Tolerance {
		return GasMixEnriched
	}
	return GasMixAir
}
