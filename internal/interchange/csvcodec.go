package interchange

import (
	"strconv"
	"strings"
	"time"

	"github.com/tmakela/scubalog/internal/entities"
	"github.com/tmakela/scubalog/internal/units"
)

// CSV schema versions. The layout evolved from 27 columns (combined start/end
// datetime columns, no bottom time or visibility rating) to the current 30.
// Both remain importable; export always writes the current layout.
const (
	currentColumnCount = 30
	legacyColumnCount  = 27

	currentDepthColumn = 7
	legacyDepthColumn  = 5
)

const (
	dateLayout           = "2006-01-02"
	clockLayout          = "15:04"
	legacyDateTimeLayout = "2006-01-02 15:04"
)

// legacyDateTimeLayouts are accepted for the combined datetime columns of the
// 27-column layout, most specific first.
var legacyDateTimeLayouts = []string{
	legacyDateTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	dateLayout,
}

// csvHeader returns the 30-column header row with unit suffixes matching the
// requested system. The depth header doubles as the unit marker the importer
// auto-detects, so a file stays self-describing.
func csvHeader(sys units.System) []string {
	depth, weight, tank, pressure, temp := "m", "kg", "L", "Bar", "°C"
	if sys == units.Imperial {
		depth, weight, tank, pressure, temp = "ft", "lb", "cu ft", "PSI", "°F"
	}
	return []string{
		"Title",
		"Location",
		"Dive Type",
		"Date",
		"Bottom Time (min)",
		"Start Time",
		"End Time",
		"Max Depth (" + depth + ")",
		"Visibility (" + depth + ")",
		"Visibility Rating",
		"Rating",
		"Weight (" + weight + ")",
		"Weighting",
		"Tank Size (" + tank + ")",
		"Tank Material",
		"Gas Mixture",
		"Start Pressure (" + pressure + ")",
		"End Pressure (" + pressure + ")",
		"Suit Type",
		"Water Type",
		"Water Body",
		"Waves",
		"Current",
		"Surge",
		"Air Temp (" + temp + ")",
		"Surface Temp (" + temp + ")",
		"Bottom Temp (" + temp + ")",
		"Notes",
		"Latitude",
		"Longitude",
	}
}

// ExportCSV renders the dives in caller-supplied order as CSV text in the
// current 30-column layout. Values are converted out of metric storage when
// the imperial system is requested.
func ExportCSV(dives []entities.Dive, sys units.System) string {
	var b strings.Builder
	writeRow(&b, csvHeader(sys))
	for i := range dives {
		writeRow(&b, diveToRow(&dives[i], sys))
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeField(f))
	}
	b.WriteByte('\n')
}

func diveToRow(d *entities.Dive, sys units.System) []string {
	imperial := sys == units.Imperial

	depth := d.MaxDepthMeters
	if imperial {
		depth = units.MetersToFeet(depth)
	}

	startClock := clockField(d.StartTime)
	endClock := clockField(d.EndTime)

	return []string{
		d.Title,
		d.Location,
		d.DiveType.Label(),
		d.StartTime.Format(dateLayout),
		strconv.Itoa(d.BottomTimeMinutes()),
		startClock,
		endClock,
		formatFloat(depth),
		optFloat(d.VisibilityMeters, imperial, units.MetersToFeet),
		d.VisibilityCategory.Label(),
		strconv.Itoa(d.Rating),
		optFloat(d.WeightKg, imperial, units.KgToPounds),
		d.Weighting.Label(),
		optFloat(d.TankSizeLiters, imperial, units.LitersToCubicFeet),
		d.TankMaterial.Label(),
		d.GasMixture.Label(),
		optFloat(d.StartPressureBar, imperial, units.BarToPSI),
		optFloat(d.EndPressureBar, imperial, units.BarToPSI),
		d.SuitType.Label(),
		d.WaterType.Label(),
		d.WaterBody.Label(),
		d.Waves.Label(),
		d.Current.Label(),
		d.Surge.Label(),
		optFloat(d.AirTempC, imperial, units.CelsiusToFahrenheit),
		optFloat(d.SurfaceTempC, imperial, units.CelsiusToFahrenheit),
		optFloat(d.BottomTempC, imperial, units.CelsiusToFahrenheit),
		d.Notes,
		coordField(d.Latitude),
		coordField(d.Longitude),
	}
}

// clockField renders HH:MM, omitting an exact-midnight time. Midnight is how
// "time unknown" round-trips, so the importer treats an empty clock the same
// way.
func clockField(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return ""
	}
	return t.Format(clockLayout)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func optFloat(v *float64, convert bool, conv func(float64) float64) string {
	if v == nil {
		return ""
	}
	x := *v
	if convert {
		x = conv(x)
	}
	return formatFloat(x)
}

// Coordinates keep full precision; one decimal of latitude is ~11km.
func coordField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ImportCSV parses CSV text into candidate dive records.
//
// The header must have exactly 27 or 30 columns; anything else is a
// SchemaMismatchError. Each data row must match the header's column count
// exactly or the whole import fails with a RowShapeError — nothing is
// partially committed. Unit handling is auto-detected from the depth header
// text: a header containing "ft" marks the file imperial. Optional fields
// degrade to absence on bad values; the required date column is a hard
// DateFormatError.
func ImportCSV(text string) ([]entities.Dive, error) {
	rows := ParseRows(text)
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	header := rows[0]
	var legacy bool
	switch len(header) {
	case currentColumnCount:
		legacy = false
	case legacyColumnCount:
		legacy = true
	default:
		return nil, &SchemaMismatchError{
			Got:      len(header),
			Expected: []int{legacyColumnCount, currentColumnCount},
		}
	}

	depthHeader := header[currentDepthColumn]
	if legacy {
		depthHeader = header[legacyDepthColumn]
	}
	imperial := strings.Contains(strings.ToLower(depthHeader), "ft")

	dataRows := rows[1:]
	if len(dataRows) == 0 {
		return nil, ErrEmptyInput
	}

	dives := make([]entities.Dive, 0, len(dataRows))
	for i, row := range dataRows {
		rowNum := i + 1
		if len(row) != len(header) {
			return nil, &RowShapeError{Row: rowNum, Expected: len(header), Got: len(row)}
		}

		var (
			d   entities.Dive
			err error
		)
		if legacy {
			err = rowToDiveLegacy(row, rowNum, imperial, &d)
		} else {
			err = rowToDive(row, rowNum, imperial, &d)
		}
		if err != nil {
			return nil, err
		}
		dives = append(dives, d)
	}

	return dives, nil
}

// rowToDive decodes a 30-column data row.
func rowToDive(row []string, rowNum int, imperial bool, d *entities.Dive) error {
	d.Title = row[0]
	d.Location = row[1]
	d.DiveType = entities.ParseDiveType(row[2])

	date, err := time.Parse(dateLayout, strings.TrimSpace(row[3]))
	if err != nil {
		return &DateFormatError{Row: rowNum, Value: row[3]}
	}

	d.StartTime = combineClock(date, row[5])
	if clock := strings.TrimSpace(row[6]); clock != "" {
		d.EndTime = combineClock(date, row[6])
	} else {
		// No explicit end time: re-expand it from the bottom time column.
		minutes, _ := strconv.Atoi(strings.TrimSpace(row[4]))
		d.EndTime = d.StartTime.Add(time.Duration(minutes) * time.Minute)
	}

	d.MaxDepthMeters = requiredFloat(row[7], imperial, units.FeetToMeters)
	d.VisibilityMeters = optionalFloat(row[8], imperial, units.FeetToMeters)
	d.VisibilityCategory = entities.ParseVisibilityCategory(row[9])
	d.Rating = optionalInt(row[10])
	d.WeightKg = optionalFloat(row[11], imperial, units.PoundsToKg)
	d.Weighting = entities.ParseWeighting(row[12])
	d.TankSizeLiters = optionalFloat(row[13], imperial, units.CubicFeetToLiters)
	d.TankMaterial = entities.ParseTankMaterial(row[14])
	d.GasMixture = entities.ParseGasMix(row[15])
	d.StartPressureBar = optionalFloat(row[16], imperial, units.PSIToBar)
	d.EndPressureBar = optionalFloat(row[17], imperial, units.PSIToBar)
	d.SuitType = entities.ParseSuitType(row[18])
	d.WaterType = entities.ParseWaterType(row[19])
	d.WaterBody = entities.ParseWaterBody(row[20])
	d.Waves = entities.ParseSeverity(row[21])
	d.Current = entities.ParseSeverity(row[22])
	d.Surge = entities.ParseSeverity(row[23])
	d.AirTempC = optionalFloat(row[24], imperial, units.FahrenheitToCelsius)
	d.SurfaceTempC = optionalFloat(row[25], imperial, units.FahrenheitToCelsius)
	d.BottomTempC = optionalFloat(row[26], imperial, units.FahrenheitToCelsius)
	d.Notes = row[27]
	d.Latitude = optionalFloat(row[28], false, nil)
	d.Longitude = optionalFloat(row[29], false, nil)

	return nil
}

// rowToDiveLegacy decodes a 27-column data row: combined start/end datetime
// columns, no bottom time, start/end clock, or visibility rating.
func rowToDiveLegacy(row []string, rowNum int, imperial bool, d *entities.Dive) error {
	d.Title = row[0]
	d.Location = row[1]
	d.DiveType = entities.ParseDiveType(row[2])

	start, ok := parseLegacyDateTime(row[3])
	if !ok {
		return &DateFormatError{Row: rowNum, Value: row[3]}
	}
	d.StartTime = start
	if end, ok := parseLegacyDateTime(row[4]); ok {
		d.EndTime = end
	} else {
		d.EndTime = start
	}

	d.MaxDepthMeters = requiredFloat(row[5], imperial, units.FeetToMeters)
	d.VisibilityMeters = optionalFloat(row[6], imperial, units.FeetToMeters)
	d.Rating = optionalInt(row[7])
	d.WeightKg = optionalFloat(row[8], imperial, units.PoundsToKg)
	d.Weighting = entities.ParseWeighting(row[9])
	d.TankSizeLiters = optionalFloat(row[10], imperial, units.CubicFeetToLiters)
	d.TankMaterial = entities.ParseTankMaterial(row[11])
	d.GasMixture = entities.ParseGasMix(row[12])
	d.StartPressureBar = optionalFloat(row[13], imperial, units.PSIToBar)
	d.EndPressureBar = optionalFloat(row[14], imperial, units.PSIToBar)
	d.SuitType = entities.ParseSuitType(row[15])
	d.WaterType = entities.ParseWaterType(row[16])
	d.WaterBody = entities.ParseWaterBody(row[17])
	d.Waves = entities.ParseSeverity(row[18])
	d.Current = entities.ParseSeverity(row[19])
	d.Surge = entities.ParseSeverity(row[20])
	d.AirTempC = optionalFloat(row[21], imperial, units.FahrenheitToCelsius)
	d.SurfaceTempC = optionalFloat(row[22], imperial, units.FahrenheitToCelsius)
	d.BottomTempC = optionalFloat(row[23], imperial, units.FahrenheitToCelsius)
	d.Notes = row[24]
	d.Latitude = optionalFloat(row[25], false, nil)
	d.Longitude = optionalFloat(row[26], false, nil)

	return nil
}

func parseLegacyDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range legacyDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// combineClock attaches an optional HH:MM clock to a date. A missing or
// unparseable clock leaves the time at midnight.
func combineClock(date time.Time, clock string) time.Time {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return date
	}
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		if t, err = time.Parse("15:04:05", clock); err != nil {
			return date
		}
	}
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

func requiredFloat(s string, imperial bool, conv func(float64) float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	if imperial {
		v = conv(v)
	}
	return v
}

func optionalFloat(s string, imperial bool, conv func(float64) float64) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	if imperial && conv != nil {
		v = conv(v)
	}
	return &v
}

func optionalInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
