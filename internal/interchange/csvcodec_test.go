package interchange

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmakela/scubalog/internal/entities"
	"github.com/tmakela/scubalog/internal/units"
)

func fptr(v float64) *float64 { return &v }

func sampleDive() entities.Dive {
	return entities.Dive{
		Title:              "Morning Reef",
		Location:           "Coral Gardens",
		DiveType:           entities.DiveTypeBoat,
		StartTime:          time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
		EndTime:            time.Date(2024, 6, 15, 10, 15, 0, 0, time.UTC),
		MaxDepthMeters:     18.5,
		VisibilityMeters:   fptr(12.0),
		VisibilityCategory: entities.VisibilityGood,
		Rating:             4,
		WeightKg:           fptr(6.0),
		Weighting:          entities.WeightingGood,
		TankSizeLiters:     fptr(12.0),
		TankMaterial:       entities.TankMaterialAluminum,
		GasMixture:         entities.GasMixAir,
		StartPressureBar:   fptr(200.0),
		EndPressureBar:     fptr(50.0),
		SuitType:           entities.SuitTypeWetsuit5,
		WaterType:          entities.WaterTypeSalt,
		WaterBody:          entities.WaterBodyOcean,
		Waves:              entities.SeverityLight,
		Current:            entities.SeverityNone,
		Surge:              entities.SeverityNone,
		AirTempC:           fptr(28.0),
		SurfaceTempC:       fptr(26.0),
		BottomTempC:        fptr(22.0),
		Notes:              "Saw two turtles, nice drift along the wall",
		Latitude:           fptr(36.0127),
		Longitude:          fptr(-5.6078),
	}
}

func TestImportCSVErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := ImportCSV("")

		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("header only", func(t *testing.T) {
		header := ExportCSV(nil, units.Metric)

		_, err := ImportCSV(header)

		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("wrong column count is a schema mismatch", func(t *testing.T) {
		text := strings.Repeat("h,", 27) + "h\n" + strings.Repeat("v,", 27) + "v\n" // 28 columns

		_, err := ImportCSV(text)

		var schemaErr *SchemaMismatchError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, 28, schemaErr.Got)
		assert.Equal(t, []int{27, 30}, schemaErr.Expected)
	})

	t.Run("short data row is a row shape error", func(t *testing.T) {
		text := ExportCSV([]entities.Dive{sampleDive()}, units.Metric) + "only,three,fields\n"

		_, err := ImportCSV(text)

		var rowErr *RowShapeError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 2, rowErr.Row)
		assert.Equal(t, 30, rowErr.Expected)
		assert.Equal(t, 3, rowErr.Got)
	})

	t.Run("bad date is a date format error", func(t *testing.T) {
		d := sampleDive()
		text := ExportCSV([]entities.Dive{d}, units.Metric)
		text = strings.Replace(text, "2024-06-15", "15/06/2024", 1)

		_, err := ImportCSV(text)

		var dateErr *DateFormatError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, 1, dateErr.Row)
		assert.Equal(t, "15/06/2024", dateErr.Value)
	})
}

func TestCSVRoundTrip(t *testing.T) {
	orig := sampleDive()

	text := ExportCSV([]entities.Dive{orig}, units.Metric)
	dives, err := ImportCSV(text)
	require.NoError(t, err)
	require.Len(t, dives, 1)

	got := dives[0]
	assert.Equal(t, orig.Title, got.Title)
	assert.Equal(t, orig.Location, got.Location)
	assert.Equal(t, orig.DiveType, got.DiveType)
	assert.Equal(t, orig.StartTime, got.StartTime)
	assert.Equal(t, orig.EndTime, got.EndTime)
	assert.InDelta(t, orig.MaxDepthMeters, got.MaxDepthMeters, 0.05)
	require.NotNil(t, got.VisibilityMeters)
	assert.InDelta(t, *orig.VisibilityMeters, *got.VisibilityMeters, 0.05)
	assert.Equal(t, orig.VisibilityCategory, got.VisibilityCategory)
	assert.Equal(t, orig.Rating, got.Rating)
	assert.Equal(t, orig.Weighting, got.Weighting)
	assert.Equal(t, orig.TankMaterial, got.TankMaterial)
	assert.Equal(t, orig.GasMixture, got.GasMixture)
	assert.Equal(t, orig.SuitType, got.SuitType)
	assert.Equal(t, orig.WaterType, got.WaterType)
	assert.Equal(t, orig.WaterBody, got.WaterBody)
	assert.Equal(t, orig.Notes, got.Notes)
	require.NotNil(t, got.Latitude)
	assert.Equal(t, *orig.Latitude, *got.Latitude) // coordinates keep full precision
	assert.Equal(t, *orig.Longitude, *got.Longitude)
}

func TestCSVImperialRoundTrip(t *testing.T) {
	orig := sampleDive()

	text := ExportCSV([]entities.Dive{orig}, units.Imperial)
	assert.Contains(t, text, "Max Depth (ft)")

	dives, err := ImportCSV(text)
	require.NoError(t, err)
	require.Len(t, dives, 1)

	got := dives[0]
	// One export/import cycle through one-decimal imperial rendering stays
	// within a tenth of a unit of the stored metric value.
	assert.InDelta(t, orig.MaxDepthMeters, got.MaxDepthMeters, 0.05)
	require.NotNil(t, got.StartPressureBar)
	assert.InDelta(t, *orig.StartPressureBar, *got.StartPressureBar, 0.05)
	require.NotNil(t, got.WeightKg)
	assert.InDelta(t, *orig.WeightKg, *got.WeightKg, 0.05)
	require.NotNil(t, got.BottomTempC)
	assert.InDelta(t, *orig.BottomTempC, *got.BottomTempC, 0.1)
}

func TestImportCSVImperialDetection(t *testing.T) {
	// A 33.0 ft depth in an imperial file must import as 10.06 m.
	header := csvHeader(units.Imperial)
	row := make([]string, len(header))
	row[0] = "Test Dive"
	row[3] = "2024-01-10"
	row[4] = "40"
	row[7] = "33.0"

	text := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"

	dives, err := ImportCSV(text)
	require.NoError(t, err)
	require.Len(t, dives, 1)
	assert.InDelta(t, 10.06, dives[0].MaxDepthMeters, 0.005)
}

func TestImportCSVBottomTimeExpansion(t *testing.T) {
	header := csvHeader(units.Metric)
	row := make([]string, len(header))
	row[0] = "No Clock"
	row[3] = "2024-01-10"
	row[4] = "45" // bottom time, no start/end clocks

	text := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"

	dives, err := ImportCSV(text)
	require.NoError(t, err)
	require.Len(t, dives, 1)

	d := dives[0]
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), d.StartTime)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 45, 0, 0, time.UTC), d.EndTime)
	assert.Equal(t, 45, d.BottomTimeMinutes())
}

func TestImportCSVLegacyLayout(t *testing.T) {
	header := make([]string, 27)
	copy(header, []string{
		"Title", "Location", "Dive Type", "Start Date", "End Date", "Max Depth (m)",
		"Visibility (m)", "Rating", "Weight (kg)", "Weighting", "Tank Size (L)",
		"Tank Material", "Gas Mixture", "Start Pressure (Bar)", "End Pressure (Bar)",
		"Suit Type", "Water Type", "Water Body", "Waves", "Current", "Surge",
		"Air Temp (°C)", "Surface Temp (°C)", "Bottom Temp (°C)", "Notes",
		"Latitude", "Longitude",
	})
	row := make([]string, 27)
	row[0] = "Old Log Entry"
	row[3] = "2019-08-02 14:05"
	row[4] = "2019-08-02 14:52"
	row[5] = "21.3"
	row[12] = "EANx32"

	text := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"

	dives, err := ImportCSV(text)
	require.NoError(t, err)
	require.Len(t, dives, 1)

	d := dives[0]
	assert.Equal(t, "Old Log Entry", d.Title)
	assert.Equal(t, time.Date(2019, 8, 2, 14, 5, 0, 0, time.UTC), d.StartTime)
	assert.Equal(t, time.Date(2019, 8, 2, 14, 52, 0, 0, time.UTC), d.EndTime)
	assert.InDelta(t, 21.3, d.MaxDepthMeters, 0.001)
	assert.Equal(t, entities.GasMixEANx32, d.GasMixture)
	assert.Equal(t, 47, d.BottomTimeMinutes())
}

func TestImportCSVLegacyMissingEndFallsBackToStart(t *testing.T) {
	header := strings.Repeat("c,", 5) + "Max Depth (m)" + strings.Repeat(",c", 21)
	row := make([]string, 27)
	row[3] = "2019-08-02 14:05"

	text := header + "\n" + strings.Join(row, ",") + "\n"

	dives, err := ImportCSV(text)
	require.NoError(t, err)
	require.Len(t, dives, 1)
	assert.Equal(t, dives[0].StartTime, dives[0].EndTime)
	assert.Equal(t, 0, dives[0].BottomTimeMinutes())
}

func TestExportCSVDeterministic(t *testing.T) {
	dives := []entities.Dive{sampleDive(), sampleDive()}
	dives[1].Title = "Second Dive"

	assert.Equal(t, ExportCSV(dives, units.Metric), ExportCSV(dives, units.Metric))
}

func TestExportCSVMidnightClockOmitted(t *testing.T) {
	d := sampleDive()
	d.StartTime = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	d.EndTime = d.StartTime

	text := ExportCSV([]entities.Dive{d}, units.Metric)
	rows := ParseRows(text)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][5])
	assert.Equal(t, "", rows[1][6])
}
