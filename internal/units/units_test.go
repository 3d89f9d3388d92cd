package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepthConversion(t *testing.T) {
	assert.InDelta(t, 10.06, FeetToMeters(33.0), 0.01)
	assert.InDelta(t, 98.43, MetersToFeet(30.0), 0.01)
}

func TestDepthRoundTrip(t *testing.T) {
	for _, m := range []float64{0, 5.5, 18, 40.2, 100} {
		assert.InDelta(t, m, FeetToMeters(MetersToFeet(m)), 1e-9)
	}
}

func TestWeightConversion(t *testing.T) {
	assert.InDelta(t, 22.0462, KgToPounds(10), 0.001)
	assert.InDelta(t, 10, PoundsToKg(KgToPounds(10)), 1e-9)
}

func TestPressureConversion(t *testing.T) {
	assert.InDelta(t, 2900.76, BarToPSI(200), 0.01)
	assert.InDelta(t, 200, PSIToBar(BarToPSI(200)), 1e-9)
	assert.InDelta(t, 20000000, BarToPascal(200), 1e-6)
	assert.InDelta(t, 200, PascalToBar(20000000), 1e-9)
}

func TestTemperatureConversion(t *testing.T) {
	assert.InDelta(t, 32.0, CelsiusToFahrenheit(0), 1e-9)
	assert.InDelta(t, 98.6, CelsiusToFahrenheit(37), 1e-9)
	assert.InDelta(t, 100, FahrenheitToCelsius(212), 1e-9)
	assert.InDelta(t, 273.15, CelsiusToKelvin(0), 1e-9)
	assert.InDelta(t, 24.5, KelvinToCelsius(CelsiusToKelvin(24.5)), 1e-9)
}

func TestVolumeConversion(t *testing.T) {
	assert.InDelta(t, 0.4238, LitersToCubicFeet(12), 0.001)
	assert.InDelta(t, 12, CubicFeetToLiters(LitersToCubicFeet(12)), 1e-9)
}

func TestParseSystem(t *testing.T) {
	assert.Equal(t, Imperial, ParseSystem("imperial"))
	assert.Equal(t, Metric, ParseSystem("metric"))
	assert.Equal(t, Metric, ParseSystem(""))
	assert.Equal(t, Metric, ParseSystem("furlongs"))
}
