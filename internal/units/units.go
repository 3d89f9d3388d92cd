// Package units converts physical quantities between metric and imperial.
// Records store metric values; conversion is applied only at format
// boundaries, so every function here is pure and stateless.
package units

// System identifies a unit system for display and CSV export.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// ParseSystem maps user input to a System, defaulting to metric.
func ParseSystem(s string) System {
	if s == string(Imperial) {
		return Imperial
	}
	return Metric
}

const (
	feetPerMeter    = 3.28084
	poundsPerKg     = 2.20462
	psiPerBar       = 14.5038
	cubicFeetPerL   = 0.0353147
	kelvinOffset    = 273.15
	pascalsPerBar   = 100000.0
)

func MetersToFeet(m float64) float64 { return m * feetPerMeter }
func FeetToMeters(ft float64) float64 { return ft / feetPerMeter }

func KgToPounds(kg float64) float64 { return kg * poundsPerKg }
func PoundsToKg(lb float64) float64 { return lb / poundsPerKg }

func BarToPSI(bar float64) float64 { return bar * psiPerBar }
func PSIToBar(psi float64) float64 { return psi / psiPerBar }

func LitersToCubicFeet(l float64) float64  { return l * cubicFeetPerL }
func CubicFeetToLiters(cf float64) float64 { return cf / cubicFeetPerL }

func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

func CelsiusToKelvin(c float64) float64 { return c + kelvinOffset }
func KelvinToCelsius(k float64) float64 { return k - kelvinOffset }

// UDDF stores tank pressures in pascal.
func BarToPascal(bar float64) float64 { return bar * pascalsPerBar }
func PascalToBar(pa float64) float64  { return pa / pascalsPerBar }
