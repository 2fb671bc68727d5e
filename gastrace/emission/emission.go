package emission

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Point is a stage in the gas value chain at which a certificate's attribute
// is attributed. It is a closed set: adding a variant must break every
// switch below until the new variant is handled.
type Point uint8

const (
	// PointProduction is the wellhead production segment.
	PointProduction Point = iota
	// PointProcessing is the gas processing segment.
	PointProcessing
	// PointTransportation is the pipeline transportation segment.
	PointTransportation
	// PointGathering is the gathering segment.
	PointGathering
	// PointThermal is the synthetic thermal-offset stage. It is never
	// requested directly; the generator appends it for carbon-neutral
	// orders.
	PointThermal
)

// String returns the lower-case wire name of the point.
func (p Point) String() string {
	switch p {
	case PointProduction:
		return "production"
	case PointProcessing:
		return "processing"
	case PointTransportation:
		return "transportation"
	case PointGathering:
		return "gathering"
	case PointThermal:
		return "thermal"
	default:
		return "unknown"
	}
}

// Parse resolves a wire name to its Point.
func Parse(raw string) (Point, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production":
		return PointProduction, nil
	case "processing":
		return PointProcessing, nil
	case "transportation":
		return PointTransportation, nil
	case "gathering":
		return PointGathering, nil
	case "thermal":
		return PointThermal, nil
	}

	return 0, fmt.Errorf("not a valid emission point: %q", raw)
}

// MarshalText implements encoding.TextMarshaler.
func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Point) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// standardDailyRate is the flat per-point certificate volume in Dth/day.
// Every segment is issued at the same rate.
const standardDailyRate int64 = 2000

var (
	standardUnitPrice = decimal.RequireFromString("0.05")
	thermalUnitPrice  = decimal.RequireFromString("0.10")
)

// DailyRate returns the fixed daily certificate volume for the point.
func (p Point) DailyRate() int64 {
	switch p {
	case PointProduction, PointProcessing, PointTransportation, PointGathering, PointThermal:
		return standardDailyRate
	default:
		return 0
	}
}

// FactorLabel returns the descriptive emission-factor label shown on a
// matched record. The thermal label is negative: it represents an offset.
func (p Point) FactorLabel() string {
	switch p {
	case PointProduction:
		return "0.0042 MT CO2e/Dth (production)"
	case PointProcessing:
		return "0.0031 MT CO2e/Dth (processing)"
	case PointTransportation:
		return "0.0018 MT CO2e/Dth (transportation)"
	case PointGathering:
		return "0.0026 MT CO2e/Dth (gathering)"
	case PointThermal:
		return "-0.0525 MT CO2e/Dth (thermal offset)"
	default:
		return ""
	}
}

// UnitPrice returns the fixed per-certificate unit price for the point.
// Thermal offsets are priced at double the standard segment rate.
func (p Point) UnitPrice() decimal.Decimal {
	switch p {
	case PointProduction, PointProcessing, PointTransportation, PointGathering:
		return standardUnitPrice
	case PointThermal:
		return thermalUnitPrice
	default:
		return decimal.Zero
	}
}

// Baseline returns the four-point default segment set applied when a search
// does not narrow the segments.
func Baseline() []Point {
	return []Point{PointProduction, PointProcessing, PointTransportation, PointGathering}
}

// TotalPrice sums the unit price of each point. An empty list prices the
// four-point baseline.
func TotalPrice(points []Point) decimal.Decimal {
	if len(points) == 0 {
		points = Baseline()
	}

	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.UnitPrice())
	}

	return total
}
