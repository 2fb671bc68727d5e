package eac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdio/gastrace/gastrace"
	"github.com/verdio/gastrace/gastrace/contract"
	"github.com/verdio/gastrace/gastrace/counterparty"
	"github.com/verdio/gastrace/gastrace/emission"
)

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// rexInput builds the baseline REX search used across the generator tests.
func rexInput(points ...emission.Point) GenerateInput {
	return GenerateInput{
		ContractID:      "961214",
		Pipeline:        contract.PipelineREX,
		Points:          points,
		OrderType:       OrderSpot,
		Start:           day(2025, time.January, 1),
		End:             day(2025, time.January, 31),
		ReceiptLocation: &contract.ReceiptLocation{ID: "42234", Name: "Meeker Hub", Zone: "Zone 1"},
	}
}

func assertDomainError(t *testing.T, err, sentinel error) gastrace.DomainError {
	t.Helper()

	require.Error(t, err)

	var domainErr gastrace.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, sentinel.Error(), domainErr.Code)

	return domainErr
}

// ---------------------------------------------------------------------------
// DaysInPeriod / TimeRangeLabel
// ---------------------------------------------------------------------------

func TestDaysInPeriod(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{name: "january", start: day(2025, time.January, 1), end: day(2025, time.January, 31), want: 31},
		{name: "same day", start: day(2025, time.March, 5), end: day(2025, time.March, 5), want: 1},
		{name: "two days", start: day(2025, time.March, 5), end: day(2025, time.March, 6), want: 2},
		{name: "leap february", start: day(2024, time.February, 1), end: day(2024, time.February, 29), want: 29},
		{name: "intraday times ignored", start: day(2025, time.March, 5).Add(23 * time.Hour), end: day(2025, time.March, 6).Add(time.Minute), want: 2},
		{name: "misordered floors to one", start: day(2025, time.April, 10), end: day(2025, time.April, 1), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInPeriod(tt.start, tt.end))
		})
	}
}

func TestTimeRangeLabel(t *testing.T) {
	got := TimeRangeLabel(day(2025, time.January, 1), day(2025, time.January, 31))
	assert.Equal(t, "Jan 1, 2025 - Jan 31, 2025", got)
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

func TestGenerateScenario(t *testing.T) {
	gen := NewGenerator(nil)

	records, err := gen.Generate(context.Background(),
		rexInput(emission.PointProduction, emission.PointTransportation))
	require.NoError(t, err)
	require.Len(t, records, 2)

	total := decimal.Zero

	for _, r := range records {
		assert.Equal(t, 31, r.DaysInPeriod)
		assert.EqualValues(t, 62000, r.Volume)
		assert.EqualValues(t, 2000, r.DailyVolume)
		assert.Equal(t, "K#961214", r.ContractID)
		assert.Equal(t, "Jan 1, 2025 - Jan 31, 2025", r.TimeRange)

		total = total.Add(r.PricePerUnit)
	}

	assert.True(t, decimal.RequireFromString("0.10").Equal(total))

	assert.Equal(t, emission.PointProduction, records[0].EmissionPoint)
	assert.Equal(t, emission.PointTransportation, records[1].EmissionPoint)

	require.NotNil(t, records[1].Counterparty)
	assert.Equal(t, "ROCKIES EXPRESS PIPELINE LLC", records[1].Counterparty.Name)

	// Only the transportation record carries the receipt location.
	assert.Empty(t, records[0].ReceiptLocationID)
	assert.Equal(t, "42234", records[1].ReceiptLocationID)
}

func TestGenerateCarbonNeutralAppendsThermal(t *testing.T) {
	gen := NewGenerator(nil)

	input := rexInput(emission.PointProduction, emission.PointTransportation)
	input.CarbonNeutral = true

	records, err := gen.Generate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, records, 3)

	thermal := records[2]
	assert.Equal(t, emission.PointThermal, thermal.EmissionPoint)
	assert.EqualValues(t, 62000, thermal.Volume)
	assert.True(t, decimal.RequireFromString("0.10").Equal(thermal.PricePerUnit))
	require.NotNil(t, thermal.Counterparty)
	assert.Equal(t, counterparty.DefaultOffsetProvider().Name, thermal.Counterparty.Name)
}

func TestGenerateWithoutCarbonNeutralHasNoThermal(t *testing.T) {
	gen := NewGenerator(nil)

	records, err := gen.Generate(context.Background(), rexInput(emission.Baseline()...))
	require.NoError(t, err)
	require.Len(t, records, 4)

	for _, r := range records {
		assert.NotEqual(t, emission.PointThermal, r.EmissionPoint)
	}
}

func TestGenerateVolumeIsRateMultiple(t *testing.T) {
	gen := NewGenerator(nil)

	for _, span := range []struct {
		start, end time.Time
	}{
		{day(2025, time.January, 1), day(2025, time.January, 1)},
		{day(2025, time.January, 1), day(2025, time.March, 31)},
		{day(2025, time.June, 15), day(2026, time.June, 14)},
	} {
		input := rexInput(emission.Baseline()...)
		input.Start = span.start
		input.End = span.end

		records, err := gen.Generate(context.Background(), input)
		require.NoError(t, err)

		days := DaysInPeriod(span.start, span.end)
		for _, r := range records {
			assert.EqualValues(t, r.EmissionPoint.DailyRate()*int64(days), r.Volume)
		}
	}
}

func TestGenerateSyntheticIDs(t *testing.T) {
	gen := NewGenerator(nil)

	input := rexInput(emission.PointProduction, emission.PointGathering)
	input.ContractID = "k#961214"

	records, err := gen.Generate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "REX-961214-0", records[0].ID)
	assert.Equal(t, "REX-961214-1", records[1].ID)
}

func TestGenerateCounterpartyDeclarations(t *testing.T) {
	gen := NewGenerator(nil)

	input := rexInput(emission.PointProduction, emission.PointProcessing, emission.PointTransportation)
	input.Declarations = map[emission.Point]*counterparty.Declaration{
		emission.PointProduction: {
			Info:  counterparty.Info{Name: "PICEANCE GATHERING CO"},
			Known: true,
		},
		emission.PointProcessing: {
			Info: counterparty.Info{Name: "UNDISCLOSED PROCESSOR"},
			// Known left false: book-and-claim.
		},
		emission.PointTransportation: {
			Info:  counterparty.Info{Name: "NOT THE OPERATOR"},
			Known: true,
		},
	}

	records, err := gen.Generate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.NotNil(t, records[0].Counterparty)
	assert.Equal(t, "PICEANCE GATHERING CO", records[0].Counterparty.Name)

	assert.Nil(t, records[1].Counterparty)

	require.NotNil(t, records[2].Counterparty)
	assert.Equal(t, "ROCKIES EXPRESS PIPELINE LLC", records[2].Counterparty.Name)
}

func TestGenerateRubySkipsReceiptLocation(t *testing.T) {
	gen := NewGenerator(nil)

	input := GenerateInput{
		ContractID: "RB1234",
		Pipeline:   contract.PipelineRuby,
		Points:     []emission.Point{emission.PointTransportation},
		OrderType:  OrderSpot,
		Start:      day(2025, time.January, 1),
		End:        day(2025, time.January, 31),
	}

	records, err := gen.Generate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].ReceiptLocationID)
	assert.Equal(t, "K#RB1234", records[0].ContractID)
}

// ---------------------------------------------------------------------------
// Input validation
// ---------------------------------------------------------------------------

func TestGenerateRequiresContractID(t *testing.T) {
	gen := NewGenerator(nil)

	input := rexInput(emission.PointProduction)
	input.ContractID = "   "

	_, err := gen.Generate(context.Background(), input)
	assertDomainError(t, err, gastrace.ErrContractRequired)
}

func TestGenerateRequiresPoints(t *testing.T) {
	gen := NewGenerator(nil)

	_, err := gen.Generate(context.Background(), rexInput())
	assertDomainError(t, err, gastrace.ErrGenerationFailed)
}

func TestGenerateREXRequiresReceiptLocation(t *testing.T) {
	gen := NewGenerator(nil)

	input := rexInput(emission.PointProduction)
	input.ReceiptLocation = nil

	_, err := gen.Generate(context.Background(), input)
	assertDomainError(t, err, gastrace.ErrReceiptLocationRequired)

	input.ReceiptLocation = &contract.ReceiptLocation{ID: "  "}

	_, err = gen.Generate(context.Background(), input)
	assertDomainError(t, err, gastrace.ErrReceiptLocationRequired)
}

func TestGenerateForwardRequiresDateRange(t *testing.T) {
	gen := NewGenerator(nil)

	input := rexInput(emission.PointProduction)
	input.OrderType = OrderForward
	input.End = time.Time{}

	_, err := gen.Generate(context.Background(), input)
	assertDomainError(t, err, gastrace.ErrDateRangeRequired)
}
