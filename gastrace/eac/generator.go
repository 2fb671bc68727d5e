package eac

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/verdio/gastrace/gastrace"
	"github.com/verdio/gastrace/gastrace/contract"
	"github.com/verdio/gastrace/gastrace/counterparty"
	"github.com/verdio/gastrace/gastrace/emission"
	"github.com/verdio/gastrace/gastrace/log"
)

// Generator synthesizes the matched-record set for a search. It is safe for
// concurrent use; each call works on its own snapshot of the input.
type Generator struct {
	logger log.Logger
	tracer trace.Tracer
}

// NewGenerator builds a Generator. A nil logger degrades to no-op.
func NewGenerator(logger log.Logger) *Generator {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Generator{
		logger: logger,
		tracer: otel.Tracer("gastrace/eac"),
	}
}

// Generate synthesizes one matched record per requested emission point, in
// input order, plus one synthetic thermal record when the order is
// carbon-neutral.
//
// Guarantees:
//   - result length = len(input.Points), +1 when CarbonNeutral
//   - every Volume is DailyRate(point) * DaysInPeriod
//   - only the transportation record carries the receipt location, and only
//     for REX with one supplied
//
// Any panic during synthesis is recovered and surfaced as a retryable
// generation failure with a nil record set.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (records []MatchedEAC, err error) {
	ctx, span := g.tracer.Start(ctx, "eac.generate", trace.WithAttributes(
		attribute.String("pipeline", string(input.Pipeline)),
		attribute.Int("points", len(input.Points)),
		attribute.Bool("carbon_neutral", input.CarbonNeutral),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			g.logger.Log(ctx, log.LevelError, "record synthesis panicked",
				log.Any("panic", r),
				log.String("contract_id", input.ContractID),
			)

			records = nil
			err = gastrace.NewDomainError(gastrace.ErrGenerationFailed, "",
				fmt.Sprintf("record synthesis failed: %v", r))
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	id := contract.Identifier{Raw: input.ContractID, Pipeline: input.Pipeline}
	canonical := id.Canonical()
	clean := id.Clean()

	days := DaysInPeriod(input.Start, input.End)
	timeRange := TimeRangeLabel(input.Start, input.End)

	records = make([]MatchedEAC, 0, len(input.Points)+1)

	for i, point := range input.Points {
		record := MatchedEAC{
			ID:                   syntheticID(input.Pipeline, clean, i),
			ContractID:           canonical,
			UpstreamContractID:   fmt.Sprintf("%s-U%d", clean, i+1),
			DownstreamContractID: fmt.Sprintf("%s-D%d", clean, i+1),
			Volume:               point.DailyRate() * int64(days),
			DailyVolume:          point.DailyRate(),
			DaysInPeriod:         days,
			SourceFacility:       sourceFacility(input.Pipeline, point),
			EmissionFactor:       point.FactorLabel(),
			EmissionPoint:        point,
			TimeRange:            timeRange,
			Counterparty:         counterparty.Resolve(point, input.Pipeline, input.Declarations[point]),
			QETCompatible:        input.QETCompatible,
			PricePerUnit:         point.UnitPrice(),
		}

		if point == emission.PointTransportation &&
			input.Pipeline == contract.PipelineREX &&
			input.ReceiptLocation != nil {
			record.ReceiptLocationID = input.ReceiptLocation.ID
		}

		records = append(records, record)
	}

	if input.CarbonNeutral {
		records = append(records, thermalRecord(input, clean, canonical, days, timeRange))
	}

	g.logger.Log(ctx, log.LevelInfo, "matched records generated",
		log.String("contract_id", canonical),
		log.Int("records", len(records)),
		log.Int("days_in_period", days),
	)

	return records, nil
}

// thermalRecord builds the synthetic offset record appended on
// carbon-neutral orders, independent of which points were requested.
func thermalRecord(input GenerateInput, clean, canonical string, days int, timeRange string) MatchedEAC {
	point := emission.PointThermal

	return MatchedEAC{
		ID:                   syntheticID(input.Pipeline, clean, len(input.Points)),
		ContractID:           canonical,
		UpstreamContractID:   fmt.Sprintf("%s-U%d", clean, len(input.Points)+1),
		DownstreamContractID: fmt.Sprintf("%s-D%d", clean, len(input.Points)+1),
		Volume:               point.DailyRate() * int64(days),
		DailyVolume:          point.DailyRate(),
		DaysInPeriod:         days,
		SourceFacility:       sourceFacility(input.Pipeline, point),
		EmissionFactor:       point.FactorLabel(),
		EmissionPoint:        point,
		TimeRange:            timeRange,
		Counterparty:         counterparty.Resolve(point, input.Pipeline, nil),
		QETCompatible:        input.QETCompatible,
		PricePerUnit:         point.UnitPrice(),
	}
}

func validateInput(input GenerateInput) error {
	if strings.TrimSpace(input.ContractID) == "" {
		return gastrace.NewDomainError(gastrace.ErrContractRequired, "contractId", "contract id is required")
	}

	if len(input.Points) == 0 {
		return gastrace.NewDomainError(gastrace.ErrGenerationFailed, "points", "at least one emission point is required")
	}

	if input.Pipeline == contract.PipelineREX {
		if input.ReceiptLocation == nil || strings.TrimSpace(input.ReceiptLocation.ID) == "" {
			return gastrace.NewDomainError(gastrace.ErrReceiptLocationRequired, "receiptLocation",
				"REX generation requires a receipt location")
		}
	}

	if input.OrderType == OrderForward && (input.Start.IsZero() || input.End.IsZero()) {
		return gastrace.NewDomainError(gastrace.ErrDateRangeRequired, "dateRange",
			"forward orders require a start and end date")
	}

	return nil
}

func syntheticID(pipeline contract.Pipeline, clean string, ordinal int) string {
	return fmt.Sprintf("%s-%s-%d", strings.ToUpper(string(pipeline)), clean, ordinal)
}

func sourceFacility(pipeline contract.Pipeline, point emission.Point) string {
	switch pipeline {
	case contract.PipelineREX:
		return fmt.Sprintf("Rockies Express %s segment", point)
	case contract.PipelineRuby:
		return fmt.Sprintf("Ruby %s segment", point)
	default:
		return fmt.Sprintf("%s segment", point)
	}
}
