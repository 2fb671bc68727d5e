package eac

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdio/gastrace/gastrace/contract"
	"github.com/verdio/gastrace/gastrace/counterparty"
	"github.com/verdio/gastrace/gastrace/emission"
)

// OrderType distinguishes one-time immediate delivery from scheduled
// recurring delivery across a date range.
type OrderType string

const (
	// OrderSpot is a one-time immediate delivery.
	OrderSpot OrderType = "spot"
	// OrderForward is a scheduled recurring delivery across the date range.
	OrderForward OrderType = "forward"
)

// MatchedEAC is one synthesized certificate match for an emission point on a
// contract. The set returned by a generation call is an immutable snapshot;
// a new search replaces it entirely.
type MatchedEAC struct {
	ID                   string             `json:"id"`
	ContractID           string             `json:"contractId"`
	UpstreamContractID   string             `json:"upstreamContractId"`
	DownstreamContractID string             `json:"downstreamContractId"`
	Volume               int64              `json:"volume"`
	DailyVolume          int64              `json:"dailyVolume"`
	DaysInPeriod         int                `json:"daysInPeriod"`
	SourceFacility       string             `json:"sourceFacility"`
	EmissionFactor       string             `json:"emissionFactor"`
	EmissionPoint        emission.Point     `json:"emissionPoint"`
	TimeRange            string             `json:"timeRange"`
	ReceiptLocationID    string             `json:"receiptLocationId,omitempty"`
	Counterparty         *counterparty.Info `json:"counterparty,omitempty"`
	QETCompatible        bool               `json:"qetCompatible"`
	PricePerUnit         decimal.Decimal    `json:"pricePerUnit"`
}

// GenerateInput carries the full search criteria for one generation call.
// Points must be non-empty: the empty-list-means-baseline substitution is a
// wizard-boundary rule, not a generator rule.
type GenerateInput struct {
	ContractID      string
	Pipeline        contract.Pipeline
	Points          []emission.Point
	OrderType       OrderType
	CarbonNeutral   bool
	Start           time.Time
	End             time.Time
	ReceiptLocation *contract.ReceiptLocation
	Declarations    map[emission.Point]*counterparty.Declaration
	QETCompatible   bool
}

// DaysInPeriod returns the inclusive day count between start and end at
// midnight granularity, floored at 1. A misordered range is not rejected
// here; callers that treat it as an input error validate before generating.
func DaysInPeriod(start, end time.Time) int {
	startDay := midnight(start)
	endDay := midnight(end)

	days := int(endDay.Sub(startDay).Hours()/24) + 1
	if days < 1 {
		return 1
	}

	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TimeRangeLabel formats the human-readable flow-period label shown on
// every record of a generation.
func TimeRangeLabel(start, end time.Time) string {
	const layout = "Jan 2, 2006"

	return start.Format(layout) + " - " + end.Format(layout)
}
