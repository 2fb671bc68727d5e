package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/verdio/gastrace/gastrace"
	"github.com/verdio/gastrace/gastrace/contract"
	"github.com/verdio/gastrace/gastrace/counterparty"
	"github.com/verdio/gastrace/gastrace/eac"
	"github.com/verdio/gastrace/gastrace/emission"
	"github.com/verdio/gastrace/gastrace/log"
)

// Step is the wizard's position in the transaction flow.
//
// Transitions:
//
//	Search → Review   (InitiateTransaction, gated)
//	Review → Search   (Back, explicit)
//	Review → Success  (Submit, gated; terminal)
type Step uint8

const (
	// StepSearch is the initial step: criteria entry and match generation.
	StepSearch Step = iota
	// StepReview displays aggregates and pricing before submission.
	StepReview
	// StepSuccess is terminal; the transaction id is available.
	StepSuccess
)

// String returns the step's display name.
func (s Step) String() string {
	switch s {
	case StepSearch:
		return "search"
	case StepReview:
		return "review"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// EligibilityDecision is the purchase-gating decision returned by the
// external eligibility collaborator.
type EligibilityDecision struct {
	CanPurchase         bool     `json:"canPurchase"`
	MissingRequirements []string `json:"missingRequirements"`
	RemediationURL      string   `json:"remediationUrl,omitempty"`
}

// EligibilityChecker gates step advancement and submission.
type EligibilityChecker interface {
	Check(ctx context.Context, profileID string) (EligibilityDecision, error)
}

// TransferRequest is the structured submission accepted by the transfer
// collaborator.
type TransferRequest struct {
	SellerProfileID string          `json:"sellerProfileId"`
	BuyerProfileID  string          `json:"buyerProfileId"`
	SellerWalletID  string          `json:"sellerWalletId"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Unit            string          `json:"unit"`
}

// Submitter executes the final transfer and returns a transaction id.
type Submitter interface {
	Submit(ctx context.Context, req TransferRequest) (string, error)
}

// EligibilityError reports a blocked purchase with its remediation data.
type EligibilityError struct {
	Decision EligibilityDecision
}

func (e EligibilityError) Error() string {
	if len(e.Decision.MissingRequirements) == 0 {
		return "purchase is not permitted"
	}

	return "purchase blocked, missing: " + strings.Join(e.Decision.MissingRequirements, ", ")
}

// Is lets errors.Is match the ineligibility sentinel.
func (EligibilityError) Is(target error) bool {
	return target == gastrace.ErrPurchaseIneligible
}

// SearchCriteria is the user input gathered at the Search step.
type SearchCriteria struct {
	ContractID      string
	Pipeline        contract.Pipeline
	Points          []emission.Point
	OrderType       eac.OrderType
	CarbonNeutral   bool
	Start           time.Time
	End             time.Time
	ReceiptLocation *contract.ReceiptLocation
	Declarations    map[emission.Point]*counterparty.Declaration
	QETCompatible   bool
	OfftakePoint    string
}

// TransactionDetails aggregates the matched set for review and submission.
// It persists across steps until a new search resets it.
type TransactionDetails struct {
	Quantity        int64            `json:"quantity"`
	Segments        []emission.Point `json:"segment"`
	OfftakePoint    string           `json:"offtakePoint"`
	TransactionType eac.OrderType    `json:"transactionType"`
	StartDate       time.Time        `json:"startDate"`
	EndDate         time.Time        `json:"endDate"`
	DailyVolume     int64            `json:"dailyVolume"`
}

// Wizard drives the gated search → review → success flow. It is safe for
// concurrent use; a search that finishes after a newer one started is
// discarded rather than applied.
type Wizard struct {
	generator *eac.Generator
	checker   EligibilityChecker
	submitter Submitter
	logger    log.Logger
	tracer    trace.Tracer

	mu              sync.Mutex
	step            Step
	searchSeq       uint64
	submitting      bool
	matches         []eac.MatchedEAC
	pendingCriteria SearchCriteria
	details         *TransactionDetails
	companyID       string
	txID            string
}

// New builds a Wizard at the Search step. A nil logger degrades to no-op.
func New(generator *eac.Generator, checker EligibilityChecker, submitter Submitter, logger log.Logger) *Wizard {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Wizard{
		generator: generator,
		checker:   checker,
		submitter: submitter,
		logger:    logger,
		tracer:    otel.Tracer("gastrace/wizard"),
	}
}

// Step returns the current wizard step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.step
}

// Matches returns a copy of the current matched-record snapshot.
func (w *Wizard) Matches() []eac.MatchedEAC {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]eac.MatchedEAC, len(w.matches))
	copy(out, w.matches)

	return out
}

// Details returns the aggregated transaction details, or nil before the
// first successful initiation.
func (w *Wizard) Details() *TransactionDetails {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.details == nil {
		return nil
	}

	details := *w.details

	return &details
}

// TransactionID returns the submitted transaction id, empty before Success.
func (w *Wizard) TransactionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.txID
}

// Search validates the contract, generates the matched set, and replaces the
// previous snapshot. It is only accepted at the Search step: advancing
// requires an explicit InitiateTransaction, and returning from Review
// requires an explicit Back. An empty criteria point list is widened to
// the four-point baseline here, at the boundary, so the generator itself
// stays total.
//
// A search that completes after a newer search began is discarded and
// reported as a stale result.
func (w *Wizard) Search(ctx context.Context, criteria SearchCriteria) ([]eac.MatchedEAC, error) {
	ctx, span := w.tracer.Start(ctx, "wizard.search", trace.WithAttributes(
		attribute.String("pipeline", string(criteria.Pipeline)),
	))
	defer span.End()

	w.mu.Lock()
	if w.step != StepSearch {
		msg := "a completed transaction cannot be searched again"
		if w.step == StepReview {
			msg = "searching from review requires stepping back first"
		}

		w.mu.Unlock()

		return nil, gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step", msg)
	}

	w.searchSeq++
	seq := w.searchSeq
	w.mu.Unlock()

	receiptLocationID := ""
	if criteria.ReceiptLocation != nil {
		receiptLocationID = criteria.ReceiptLocation.ID
	}

	if result := contract.Validate(criteria.ContractID, criteria.Pipeline, receiptLocationID); !result.Valid {
		return nil, contractError(result)
	}

	points := criteria.Points
	if len(points) == 0 {
		points = emission.Baseline()
	}

	records, err := w.generator.Generate(ctx, eac.GenerateInput{
		ContractID:      criteria.ContractID,
		Pipeline:        criteria.Pipeline,
		Points:          points,
		OrderType:       criteria.OrderType,
		CarbonNeutral:   criteria.CarbonNeutral,
		Start:           criteria.Start,
		End:             criteria.End,
		ReceiptLocation: criteria.ReceiptLocation,
		Declarations:    criteria.Declarations,
		QETCompatible:   criteria.QETCompatible,
	})

	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.searchSeq {
		w.logger.Log(ctx, log.LevelWarn, "stale search result discarded",
			log.Any("seq", seq))

		return nil, gastrace.NewDomainError(gastrace.ErrStaleResult, "",
			"search superseded by a newer request")
	}

	if err != nil {
		// Generation failures reset the snapshot: the display must not keep
		// showing matches from a previous search.
		w.matches = nil
		w.details = nil

		return nil, err
	}

	w.matches = records
	w.details = nil
	w.pendingCriteria = criteria

	out := make([]eac.MatchedEAC, len(records))
	copy(out, records)

	return out, nil
}

// InitiateTransaction moves Search → Review. It requires a non-empty matched
// set and a selected corporate entity, and the eligibility gate must pass.
func (w *Wizard) InitiateTransaction(ctx context.Context, companyID string) error {
	ctx, span := w.tracer.Start(ctx, "wizard.initiate")
	defer span.End()

	w.mu.Lock()

	if w.step != StepSearch {
		w.mu.Unlock()

		return gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"review is only reachable from search")
	}

	if len(w.matches) == 0 {
		w.mu.Unlock()

		return gastrace.NewDomainError(gastrace.ErrEmptyMatchSet, "matches",
			"no matched certificates to transact")
	}

	if strings.TrimSpace(companyID) == "" {
		w.mu.Unlock()

		return gastrace.NewDomainError(gastrace.ErrNoCompanySelected, "companyId",
			"a corporate entity must be selected")
	}

	seq := w.searchSeq
	w.mu.Unlock()

	decision, err := w.checker.Check(ctx, companyID)
	if err != nil {
		return err
	}

	if !decision.CanPurchase {
		w.logger.Log(ctx, log.LevelWarn, "purchase blocked at review gate",
			log.String("company_id", companyID),
			log.Any("missing", decision.MissingRequirements),
		)

		return EligibilityError{Decision: decision}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// The gate ran outside the lock; the snapshot checked above may have been
	// replaced or cleared in the meantime. Re-validate before entering review.
	if seq != w.searchSeq {
		return gastrace.NewDomainError(gastrace.ErrStaleResult, "",
			"matched set changed while initiating; search again")
	}

	if w.step != StepSearch {
		return gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"review is only reachable from search")
	}

	if len(w.matches) == 0 {
		return gastrace.NewDomainError(gastrace.ErrEmptyMatchSet, "matches",
			"no matched certificates to transact")
	}

	w.companyID = companyID
	w.details = w.aggregateLocked()
	w.step = StepReview

	w.logger.Log(ctx, log.LevelInfo, "transaction initiated",
		log.String("company_id", companyID),
		log.Int("matches", len(w.matches)),
	)

	return nil
}

// Back moves Review → Search. It is the only backward transition.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepReview {
		return gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"only review can step back to search")
	}

	if w.submitting {
		return gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"cannot step back while a submission is in flight")
	}

	w.step = StepSearch

	return nil
}

// Submit executes the transfer and moves Review → Success. The eligibility
// gate runs again immediately before submission to tolerate eligibility
// changing between steps. At most one submission is in flight at a time: a
// second Submit arriving while the first is still with the transfer
// collaborator is rejected rather than executed twice.
func (w *Wizard) Submit(ctx context.Context, req TransferRequest) (string, error) {
	ctx, span := w.tracer.Start(ctx, "wizard.submit")
	defer span.End()

	w.mu.Lock()

	if w.step != StepReview {
		w.mu.Unlock()

		return "", gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"submission is only reachable from review")
	}

	if w.submitting {
		w.mu.Unlock()

		return "", gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"a submission is already in flight")
	}

	w.submitting = true
	companyID := w.companyID
	w.mu.Unlock()

	txID, err := w.submitTransfer(ctx, companyID, req)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.submitting = false

	if err != nil {
		return "", err
	}

	if w.step != StepReview {
		return "", gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"submission is only reachable from review")
	}

	w.txID = txID
	w.step = StepSuccess

	w.logger.Log(ctx, log.LevelInfo, "transaction submitted",
		log.String("transaction_id", txID),
	)

	return txID, nil
}

// submitTransfer runs the pre-submission eligibility gate and the transfer
// itself. Called without w.mu held; the caller owns the in-flight flag.
func (w *Wizard) submitTransfer(ctx context.Context, companyID string, req TransferRequest) (string, error) {
	decision, err := w.checker.Check(ctx, companyID)
	if err != nil {
		return "", err
	}

	if !decision.CanPurchase {
		w.logger.Log(ctx, log.LevelWarn, "purchase blocked at submission gate",
			log.String("company_id", companyID),
			log.Any("missing", decision.MissingRequirements),
		)

		return "", EligibilityError{Decision: decision}
	}

	return w.submitter.Submit(ctx, req)
}

// aggregateLocked builds TransactionDetails from the current snapshot.
// Caller holds w.mu.
func (w *Wizard) aggregateLocked() *TransactionDetails {
	details := TransactionDetails{
		OfftakePoint:    w.pendingCriteria.OfftakePoint,
		TransactionType: w.pendingCriteria.OrderType,
		StartDate:       w.pendingCriteria.Start,
		EndDate:         w.pendingCriteria.End,
	}

	for _, record := range w.matches {
		details.Quantity += record.Volume
		details.DailyVolume += record.DailyVolume
		details.Segments = append(details.Segments, record.EmissionPoint)
	}

	return &details
}

func contractError(result contract.Result) error {
	switch {
	case strings.Contains(result.Message, "receipt location"):
		return gastrace.NewDomainError(gastrace.ErrReceiptLocationRequired, "receiptLocation", result.Message)
	case strings.Contains(result.Message, "required"):
		return gastrace.NewDomainError(gastrace.ErrContractRequired, "contractId", result.Message)
	default:
		return gastrace.NewDomainError(gastrace.ErrContractFormat, "contractId", result.Message)
	}
}
