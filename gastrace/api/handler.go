package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdio/gastrace/gastrace"
	"github.com/verdio/gastrace/gastrace/client"
	"github.com/verdio/gastrace/gastrace/contract"
	"github.com/verdio/gastrace/gastrace/counterparty"
	"github.com/verdio/gastrace/gastrace/eac"
	"github.com/verdio/gastrace/gastrace/emission"
	"github.com/verdio/gastrace/gastrace/log"
	"github.com/verdio/gastrace/gastrace/schedule"
	"github.com/verdio/gastrace/gastrace/wizard"
)

const dateLayout = "2006-01-02"

// InventoryProvider is the read-only holdings collaborator surfaced
// alongside matches.
type InventoryProvider interface {
	Summary(ctx context.Context, organizationID string) (client.InventorySummary, error)
}

// Handler wires the wizard flow onto HTTP. Each search session holds its own
// wizard so concurrent users never share step state.
type Handler struct {
	generator *eac.Generator
	checker   wizard.EligibilityChecker
	submitter wizard.Submitter
	inventory InventoryProvider
	breakers  *client.BreakerManager
	logger    log.Logger

	mu       sync.Mutex
	sessions map[string]*wizard.Wizard
}

// NewHandler builds the HTTP handler. inventory may be nil when no provider
// is configured.
func NewHandler(
	generator *eac.Generator,
	checker wizard.EligibilityChecker,
	submitter wizard.Submitter,
	inventory InventoryProvider,
	breakers *client.BreakerManager,
	logger log.Logger,
) *Handler {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Handler{
		generator: generator,
		checker:   checker,
		submitter: submitter,
		inventory: inventory,
		breakers:  breakers,
		logger:    logger,
		sessions:  make(map[string]*wizard.Wizard),
	}
}

// Register mounts the routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	v1 := app.Group("/v1")

	v1.Post("/matches/search", h.search)
	v1.Post("/transactions/initiate", h.initiate)
	v1.Post("/transactions/back", h.back)
	v1.Post("/transactions/submit", h.submit)
	v1.Get("/schedules/forward", h.forwardSchedule)

	app.Get("/health", h.health)
}

// ---------------------------------------------------------------------------
// Requests / responses
// ---------------------------------------------------------------------------

type counterpartyRequest struct {
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contactName"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Known       bool   `json:"known"`
}

type searchRequest struct {
	SessionID         string                         `json:"sessionId"`
	ContractID        string                         `json:"contractId" validate:"required"`
	Pipeline          string                         `json:"pipeline" validate:"required,oneof=REX Ruby rex ruby RUBY"`
	ReceiptLocationID string                         `json:"receiptLocationId"`
	EmissionPoints    []string                       `json:"emissionPoints" validate:"dive,oneof=production processing transportation gathering"`
	OrderType         string                         `json:"orderType" validate:"omitempty,oneof=spot forward"`
	CarbonNeutral     bool                           `json:"carbonNeutral"`
	StartDate         string                         `json:"startDate" validate:"required"`
	EndDate           string                         `json:"endDate" validate:"required"`
	QETCompatible     bool                           `json:"qetCompatible"`
	OfftakePoint      string                         `json:"offtakePoint"`
	OrganizationID    string                         `json:"organizationId"`
	Counterparties    map[string]counterpartyRequest `json:"counterparties"`
}

type searchResponse struct {
	SessionID      string                   `json:"sessionId"`
	Matches        []eac.MatchedEAC         `json:"matches"`
	TotalUnitPrice decimal.Decimal          `json:"totalUnitPrice"`
	Step           string                   `json:"step"`
	Inventory      *client.InventorySummary `json:"inventory,omitempty"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	CompanyID string `json:"companyId"`
}

type submitRequest struct {
	SessionID       string `json:"sessionId" validate:"required"`
	SellerProfileID string `json:"sellerProfileId" validate:"required"`
	BuyerProfileID  string `json:"buyerProfileId" validate:"required"`
	SellerWalletID  string `json:"sellerWalletId" validate:"required"`
	Unit            string `json:"unit" validate:"required"`
	Price           string `json:"price" validate:"required"`
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (h *Handler) search(c *fiber.Ctx) error {
	var req searchRequest
	if invalid := ParseAndValidate(c, &req); invalid != nil {
		return BadRequest(c, invalid)
	}

	pipeline, ok := contract.ParsePipeline(req.Pipeline)
	if !ok {
		return BadRequest(c, ValidationErrors{Message: "unknown pipeline"})
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return BadRequest(c, ValidationErrors{Message: "startDate must be YYYY-MM-DD"})
	}

	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return BadRequest(c, ValidationErrors{Message: "endDate must be YYYY-MM-DD"})
	}

	if end.Before(start) {
		return BadRequest(c, ValidationErrors{Message: "endDate must not precede startDate"})
	}

	points := make([]emission.Point, 0, len(req.EmissionPoints))

	for _, raw := range req.EmissionPoints {
		point, err := emission.Parse(raw)
		if err != nil {
			return BadRequest(c, ValidationErrors{Message: err.Error()})
		}

		points = append(points, point)
	}

	declarations := make(map[emission.Point]*counterparty.Declaration, len(req.Counterparties))

	for raw, cp := range req.Counterparties {
		point, err := emission.Parse(raw)
		if err != nil {
			return BadRequest(c, ValidationErrors{Message: err.Error()})
		}

		declarations[point] = &counterparty.Declaration{
			Info: counterparty.Info{
				Name:        cp.Name,
				ContactName: cp.ContactName,
				Email:       cp.Email,
				Phone:       cp.Phone,
			},
			Known: cp.Known,
		}
	}

	var receiptLocation *contract.ReceiptLocation
	if req.ReceiptLocationID != "" {
		receiptLocation = &contract.ReceiptLocation{ID: req.ReceiptLocationID}
	}

	orderType := eac.OrderSpot
	if req.OrderType == string(eac.OrderForward) {
		orderType = eac.OrderForward
	}

	sessionID, w := h.session(req.SessionID)

	matches, err := w.Search(c.UserContext(), wizard.SearchCriteria{
		ContractID:      req.ContractID,
		Pipeline:        pipeline,
		Points:          points,
		OrderType:       orderType,
		CarbonNeutral:   req.CarbonNeutral,
		Start:           start,
		End:             end,
		ReceiptLocation: receiptLocation,
		Declarations:    declarations,
		QETCompatible:   req.QETCompatible,
		OfftakePoint:    req.OfftakePoint,
	})
	if err != nil {
		return h.domainError(c, err, "search")
	}

	resp := searchResponse{
		SessionID:      sessionID,
		Matches:        matches,
		TotalUnitPrice: emission.TotalPrice(points),
		Step:           w.Step().String(),
	}

	if h.inventory != nil && req.OrganizationID != "" {
		summary, err := h.inventory.Summary(c.UserContext(), req.OrganizationID)
		if err != nil {
			// The listing is advisory; a collaborator outage must not block
			// the search itself.
			h.logger.Log(c.UserContext(), log.LevelWarn, "inventory summary unavailable",
				log.String("organization_id", req.OrganizationID),
				log.Err(err),
			)
		} else {
			resp.Inventory = &summary
		}
	}

	return OK(c, resp)
}

func (h *Handler) initiate(c *fiber.Ctx) error {
	var req sessionRequest
	if invalid := ParseAndValidate(c, &req); invalid != nil {
		return BadRequest(c, invalid)
	}

	w, ok := h.lookup(req.SessionID)
	if !ok {
		return NotFound(c, "GT-404", "Session Not Found", "unknown or expired session id")
	}

	if err := w.InitiateTransaction(c.UserContext(), req.CompanyID); err != nil {
		return h.domainError(c, err, "initiate")
	}

	return OK(c, fiber.Map{
		"step":    w.Step().String(),
		"details": w.Details(),
	})
}

func (h *Handler) back(c *fiber.Ctx) error {
	var req sessionRequest
	if invalid := ParseAndValidate(c, &req); invalid != nil {
		return BadRequest(c, invalid)
	}

	w, ok := h.lookup(req.SessionID)
	if !ok {
		return NotFound(c, "GT-404", "Session Not Found", "unknown or expired session id")
	}

	if err := w.Back(); err != nil {
		return h.domainError(c, err, "back")
	}

	return OK(c, fiber.Map{"step": w.Step().String()})
}

func (h *Handler) submit(c *fiber.Ctx) error {
	var req submitRequest
	if invalid := ParseAndValidate(c, &req); invalid != nil {
		return BadRequest(c, invalid)
	}

	w, ok := h.lookup(req.SessionID)
	if !ok {
		return NotFound(c, "GT-404", "Session Not Found", "unknown or expired session id")
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return BadRequest(c, ValidationErrors{
			Fields:  []FieldError{{Field: "price", Message: "must be a non-negative decimal"}},
			Message: "validation failed",
		})
	}

	details := w.Details()
	if details == nil {
		return h.domainError(c, gastrace.NewDomainError(gastrace.ErrInvalidStepTransition, "step",
			"submission is only reachable from review"), "submit")
	}

	txID, err := w.Submit(c.UserContext(), wizard.TransferRequest{
		SellerProfileID: req.SellerProfileID,
		BuyerProfileID:  req.BuyerProfileID,
		SellerWalletID:  req.SellerWalletID,
		Quantity:        details.Quantity,
		Price:           price,
		Unit:            req.Unit,
	})
	if err != nil {
		return h.domainError(c, err, "submit")
	}

	return Created(c, fiber.Map{
		"transactionId": txID,
		"step":          w.Step().String(),
	})
}

func (h *Handler) forwardSchedule(c *fiber.Ctx) error {
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		return BadRequest(c, ValidationErrors{Message: "start must be YYYY-MM-DD"})
	}

	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		return BadRequest(c, ValidationErrors{Message: "end must be YYYY-MM-DD"})
	}

	if end.Before(start) {
		return BadRequest(c, ValidationErrors{Message: "end must not precede start"})
	}

	return OK(c, fiber.Map{
		"months":     schedule.MonthsBetween(start, end),
		"deliveries": schedule.Forward(start, end),
	})
}

func (h *Handler) health(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if h.breakers != nil {
		status["collaborators"] = h.breakers.States()
	}

	return OK(c, status)
}

// ---------------------------------------------------------------------------
// Session bookkeeping and error mapping
// ---------------------------------------------------------------------------

func (h *Handler) session(id string) (string, *wizard.Wizard) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id != "" {
		if w, ok := h.sessions[id]; ok {
			return id, w
		}
	}

	id = uuid.NewString()
	w := wizard.New(h.generator, h.checker, h.submitter, h.logger)
	h.sessions[id] = w

	return id, w
}

func (h *Handler) lookup(id string) (*wizard.Wizard, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.sessions[id]

	return w, ok
}

// domainError maps engine errors onto HTTP statuses with the business
// Response envelope.
func (h *Handler) domainError(c *fiber.Ctx, err error, entityType string) error {
	var eligErr wizard.EligibilityError
	if errors.As(err, &eligErr) {
		return UnprocessableEntity(c, fiber.Map{
			"error":               gastrace.ValidateBusinessError(gastrace.ErrPurchaseIneligible, entityType),
			"missingRequirements": eligErr.Decision.MissingRequirements,
			"remediationUrl":      eligErr.Decision.RemediationURL,
		})
	}

	var domainErr gastrace.DomainError
	if errors.As(err, &domainErr) {
		switch {
		case errors.Is(err, gastrace.ErrGenerationFailed):
			return InternalServerError(c, gastrace.ValidateBusinessError(gastrace.ErrGenerationFailed, entityType))
		case errors.Is(err, gastrace.ErrSubmissionRejected):
			return UnprocessableEntity(c, gastrace.ValidateBusinessError(gastrace.ErrSubmissionRejected, entityType, domainErr.Message))
		case errors.Is(err, gastrace.ErrInvalidStepTransition):
			return UnprocessableEntity(c, gastrace.ValidateBusinessError(gastrace.ErrInvalidStepTransition, entityType))
		}

		for _, sentinel := range []error{
			gastrace.ErrContractFormat,
			gastrace.ErrContractRequired,
			gastrace.ErrReceiptLocationRequired,
			gastrace.ErrDateRangeRequired,
			gastrace.ErrEmptyMatchSet,
			gastrace.ErrNoCompanySelected,
		} {
			if errors.Is(err, sentinel) {
				return BadRequest(c, gastrace.ValidateBusinessError(sentinel, entityType))
			}
		}

		return BadRequest(c, gastrace.Response{Code: domainErr.Code, Message: domainErr.Message})
	}

	h.logger.Log(c.UserContext(), log.LevelError, "collaborator failure",
		log.String("entity", entityType),
		log.Err(err),
	)

	return BadGateway(c, gastrace.Response{
		Code:    "GT-502",
		Title:   "Collaborator Unavailable",
		Message: "An external service is unavailable. Please try again.",
	})
}
