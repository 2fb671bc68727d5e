package gastrace

import (
	"errors"
	"fmt"
)

// Sentinel errors carry stable wire codes so collaborators can branch on the
// code without parsing prose.
var (
	// ErrContractFormat indicates a contract identifier failed its pipeline pattern.
	ErrContractFormat = errors.New("GT-0001")
	// ErrContractRequired indicates an empty or whitespace contract identifier.
	ErrContractRequired = errors.New("GT-0002")
	// ErrReceiptLocationRequired indicates a REX contract was submitted without a receipt location.
	ErrReceiptLocationRequired = errors.New("GT-0003")
	// ErrDateRangeRequired indicates a forward order is missing its date range.
	ErrDateRangeRequired = errors.New("GT-0004")
	// ErrPurchaseIneligible indicates the purchase is blocked by an unmet requirement.
	ErrPurchaseIneligible = errors.New("GT-0005")
	// ErrGenerationFailed indicates an unexpected failure during record synthesis.
	ErrGenerationFailed = errors.New("GT-0006")
	// ErrSubmissionRejected indicates the transfer endpoint rejected the transaction.
	ErrSubmissionRejected = errors.New("GT-0007")
	// ErrInvalidStepTransition indicates a wizard transition that is not defined.
	ErrInvalidStepTransition = errors.New("GT-0008")
	// ErrEmptyMatchSet indicates a transaction was initiated with no matched records.
	ErrEmptyMatchSet = errors.New("GT-0009")
	// ErrNoCompanySelected indicates a transaction was initiated without a corporate entity.
	ErrNoCompanySelected = errors.New("GT-0010")
	// ErrStaleResult indicates an asynchronous result arrived after a newer request superseded it.
	ErrStaleResult = errors.New("GT-0011")
)

// Response represents a business error with code, title, and message.
type Response struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"-"`
}

func (e Response) Error() string {
	return e.Message
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e Response) Unwrap() error {
	return e.Err
}

// ValidateBusinessError maps a sentinel error to its business Response with
// a human-readable title and remediation message. Unknown errors pass
// through unchanged.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	errorMap := map[error]error{
		ErrContractFormat: Response{
			EntityType: entityType,
			Code:       ErrContractFormat.Error(),
			Title:      "Invalid Contract Number",
			Message:    "The contract number does not match its pipeline format. Please verify the number and try again.",
			Err:        ErrContractFormat,
		},
		ErrContractRequired: Response{
			EntityType: entityType,
			Code:       ErrContractRequired.Error(),
			Title:      "Contract Number Required",
			Message:    "A contract number is required to search for matched certificates. Please enter one and try again.",
			Err:        ErrContractRequired,
		},
		ErrReceiptLocationRequired: Response{
			EntityType: entityType,
			Code:       ErrReceiptLocationRequired.Error(),
			Title:      "Receipt Location Required",
			Message:    "REX pipeline contracts require a receipt location before the contract number can be validated. Please select one and try again.",
			Err:        ErrReceiptLocationRequired,
		},
		ErrDateRangeRequired: Response{
			EntityType: entityType,
			Code:       ErrDateRangeRequired.Error(),
			Title:      "Date Range Required",
			Message:    "Forward transactions require a flow start and end date. Please provide both and try again.",
			Err:        ErrDateRangeRequired,
		},
		ErrPurchaseIneligible: Response{
			EntityType: entityType,
			Code:       ErrPurchaseIneligible.Error(),
			Title:      "Purchase Requirements Not Met",
			Message:    "Your organization does not yet meet the requirements to transact. Complete the missing requirements and try again.",
			Err:        ErrPurchaseIneligible,
		},
		ErrGenerationFailed: Response{
			EntityType: entityType,
			Code:       ErrGenerationFailed.Error(),
			Title:      "Matching Failed",
			Message:    "Something went wrong while matching certificates to your contract. Please try the search again.",
			Err:        ErrGenerationFailed,
		},
		ErrSubmissionRejected: Response{
			EntityType: entityType,
			Code:       ErrSubmissionRejected.Error(),
			Title:      "Transaction Rejected",
			Message:    fmt.Sprintf("The transaction was rejected: %s", joinArgs(args)),
			Err:        ErrSubmissionRejected,
		},
		ErrInvalidStepTransition: Response{
			EntityType: entityType,
			Code:       ErrInvalidStepTransition.Error(),
			Title:      "Invalid Step",
			Message:    "The requested wizard step is not reachable from the current step.",
			Err:        ErrInvalidStepTransition,
		},
		ErrEmptyMatchSet: Response{
			EntityType: entityType,
			Code:       ErrEmptyMatchSet.Error(),
			Title:      "No Matched Certificates",
			Message:    "A transaction cannot be initiated without matched certificates. Run a search first.",
			Err:        ErrEmptyMatchSet,
		},
		ErrNoCompanySelected: Response{
			EntityType: entityType,
			Code:       ErrNoCompanySelected.Error(),
			Title:      "Company Required",
			Message:    "Select the corporate entity that will transact before continuing.",
			Err:        ErrNoCompanySelected,
		},
	}

	if mappedError, found := errorMap[err]; found {
		return mappedError
	}

	return err
}

func joinArgs(args []any) string {
	if len(args) == 0 {
		return "no reason provided"
	}

	return fmt.Sprint(args...)
}

// DomainError represents a structured validation error raised by the engine
// packages. Code is one of the sentinel codes above.
type DomainError struct {
	Code    string
	Field   string
	Message string
}

// Error returns the formatted domain error string.
func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// Is reports whether target is the sentinel whose code this error carries.
func (e DomainError) Is(target error) bool {
	return target != nil && target.Error() == e.Code
}

// NewDomainError creates a domain error from a sentinel, field, and message.
func NewDomainError(sentinel error, field, message string) error {
	return DomainError{Code: sentinel.Error(), Field: field, Message: message}
}
