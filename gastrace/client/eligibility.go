package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/verdio/gastrace/gastrace/log"
	"github.com/verdio/gastrace/gastrace/wizard"
)

// Eligibility calls the external purchase-gating collaborator. It implements
// wizard.EligibilityChecker.
type Eligibility struct {
	http httpClient
}

var _ wizard.EligibilityChecker = (*Eligibility)(nil)

// NewEligibility builds the eligibility client.
func NewEligibility(config Config, breakers *BreakerManager, logger log.Logger) *Eligibility {
	return &Eligibility{http: newHTTPClient("eligibility", config, breakers, logger)}
}

// Check fetches the purchase-gating decision for a profile. The call is
// read-only; the wizard invokes it both before review and again immediately
// before submission.
func (e *Eligibility) Check(ctx context.Context, profileID string) (wizard.EligibilityDecision, error) {
	var decision wizard.EligibilityDecision

	path := "/v1/eligibility/" + url.PathEscape(profileID)
	if err := e.http.doJSON(ctx, http.MethodGet, path, nil, &decision); err != nil {
		return wizard.EligibilityDecision{}, err
	}

	return decision, nil
}
