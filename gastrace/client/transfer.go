package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/verdio/gastrace/gastrace"
	"github.com/verdio/gastrace/gastrace/log"
	"github.com/verdio/gastrace/gastrace/wizard"
)

// transferRetries bounds the retry loop for transient transfer failures.
const transferRetries = 3

// retryBase is the first-attempt backoff delay.
const retryBase = 200 * time.Millisecond

// Transfer calls the external funds-transfer/submission collaborator. It
// implements wizard.Submitter.
type Transfer struct {
	http httpClient
}

var _ wizard.Submitter = (*Transfer)(nil)

// NewTransfer builds the transfer client.
func NewTransfer(config Config, breakers *BreakerManager, logger log.Logger) *Transfer {
	return &Transfer{http: newHTTPClient("transfer", config, breakers, logger)}
}

type transferResponse struct {
	TransactionID string `json:"transactionId"`
	Reason        string `json:"reason,omitempty"`
}

// Submit posts the transfer request and returns the transaction id. Server
// errors are retried with jittered exponential backoff; rejections (4xx) are
// surfaced immediately with the specific reason when the collaborator
// provides one.
func (t *Transfer) Submit(ctx context.Context, req wizard.TransferRequest) (string, error) {
	var lastErr error

	for attempt := 0; attempt < transferRetries; attempt++ {
		if attempt > 0 {
			delay := fullJitter(exponential(retryBase, attempt-1))

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		var resp transferResponse

		err := t.http.doJSON(ctx, http.MethodPost, "/v1/transfers", req, &resp)
		if err == nil {
			return resp.TransactionID, nil
		}

		var status statusError
		if errors.As(err, &status) && status.Status < http.StatusInternalServerError {
			reason := status.Body
			if reason == "" {
				reason = "transfer rejected"
			}

			return "", gastrace.NewDomainError(gastrace.ErrSubmissionRejected, "", reason)
		}

		lastErr = err
	}

	return "", gastrace.NewDomainError(gastrace.ErrSubmissionRejected, "", lastErr.Error())
}
