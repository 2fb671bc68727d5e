package gastrace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBusinessErrorMapsSentinels(t *testing.T) {
	err := ValidateBusinessError(ErrReceiptLocationRequired, "search")

	var resp Response
	require.True(t, errors.As(err, &resp))
	assert.Equal(t, "GT-0003", resp.Code)
	assert.Equal(t, "search", resp.EntityType)
	assert.Contains(t, resp.Message, "receipt location")
	assert.True(t, errors.Is(err, ErrReceiptLocationRequired))
}

func TestValidateBusinessErrorFormatsSubmissionReason(t *testing.T) {
	err := ValidateBusinessError(ErrSubmissionRejected, "submit", "insufficient inventory")

	var resp Response
	require.True(t, errors.As(err, &resp))
	assert.Contains(t, resp.Message, "insufficient inventory")
}

func TestValidateBusinessErrorPassesUnknownThrough(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, ValidateBusinessError(plain, "any"))
}

func TestDomainErrorMatchesSentinel(t *testing.T) {
	err := NewDomainError(ErrContractFormat, "contractId", "bad format")

	assert.True(t, errors.Is(err, ErrContractFormat))
	assert.False(t, errors.Is(err, ErrContractRequired))

	var domainErr DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "GT-0001", domainErr.Code)
	assert.Equal(t, "GT-0001: bad format (contractId)", domainErr.Error())
}

func TestDomainErrorWithoutField(t *testing.T) {
	err := NewDomainError(ErrGenerationFailed, "", "synthesis failed")
	assert.Equal(t, "GT-0006: synthesis failed", err.Error())
}
