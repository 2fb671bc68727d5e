package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/verdio/gastrace/gastrace/log"
)

// TokenBalance is one summarized holding in the organization's wallet.
type TokenBalance struct {
	Asset    string `json:"asset"`
	Vintage  string `json:"vintage"`
	Standard string `json:"standard"`
	Quantity int64  `json:"quantity"`
	Unit     string `json:"unit"`
}

// InventorySummary is the read-only organization holding summary displayed
// alongside generated matches.
type InventorySummary struct {
	OrganizationID string         `json:"organizationId"`
	Balances       []TokenBalance `json:"balances"`
}

// Inventory calls the external organization/wallet inventory provider.
type Inventory struct {
	http httpClient
}

// NewInventory builds the inventory client.
func NewInventory(config Config, breakers *BreakerManager, logger log.Logger) *Inventory {
	return &Inventory{http: newHTTPClient("inventory", config, breakers, logger)}
}

// Summary fetches the organization's available-EAC summary.
func (i *Inventory) Summary(ctx context.Context, organizationID string) (InventorySummary, error) {
	var summary InventorySummary

	path := "/v1/inventory/" + url.PathEscape(organizationID)
	if err := i.http.doJSON(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return InventorySummary{}, err
	}

	return summary, nil
}
