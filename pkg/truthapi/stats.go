package truthapi

import (
	"context"
	"net/url"
	"time"

	"github.com/veritasnet/veritas-cli/pkg/errs"
)

// UserInfo fetches the public profile for a registered key.
func (c *Client) UserInfo(ctx context.Context, publicKeyPEM string) (*UserInfo, error) {
	if publicKeyPEM == "" {
		return nil, errs.Precondition("no public key to look up")
	}

	var info UserInfo
	path := "/api/user/" + url.PathEscape(publicKeyPEM)
	if err := c.do(ctx, "GET", path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// BlockchainStats fetches ledger statistics.
func (c *Client) BlockchainStats(ctx context.Context) (*BlockchainStats, error) {
	var stats BlockchainStats
	if err := c.do(ctx, "GET", "/api/blockchain/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Stats fetches network-wide activity counters.
func (c *Client) Stats(ctx context.Context) (*NetworkStats, error) {
	var stats NetworkStats
	if err := c.do(ctx, "GET", "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health pings the server and reports its status together with the
// measured round-trip latency.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	var status HealthStatus
	if err := c.do(ctx, "GET", "/health", nil, &status); err != nil {
		return nil, err
	}
	status.Latency = time.Since(start)
	return &status, nil
}
