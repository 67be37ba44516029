package truthapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/veritasnet/veritas-cli/pkg/errs"
)

// Search runs a free-text search over claims. limit <= 0 leaves the page
// size to the server.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if query == "" {
		return nil, errs.Precondition("search query must not be empty")
	}

	values := url.Values{}
	values.Set("q", query)
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}

	var result SearchResult
	if err := c.do(ctx, "GET", "/api/search?"+values.Encode(), nil, &result); err != nil {
		return nil, err
	}
	if result.Query == "" {
		result.Query = query
	}
	return &result, nil
}

// Semantic fetches the claims asserting anything about a subject/predicate
// pair, e.g. everything claiming what "water" "boils_at".
func (c *Client) Semantic(ctx context.Context, subject, predicate string) (*SemanticResult, error) {
	if subject == "" || predicate == "" {
		return nil, errs.Precondition("semantic lookup needs both subject and predicate")
	}

	path := fmt.Sprintf("/api/semantic/%s/%s", url.PathEscape(subject), url.PathEscape(predicate))
	var result SemanticResult
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	if result.Subject == "" {
		result.Subject = subject
		result.Predicate = predicate
	}
	return &result, nil
}
