package marketfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

// Client looks up the live market context of a mission.
type Client interface {
	MissionMarket(ctx context.Context, missionID uuid.UUID) (*scoring.MarketContext, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type marketResponse struct {
	Data *scoring.MarketContext `json:"data"`
}

// MissionMarket returns nil, nil when the feed has no data for the mission.
func (c *HTTPClient) MissionMarket(ctx context.Context, missionID uuid.UUID) (*scoring.MarketContext, error) {
	endpoint := c.baseURL + "/api/v1/market/missions/" + url.PathEscape(missionID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-ID", "bidscore")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("market feed: %d %s", resp.StatusCode, string(body))
	}

	var wrapper marketResponse
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("market feed: decode: %w", err)
	}
	if wrapper.Data != nil {
		if err := scoring.ValidateMarket(wrapper.Data); err != nil {
			return nil, fmt.Errorf("market feed: %w", err)
		}
	}
	return wrapper.Data, nil
}
