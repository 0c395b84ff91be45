package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/utils"
)

var connectAPIPattern = regexp.MustCompile(`(?i)connectapi`)

// SageConfig configures the product data client
type SageConfig struct {
	BaseURL string
	APIKey  string
	AcctID  int
	LoginID string
	AuthKey string
	Timeout time.Duration
}

// SageClient fetches product detail (imprint area and net price breakpoints)
// from SAGE, either through ConnectAPI or the REST endpoint.
type SageClient struct {
	cfg        SageConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure SageClient implements CatalogLookup
var _ CatalogLookup = (*SageClient)(nil)

// NewSageClient creates a new SageClient
func NewSageClient(cfg SageConfig, logger *zap.Logger) *SageClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SageClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// ProductDetail fetches and parses one product
func (c *SageClient) ProductDetail(ctx context.Context, prodEID string) (*models.ProductDetail, error) {
	if c.cfg.BaseURL == "" {
		return nil, apperr.NotFound("product data source is not configured")
	}
	if prodEID == "" {
		return nil, apperr.InvalidInput("product id required")
	}

	req, err := c.newRequest(ctx, prodEID)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream("product data request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound(fmt.Sprintf("product %s not found in product data", prodEID))
	case resp.StatusCode != http.StatusOK:
		return nil, apperr.Upstream("product data request failed", fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, apperr.Upstream("product data response is not JSON", err)
	}

	detail := ParseSageDetail(raw)
	detail.ProductID = prodEID
	c.logger.Debug("📦 product detail fetched",
		zap.String("prodEId", prodEID),
		zap.Bool("imprint", detail.ImprintPhysical != nil),
		zap.Bool("breakpoints", detail.Breakpoints != nil))
	return detail, nil
}

func (c *SageClient) newRequest(ctx context.Context, prodEID string) (*http.Request, error) {
	if connectAPIPattern.MatchString(c.cfg.BaseURL) {
		payload := map[string]any{
			"serviceId": 105,
			"apiVer":    130,
			"auth": map[string]any{
				"acctId":  c.cfg.AcctID,
				"loginId": c.cfg.LoginID,
				"key":     c.cfg.AuthKey,
			},
			"prodEId":         prodEID,
			"includeSuppInfo": 0,
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	endpoint := fmt.Sprintf("%s/products/%s", strings.TrimSuffix(c.cfg.BaseURL, "/"), url.PathEscape(prodEID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// ParseSageDetail extracts the imprint size and price breakpoints from a
// product payload. Both REST and ConnectAPI shapes are accepted; ConnectAPI
// nests the product under "product".
func ParseSageDetail(raw map[string]any) *models.ProductDetail {
	if nested, ok := raw["product"].(map[string]any); ok {
		raw = nested
	}
	return &models.ProductDetail{
		ImprintPhysical: parseImprint(raw),
		Breakpoints:     parseBreakpoints(raw),
	}
}

func parseImprint(raw map[string]any) *models.PhysicalSize {
	for _, field := range []string{"imprintAreas", "imprint", "printAreas"} {
		areas, ok := raw[field].([]any)
		if !ok || len(areas) == 0 {
			continue
		}
		switch first := areas[0].(type) {
		case map[string]any:
			w := firstNumber(first, "widthIn", "w_in", "width")
			h := firstNumber(first, "heightIn", "h_in", "height")
			if w > 0 || h > 0 {
				return &models.PhysicalSize{WIn: w, HIn: h}
			}
			if text, ok := first["text"].(string); ok {
				if size := utils.ParseImprintInches(text); size != nil {
					return size
				}
			}
		case string:
			if size := utils.ParseImprintInches(first); size != nil {
				return size
			}
		}
	}
	if text, ok := raw["imprintArea"].(string); ok {
		return utils.ParseImprintInches(text)
	}
	return nil
}

func parseBreakpoints(raw map[string]any) *models.PriceBreakpoints {
	qtys, _ := raw["qty"].([]any)
	nets, _ := raw["net"].([]any)
	if len(qtys) == 0 || len(nets) == 0 {
		return nil
	}

	bp := &models.PriceBreakpoints{}
	for i := 0; i < len(qtys) && i < len(nets); i++ {
		q := int(toNumber(qtys[i]))
		n := toNumber(nets[i])
		if q <= 0 || n <= 0 {
			continue
		}
		bp.Qty = append(bp.Qty, q)
		bp.Net = append(bp.Net, n)
	}
	if len(bp.Qty) == 0 {
		return nil
	}
	return bp
}

func firstNumber(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if v := toNumber(m[k]); v > 0 {
			return v
		}
	}
	return 0
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
