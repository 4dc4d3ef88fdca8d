package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// GeocodeResult 反向地理編碼結果；Formatted 保證非空
type GeocodeResult struct {
	City      string `json:"city,omitempty"`
	Region    string `json:"region,omitempty"`
	Country   string `json:"country,omitempty"`
	Formatted string `json:"formatted"`
}

// Label 組合 city, region, country 為顯示標籤；全空時退回 Formatted
func (r *GeocodeResult) Label() string {
	var parts []string
	for _, p := range []string{r.City, r.Region, r.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return r.Formatted
}

// Service OpenCage 反向地理編碼服務
type Service struct {
	config *config.Config
	client *resty.Client
}

// NewService 創建反向地理編碼服務
func NewService(cfg *config.Config) *Service {
	client := resty.New().
		SetBaseURL("https://api.opencagedata.com/geocode/v1").
		SetTimeout(cfg.OpenCage.Timeout)

	return &Service{
		config: cfg,
		client: client,
	}
}

// openCageResponse OpenCage API 回應
type openCageResponse struct {
	Results []struct {
		Components map[string]json.RawMessage `json:"components"`
		Formatted  string                     `json:"formatted"`
	} `json:"results"`
}

// ReverseGeocode 將經緯度解析為地名
func (s *Service) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResult, error) {
	if s.config.OpenCage.APIKey == "" {
		return nil, fmt.Errorf("missing OPENCAGE_API_KEY")
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("q", fmt.Sprintf("%f+%f", lat, lng)).
		SetQueryParam("key", s.config.OpenCage.APIKey).
		Get("/json")

	common.LogUpstreamCall("opencage", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenCage: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("OpenCage request failed: %d %s", resp.StatusCode(), resp.String())
	}

	var result openCageResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenCage response: %w", err)
	}

	if len(result.Results) == 0 {
		common.LogWarn("OpenCage 無結果",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
		)
		return &GeocodeResult{Formatted: "this area"}, nil
	}

	first := result.Results[0]

	// city、region 各有數種別名，依序取第一個非空值
	city := firstComponent(first.Components, "city", "town", "village")
	region := firstComponent(first.Components, "state", "county")
	country := firstComponent(first.Components, "country")

	formatted := first.Formatted
	if formatted == "" {
		var parts []string
		for _, p := range []string{city, region, country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		formatted = strings.Join(parts, ", ")
	}
	if formatted == "" {
		formatted = "this area"
	}

	return &GeocodeResult{
		City:      city,
		Region:    region,
		Country:   country,
		Formatted: formatted,
	}, nil
}

// firstComponent 依序回傳第一個存在且為非空字串的 component
func firstComponent(components map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := components[key]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		if value != "" {
			return value
		}
	}
	return ""
}
