// Package jobboard 封装外部招聘平台的岗位检索。
package jobboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"career-agent-go/internal/config"
	"career-agent-go/internal/logger"
	"career-agent-go/internal/types"
)

// AdzunaClient Adzuna岗位搜索API客户端
type AdzunaClient struct {
	cfg        *config.AdzunaConfig
	httpClient *http.Client
}

// AdzunaOption 客户端配置选项
type AdzunaOption func(*AdzunaClient)

// WithHTTPClient 覆盖默认HTTP客户端，测试时注入
func WithHTTPClient(client *http.Client) AdzunaOption {
	return func(c *AdzunaClient) {
		c.httpClient = client
	}
}

// NewAdzunaClient 创建Adzuna客户端
func NewAdzunaClient(cfg *config.AdzunaConfig, options ...AdzunaOption) (*AdzunaClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Adzuna配置不能为空")
	}
	if cfg.AppID == "" || cfg.AppKey == "" {
		return nil, fmt.Errorf("Adzuna AppID和AppKey不能为空")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &AdzunaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// adzunaSearchResponse Adzuna搜索接口的响应结构
type adzunaSearchResponse struct {
	Results []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		Description string  `json:"description"`
		RedirectURL string  `json:"redirect_url"`
		SalaryMin   float64 `json:"salary_min"`
		SalaryMax   float64 `json:"salary_max"`
	} `json:"results"`
}

// FetchJobs 按技能关键词检索岗位。
// 返回的每条岗位都携带触发检索的技能，供后续按技能聚合。
func (c *AdzunaClient) FetchJobs(ctx context.Context, skill string, location string, maxResults int) ([]types.JobListing, error) {
	if skill == "" {
		return nil, fmt.Errorf("技能关键词不能为空")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	endpoint := fmt.Sprintf("%s/%s/search/1", c.cfg.BaseURL, c.cfg.Country)

	query := url.Values{}
	query.Set("app_id", c.cfg.AppID)
	query.Set("app_key", c.cfg.AppKey)
	query.Set("what", skill)
	query.Set("results_per_page", strconv.Itoa(maxResults))
	query.Set("content-type", "application/json")
	if location != "" {
		query.Set("where", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("构建Adzuna请求失败: %w", err)
	}
	req.URL.RawQuery = query.Encode()

	logger.Debug().
		Str("skill", skill).
		Str("location", location).
		Int("max_results", maxResults).
		Msg("请求Adzuna岗位搜索")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求Adzuna API失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Adzuna API返回异常状态 %d: %s", resp.StatusCode, string(body))
	}

	var searchResp adzunaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("解析Adzuna响应失败: %w", err)
	}

	jobs := make([]types.JobListing, 0, len(searchResp.Results))
	for _, result := range searchResp.Results {
		if result.Title == "" {
			continue
		}
		jobs = append(jobs, types.JobListing{
			ID:           result.ID,
			Title:        result.Title,
			Company:      result.Company.DisplayName,
			Location:     result.Location.DisplayName,
			Description:  result.Description,
			URL:          result.RedirectURL,
			SalaryMin:    result.SalaryMin,
			SalaryMax:    result.SalaryMax,
			MatchedSkill: skill,
		})
	}

	logger.Debug().Str("skill", skill).Int("count", len(jobs)).Msg("Adzuna岗位搜索完成")
	return jobs, nil
}
