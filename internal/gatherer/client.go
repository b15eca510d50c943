// Package gatherer implements the search and fetch capabilities of the
// crawler over HTTP against the gatherer website.
package gatherer

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gatherer-crawler/internal/components/assert"
	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/crawlerr"
	"gatherer-crawler/internal/markup"
	"gatherer-crawler/internal/resolver"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_search = "client.search"
	report_client_fetch  = "client.fetch"
)

const searchPath = "Pages/Search/Default.aspx"

type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	tel     telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)

	tel = telemetry.NewScopedAPI("gatherer", tel)

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl.String())
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	if opts.TimeoutSeconds > 0 {
		httpClient.SetTimeout(opts.timeout())
	}

	httpClient.SetRetryCount(opts.RetryCount)
	httpClient.SetRetryWaitTime(500 * time.Millisecond)
	httpClient.AddRetryCondition(func(res *resty.Response, err error) bool {
		return res != nil && res.StatusCode() >= 500
	})

	if opts.RequestsPerSecond > 0 {
		// max burst >= 1 just means that no requests will be dropped
		burst := max(int(opts.RequestsPerSecond), 1)
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		baseUrl: baseUrl,
		http:    httpClient,
		tel:     tel,
	}, nil
}

func (c *Client) get(ctx context.Context, id, link string, query map[string]string) (*resty.Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(link)
	if err != nil {
		c.tel.ReportBroken(id, fmt.Errorf("request: %w", err), link)
		return nil, crawlerr.Wrap(crawlerr.KindTransportFailure, link, err)
	}
	if res.IsError() {
		c.tel.ReportBroken(id, fmt.Errorf("unexpected status %s", res.Status()), link)
		return nil, crawlerr.New(crawlerr.KindTransportFailure, fmt.Sprintf("%s: %s", link, res.Status()))
	}
	return res, nil
}

// finalUrl is the url the response was served from after redirects.
func (c *Client) finalUrl(res *resty.Response) *url.URL {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL
	}
	return c.baseUrl
}

// Search looks up a card name. Gatherer redirects straight to the details
// page when only one card matches, otherwise it shows a list of cards.
func (c *Client) Search(ctx context.Context, name string) ([]resolver.Candidate, error) {
	c.tel.ReportDebug("search", name)

	res, err := c.get(ctx, report_client_search, searchPath, map[string]string{
		"name": fmt.Sprintf("+[%s]", name),
	})
	if err != nil {
		return nil, err
	}

	candidates, err := parseSearch(res.Body(), c.finalUrl(res))
	if err != nil {
		c.tel.ReportBroken(report_client_search, fmt.Errorf("parse html: %w", err), name)
		return nil, err
	}
	c.tel.ReportCount(report_client_search, int64(len(candidates)))
	return candidates, nil
}

// Fetch returns the markup of a page, `ref` may be relative to the base url.
func (c *Client) Fetch(ctx context.Context, ref string) ([]byte, error) {
	c.tel.ReportDebug("fetch", ref)

	res, err := c.get(ctx, report_client_fetch, ref, nil)
	if err != nil {
		return nil, err
	}
	return res.Body(), nil
}

func parseSearch(body []byte, location *url.URL) ([]resolver.Candidate, error) {
	doc, err := markup.Parse(body)
	if err != nil {
		return nil, crawlerr.Wrap(crawlerr.KindUnexpectedPageShape, "search results", err)
	}

	details := doc.Find(".cardDetails").First()
	if details.Exists() {
		name := details.Find(`[id$="_nameRow"] .value`).First().Text()
		if name == "" {
			return nil, nil
		}
		return []resolver.Candidate{{DisplayName: name, Ref: location.String()}}, nil
	}

	var candidates []resolver.Candidate
	for _, a := range doc.Find(".cardItem .cardTitle a").Anchors() {
		if a.Name == "" || a.Href == "" {
			continue
		}
		ref, err := location.Parse(a.Href)
		if err != nil {
			continue
		}
		candidates = append(candidates, resolver.Candidate{
			DisplayName: a.Name,
			Ref:         ref.String(),
		})
	}
	return candidates, nil
}
