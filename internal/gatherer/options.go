package gatherer

import "time"

type Options struct {
	// BaseUrl is the root of the gatherer website.
	BaseUrl string `json:"base_url"`
	// TimeoutSeconds bounds a single request, retries included.
	TimeoutSeconds int `json:"timeout_seconds"`
	// RequestsPerSecond limits the rate of outgoing requests.
	RequestsPerSecond float64 `json:"requests_per_second"`
	// RetryCount is the number of retries after a network error or a 5xx.
	RetryCount int `json:"retry_count"`
	// UserAgent is sent with every request.
	UserAgent string `json:"user_agent"`
	// CloudflareBypass wraps the transport to get past cloudflare's bot check.
	CloudflareBypass bool `json:"cloudflare_bypass"`
}

func DefaultOptions() Options {
	return Options{
		BaseUrl:           "https://gatherer.wizards.com/",
		TimeoutSeconds:    30,
		RequestsPerSecond: 2,
		RetryCount:        2,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	}
}

func (o Options) timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}
