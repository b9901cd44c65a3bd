package client

import "net/url"

// Config holds configuration for the upstream catalog API client.
type Config struct {
	// Token is the API access token.
	Token string `mapstructure:"token" default:""`
	// BaseURL is the list endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://kodikapi.com/list"`
	// TimeoutSeconds is the total HTTP timeout per request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// Retries is the number of attempts per page before giving up.
	Retries int `mapstructure:"retries" default:"3"`
	// BackoffBaseSeconds is the exponential backoff base between attempts.
	BackoffBaseSeconds int `mapstructure:"backoff_base_seconds" default:"2"`
}

// ListURL builds the first-page URL for the anime list feed.
func (c Config) ListURL() string {
	q := url.Values{}
	q.Set("token", c.Token)
	q.Set("types", "anime-serial,anime")
	q.Set("with_material_data", "true")
	q.Set("genres_type", "all")
	q.Set("lgbt", "false")
	return c.BaseURL + "?" + q.Encode()
}
