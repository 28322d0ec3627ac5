/*
Package provider wraps the external batch-translate HTTP endpoint.

The wire contract is DeepL-shaped: a list of source texts plus a
language pair in, a parallel list of translated texts out. Any
transport error, non-success status or length mismatch fails the call
as a whole; the caller decides how to degrade.
*/
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/config"
)

// Client calls the batch-translate endpoint.
type Client struct {
	http   *resty.Client
	apiURL string
	apiKey string
}

type translateRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// New creates a provider client from translation config. The timeout
// applies per call; a timed-out call fails like any other provider error.
func New(c config.TranslationConfig) *Client {
	return &Client{
		http:   resty.New().SetTimeout(c.Timeout()),
		apiURL: c.APIURL,
		apiKey: c.APIKey,
	}
}

// Disabled reports whether the client has no credential. A disabled
// client never performs requests; callers fall back to source text.
func (c *Client) Disabled() bool {
	return c.apiKey == ""
}

// Translate translates texts from sourceLang to targetLang. The output
// list has the same length and order as the input. texts must not be
// empty: callers short-circuit before reaching the provider.
func (c *Client) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("provider: empty text list")
	}
	if c.Disabled() {
		return nil, fmt.Errorf("provider: no API key configured")
	}

	var result translateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+c.apiKey).
		SetBody(translateRequest{
			Text:       texts,
			SourceLang: strings.ToUpper(sourceLang),
			TargetLang: strings.ToUpper(targetLang),
		}).
		SetResult(&result).
		Post(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("provider: %v; body: %v", resp.Status(), resp.String())
	}
	if len(result.Translations) != len(texts) {
		return nil, fmt.Errorf("provider: sent %v texts, got %v translations", len(texts), len(result.Translations))
	}

	out := make([]string, len(texts))
	for i, t := range result.Translations {
		out[i] = t.Text
	}
	return out, nil
}
