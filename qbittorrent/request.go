package qbittorrent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// doRequest performs a GET against endpoint and returns the response once
// its status has been checked.
func (c *Client) doRequest(ctx context.Context, endpoint string, params map[string]string) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if err := checkStatus(endpoint, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// get issues a request whose response body carries no information.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) error {
	_, err := c.doRequest(ctx, endpoint, params)
	return err
}

// getJSON issues a request and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	resp, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	return nil
}

// getText issues a request and returns the trimmed body.
func (c *Client) getText(ctx context.Context, endpoint string, params map[string]string) (string, error) {
	resp, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

func checkStatus(endpoint string, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &StatusError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
}
