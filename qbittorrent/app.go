package qbittorrent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// Version returns the application version, e.g. "v4.6.2".
func (c *Client) Version(ctx context.Context) (string, error) {
	v, err := c.getText(ctx, "app/version", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return v, nil
}

// WebAPIVersion returns the Web API version, e.g. "2.9.3".
func (c *Client) WebAPIVersion(ctx context.Context) (string, error) {
	v, err := c.getText(ctx, "app/webapiVersion", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get web API version: %w", err)
	}
	return v, nil
}

// ParseVersion parses a version string as reported by Version or
// WebAPIVersion, tolerating a leading "v" and missing components.
func ParseVersion(v string) (semver.Version, error) {
	return semver.ParseTolerant(v)
}

// GetAppPreferences retrieves the application preferences.
func (c *Client) GetAppPreferences(ctx context.Context) (*AppPreferences, error) {
	var prefs AppPreferences
	if err := c.getJSON(ctx, "app/preferences", nil, &prefs); err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

// formValueEscaper escapes the characters a form decoder would rewrite in
// marshaled JSON. json.Marshal already escapes '&' as \u0026.
var formValueEscaper = strings.NewReplacer("%", "%25", "+", "%2B")

// SetAppPreferences sends a partial preferences object. Keys are passed
// through unchecked.
func (c *Client) SetAppPreferences(ctx context.Context, prefs map[string]interface{}) error {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("json=" + formValueEscaper.Replace(string(payload))).
		Post("app/setPreferences")
	if err != nil {
		return fmt.Errorf("failed to set preferences: %w", err)
	}
	return checkStatus("app/setPreferences", resp)
}
