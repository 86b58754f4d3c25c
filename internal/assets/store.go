// Package assets talks to the remote photo store. Uploads happen directly
// from the client; the backend only ever destroys assets.
package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Store is the capability the profile service needs from the asset host.
type Store interface {
	Delete(ctx context.Context, publicID string) error
}

// Noop satisfies Store when no asset host is configured (local dev).
type Noop struct{}

func (Noop) Delete(ctx context.Context, publicID string) error { return nil }

// Cloudinary deletes assets through the Cloudinary admin destroy endpoint.
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Signature is sha1 over the sorted params plus the API secret.
	toSign := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, c.apiSecret)
	digest := sha1.Sum([]byte(toSign))

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.apiKey)
	form.Set("signature", hex.EncodeToString(digest[:]))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/destroy", c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling asset store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("asset store returned status %d", resp.StatusCode)
	}

	var body struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding asset store response: %w", err)
	}
	if body.Result != "ok" && body.Result != "not found" {
		return fmt.Errorf("asset store delete failed: %s", body.Result)
	}
	return nil
}
