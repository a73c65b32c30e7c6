package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fluttervet/fluttervet/internal/domain"
)

// PubClient implements domain.PackageRegistry against the pub.dev
// package-metadata API. The endpoint is consumed read-only.
type PubClient struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *PubClient {
	return &PubClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type packageResponse struct {
	Latest struct {
		Version string `json:"version"`
	} `json:"latest"`
}

// LatestVersion returns the latest published version of pkg.
func (c *PubClient) LatestVersion(ctx context.Context, pkg string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/packages/%s", c.baseURL, url.PathEscape(pkg))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying registry for %s: %w", pkg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", domain.NewFault(domain.ConfigurationError,
			fmt.Sprintf("package %q not found in registry", pkg),
			"Check the dependency name in pubspec.yaml")
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry returned %d for %s", resp.StatusCode, pkg)
	}

	var body packageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding registry response for %s: %w", pkg, err)
	}
	return body.Latest.Version, nil
}
