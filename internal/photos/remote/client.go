// Package remote implements a photos.Library over the HTTP API of a photo
// server. All requests are rewritten to the configured API endpoint with
// authorization, so only the path is required when issuing them.
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
)

// Config holds configuration values for configuring the remote library.
//
// It is organized to take advantage of TOML parsing, however this package
// does not handle parsing and has no expectation on how it will be
// initialized.
type Config struct {
	// APIEndpoint is the URL for accessing the photo server API.
	APIEndpoint string
	// APIKey should ideally not be written to disk un-encrypted, however,
	// for ease of deployment it is allowed.
	APIKey string
}

// HydrateFromEnv overwrites any values in Config with their associated
// environment variable value. Environment variables take precedence.
func (c *Config) HydrateFromEnv() {
	if v, ok := os.LookupEnv("PHOTOLIB_API_ENDPOINT"); ok {
		c.APIEndpoint = v
	}
	if v, ok := os.LookupEnv("PHOTOLIB_API_KEY"); ok {
		c.APIKey = v
	}
}

// Library provides a photos.Library over the photo server HTTP API.
type Library struct {
	http *http.Client
}

// apiTransport is a custom http.Transport that rewrites the http.Request via
// transformF.
type apiTransport struct {
	transformF func(*http.Request)
}

func (t apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	t.transformF(req)
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if err := checkStatusCode(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// NewLibrary initializes a Library with the provided API endpoint and API
// key. Use [Library.IsConnected] to check if it was properly configured.
func NewLibrary(conf Config) *Library {
	// Canonicalize the API endpoint.
	apiEndpointURI, _ := url.Parse(conf.APIEndpoint)
	if apiEndpointURI.Path != "/api" {
		apiEndpointURI.Path = "/api"
	}

	// Build a custom http.Transport to set the API credentials and host.
	transport := apiTransport{
		transformF: func(r *http.Request) {
			// Add the API header credentials.
			r.Header.Add("X-API-Key", conf.APIKey)
			// Prefix the API endpoint in the new URL.
			api := *apiEndpointURI
			api.Path = path.Join(api.Path, r.URL.Path)
			api.RawQuery = r.URL.RawQuery
			r.URL = &api
		},
	}
	return &Library{&http.Client{Transport: transport}}
}

// IsConnected performs a sanity check API request to /users/me to verify the
// Library is configured correctly and the photo server is responsive.
func (l *Library) IsConnected() error {
	resp, err := l.http.Get("/users/me")
	if err != nil && err.Error() == `Get "/users/me": unsupported protocol scheme ""` {
		return errors.New("misconfigured library: missing API endpoint")
	} else if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatusCode(resp.StatusCode); err != nil {
		return err
	}
	// Check it's a JSON response.
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return err
	}
	return nil
}

// checkStatusCode is a helper function to check for a 200 OK status code and
// return a descriptive error if not.
func checkStatusCode(statusCode int) error {
	if statusCode == http.StatusUnauthorized {
		return errors.New("invalid API token")
	} else if statusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", statusCode)
	}
	return nil
}
