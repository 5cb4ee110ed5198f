// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// httpClientTimeout bounds every outbound credential-fetch request. 2s is
// appropriate for link-local metadata endpoints which either answer
// immediately or are not present at all.
const httpClientTimeout = 2 * time.Second

// newHTTPClient builds the bare net/http client used by the IMDS and
// container-credentials providers. Neither provider is configured for TLS;
// both talk to link-local, unauthenticated endpoints.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}

// doRequest issues req and returns its body, failing on any non-200 status
// or transport error. It never returns a nil body on success.
func doRequest(ctx context.Context, client *http.Client, req *http.Request) ([]byte, error) {
	req = req.WithContext(ctx)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("credentials: request to %s failed: %w", req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("credentials: reading response from %s failed: %w", req.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("credentials: %s returned status %d: %s", req.URL, resp.StatusCode, body)
	}
	return body, nil
}

// fetchCredentialDocument GETs url and parses the response as a shared
// credentials document, optionally adding extra headers (e.g. the IMDSv2
// token header).
func fetchCredentialDocument(ctx context.Context, client *http.Client, url string, headers map[string]string) (Credentials, time.Time, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: building request for %s: %w", url, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	body, err := doRequest(ctx, client, req)
	if err != nil {
		return Credentials{}, time.Time{}, err
	}
	return parseCredentialDocument(body)
}
