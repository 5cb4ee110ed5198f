// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
)

const (
	ecsCredentialsHost  = "169.254.170.2"
	ecsRelativeURIEnvar = "AWS_CONTAINER_CREDENTIALS_RELATIVE_URI"
)

// ContainerProvider is a generic container-credentials provider: a plain
// GET against a configured host and path, parsed as the shared credentials
// document. In ECS mode the host is the fixed ECS link-local address and
// the path comes from AWS_CONTAINER_CREDENTIALS_RELATIVE_URI.
type ContainerProvider struct {
	host string
	path string

	client *http.Client

	mu        sync.Mutex
	cached    expiring
	hasCached bool
}

var _ Provider = (*ContainerProvider)(nil)

// NewECSContainerProvider constructs a ContainerProvider for the ECS task
// credentials endpoint. It returns (nil, ErrUnavailable) when
// AWS_CONTAINER_CREDENTIALS_RELATIVE_URI is unset, so the chain can skip it
// entirely at construction time rather than carry an always-failing
// provider.
func NewECSContainerProvider() (*ContainerProvider, error) {
	path := os.Getenv(ecsRelativeURIEnvar)
	if path == "" {
		return nil, ErrUnavailable
	}
	return NewContainerProvider(ecsCredentialsHost, path), nil
}

// NewContainerProvider constructs a provider against an arbitrary host and
// path, for reuse by custom HTTP credential endpoints beyond ECS.
func NewContainerProvider(host, path string) *ContainerProvider {
	return &ContainerProvider{
		host:   host,
		path:   path,
		client: newHTTPClient(),
	}
}

func (p *ContainerProvider) Fetch(ctx context.Context) (Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := nowFunc()
	if p.hasCached && !p.cached.expired(now) {
		return p.cached.creds, nil
	}
	creds, err := p.refreshLocked(ctx)
	if err != nil && p.hasCached {
		return p.cached.creds, nil
	}
	return creds, err
}

func (p *ContainerProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.refreshLocked(ctx)
	return err
}

func (p *ContainerProvider) Dispose() {}

func (p *ContainerProvider) refreshLocked(ctx context.Context) (Credentials, error) {
	url := "http://" + p.host + p.path
	creds, expiration, err := fetchCredentialDocument(ctx, p.client, url, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials: container credentials fetch: %w", err)
	}
	p.cached = expiring{creds: creds, refreshAt: expiration.Add(-refreshWindow)}
	p.hasCached = true
	return creds, nil
}
