// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	imdsDefaultHost  = "169.254.169.254"
	imdsTokenPath    = "/latest/api/token"
	imdsRolePath     = "/latest/meta-data/iam/security-credentials/"
	imdsTokenHeader  = "X-aws-ec2-metadata-token"
	imdsTokenTTLHdr  = "X-aws-ec2-metadata-token-ttl-seconds"
	imdsTokenTTLSecs = "21600" // 6 hours, the maximum IMDSv2 allows.
)

// IMDSProvider retrieves role-scoped temporary credentials from the EC2
// instance metadata service using the IMDSv2 session-token protocol:
//
//  1. PUT /latest/api/token to obtain a session token, cached until it is
//     within refreshWindow of its TTL.
//  2. GET /latest/meta-data/iam/security-credentials/ to discover the
//     instance's attached role name.
//  3. GET the same path with the role name appended to fetch the
//     credentials document.
type IMDSProvider struct {
	host   string
	client *http.Client

	mu        sync.Mutex
	token     string
	tokenAt   time.Time // refresh deadline for the cached token
	cached    expiring
	hasCached bool
}

var _ Provider = (*IMDSProvider)(nil)

// NewIMDSProvider constructs an IMDS provider talking to the standard
// link-local metadata address.
func NewIMDSProvider() *IMDSProvider {
	return &IMDSProvider{
		host:   imdsDefaultHost,
		client: newHTTPClient(),
	}
}

func (p *IMDSProvider) Fetch(ctx context.Context) (Credentials, error) {
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

func (p *IMDSProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.refreshLocked(ctx)
	return err
}

func (p *IMDSProvider) Dispose() {}

func (p *IMDSProvider) refreshLocked(ctx context.Context) (Credentials, error) {
	token, err := p.tokenLocked(ctx)
	if err != nil {
		return Credentials{}, err
	}

	role, err := p.roleLocked(ctx, token)
	if err != nil {
		return Credentials{}, err
	}

	creds, expiration, err := fetchCredentialDocument(ctx, p.client, "http://"+p.host+imdsRolePath+role,
		map[string]string{imdsTokenHeader: token})
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials: imds credential fetch for role %q: %w", role, err)
	}

	p.cached = expiring{creds: creds, refreshAt: expiration.Add(-refreshWindow)}
	p.hasCached = true
	return creds, nil
}

// tokenLocked returns the cached IMDSv2 session token, acquiring a new one
// if the cached token is missing or within refreshWindow of its TTL. The
// token request itself must not require a token (bootstrap step).
func (p *IMDSProvider) tokenLocked(ctx context.Context) (string, error) {
	now := nowFunc()
	if p.token != "" && now.Before(p.tokenAt) {
		return p.token, nil
	}

	req, err := http.NewRequest(http.MethodPut, "http://"+p.host+imdsTokenPath, nil)
	if err != nil {
		return "", fmt.Errorf("credentials: building imds token request: %w", err)
	}
	req.Header.Set(imdsTokenTTLHdr, imdsTokenTTLSecs)

	body, err := doRequest(ctx, p.client, req)
	if err != nil {
		return "", fmt.Errorf("credentials: %w: %v", ErrUnavailable, err)
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("credentials: %w: empty imds token", ErrUnavailable)
	}

	ttl, _ := strconv.Atoi(imdsTokenTTLSecs)
	p.token = token
	p.tokenAt = now.Add(time.Duration(ttl)*time.Second - refreshWindow)
	return token, nil
}

// roleLocked discovers the instance's attached IAM role name. Any failure
// (non-200, empty body) makes the provider report ErrUnavailable rather
// than a hard failure, since "no IMDS role attached" is an expected
// not-applicable-here outcome for the chain.
func (p *IMDSProvider) roleLocked(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, "http://"+p.host+imdsRolePath, nil)
	if err != nil {
		return "", fmt.Errorf("credentials: building imds role request: %w", err)
	}
	req.Header.Set(imdsTokenHeader, token)

	body, err := doRequest(ctx, p.client, req)
	if err != nil {
		return "", fmt.Errorf("credentials: %w: %v", ErrUnavailable, err)
	}
	role := strings.TrimSpace(string(body))
	if role == "" {
		return "", fmt.Errorf("credentials: %w: no instance role attached", ErrUnavailable)
	}
	return role, nil
}
