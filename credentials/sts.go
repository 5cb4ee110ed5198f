// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"crypto/rand"
	"encoding/xml"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	stsAPIVersion       = "2011-06-15"
	stsDefaultDuration  = 3600
	sessionNameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sessionNameLength   = 8
)

var (
	sessionNameOnce sync.Once
	sessionName     string
)

// roleSessionName returns a random per-process RoleSessionName, generated
// once and reused for the lifetime of the process.
func roleSessionName() string {
	sessionNameOnce.Do(func() {
		sessionName = generateSessionName()
	})
	return sessionName
}

func generateSessionName() string {
	b := make([]byte, sessionNameLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(sessionNameAlphabet))))
		if err != nil {
			// crypto/rand failure is effectively unrecoverable; fall back to
			// a fixed, still-valid (>=2 char) session name rather than
			// panicking construction of the decorator.
			return "cwlogs-output-plugin"
		}
		b[i] = sessionNameAlphabet[n.Int64()]
	}
	return "cwlogs-" + string(b)
}

// STSAssumeRoleProvider wraps a base Provider and exchanges its credentials
// for role-session credentials via STS AssumeRole. If the base provider
// fails, the decorator fails; AssumeRole is re-issued whenever the cached
// session credentials pass their refresh deadline.
type STSAssumeRoleProvider struct {
	base     Provider
	roleARN  string
	region   string
	endpoint string // "https://sts.<region>.amazonaws.com"; overridable in tests.
	client   *http.Client

	mu        sync.Mutex
	cached    expiring
	hasCached bool
}

var _ Provider = (*STSAssumeRoleProvider)(nil)

// NewSTSAssumeRoleProvider constructs the decorator. region selects the
// regional STS endpoint (sts.<region>.amazonaws.com).
func NewSTSAssumeRoleProvider(base Provider, roleARN, region string) *STSAssumeRoleProvider {
	return &STSAssumeRoleProvider{
		base:     base,
		roleARN:  roleARN,
		region:   region,
		endpoint: "https://sts." + region + ".amazonaws.com",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *STSAssumeRoleProvider) Fetch(ctx context.Context) (Credentials, error) {
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

func (p *STSAssumeRoleProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.refreshLocked(ctx)
	return err
}

func (p *STSAssumeRoleProvider) Dispose() {
	p.base.Dispose()
}

func (p *STSAssumeRoleProvider) refreshLocked(ctx context.Context) (Credentials, error) {
	baseCreds, err := p.base.Fetch(ctx)
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials: sts assume role: base provider: %w", err)
	}

	creds, expiration, err := p.assumeRole(ctx, baseCreds)
	if err != nil {
		return Credentials{}, err
	}

	p.cached = expiring{creds: creds, refreshAt: expiration.Add(-refreshWindow)}
	p.hasCached = true
	return creds, nil
}

func (p *STSAssumeRoleProvider) assumeRole(ctx context.Context, baseCreds Credentials) (Credentials, time.Time, error) {
	form := url.Values{
		"Action":          {"AssumeRole"},
		"Version":         {stsAPIVersion},
		"RoleArn":         {p.roleARN},
		"RoleSessionName": {roleSessionName()},
		"DurationSeconds": {fmt.Sprintf("%d", stsDefaultDuration)},
	}
	body := form.Encode()

	req, err := http.NewRequest(http.MethodPost, p.endpoint+"/", strings.NewReader(body))
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: building sts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := Sign(ctx, req, baseCreds, PayloadHash([]byte(body)), "sts", p.region); err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: signing sts request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: sts request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: reading sts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: sts AssumeRole failed with status %d: %s", resp.StatusCode, respBody)
	}

	return parseAssumeRoleResponse(respBody)
}

// assumeRoleResponse is the subset of the AssumeRole XML envelope this
// provider needs.
type assumeRoleResponse struct {
	XMLName xml.Name `xml:"AssumeRoleResponse"`
	Result  struct {
		Credentials struct {
			AccessKeyID     string `xml:"AccessKeyId"`
			SecretAccessKey string `xml:"SecretAccessKey"`
			SessionToken    string `xml:"SessionToken"`
			Expiration      string `xml:"Expiration"`
		} `xml:"Credentials"`
	} `xml:"AssumeRoleResult"`
}

func parseAssumeRoleResponse(body []byte) (Credentials, time.Time, error) {
	var parsed assumeRoleResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: malformed sts response: %w", err)
	}

	c := parsed.Result.Credentials
	if c.AccessKeyID == "" || c.SecretAccessKey == "" || c.SessionToken == "" {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: sts response missing credential fields")
	}

	expiration, err := time.Parse(time.RFC3339, c.Expiration)
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: invalid sts Expiration %q: %w", c.Expiration, err)
	}

	return Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
	}, expiration, nil
}
