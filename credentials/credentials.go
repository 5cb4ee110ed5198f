// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package credentials implements a composable, refresh-aware AWS credential
// provider chain: environment variables, the EC2 instance metadata service,
// the ECS/container credentials endpoint, and an STS AssumeRole decorator
// that can wrap any of the above.
package credentials

import (
	"errors"
	"time"
)

// ErrUnavailable is returned by a provider's Fetch/Refresh when that
// provider's source has no credentials to offer (missing env vars, no
// container credentials URI configured, metadata service unreachable, ...).
// A chain provider treats it as "try the next provider", not as a fatal
// error.
var ErrUnavailable = errors.New("credentials: unavailable")

// Credentials is an immutable access-key/secret/session-token triple.
// SessionToken is empty for long-lived environment or shared-file
// credentials and is always present for STS, IMDS, or ECS issued
// credentials.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Empty reports whether c has no usable key material.
func (c Credentials) Empty() bool {
	return c.AccessKeyID == "" || c.SecretAccessKey == ""
}

// expiring pairs a Credentials value with the monotonic instant at which it
// should be refreshed. It is embedded by every concrete provider so expired
// credentials are never returned, enforced in one place.
type expiring struct {
	creds     Credentials
	refreshAt time.Time
}

// refreshWindow is the safety margin subtracted from any credential or
// IMDS-token expiration before the provider re-acquires it.
const refreshWindow = 5 * time.Minute

func (e expiring) expired(now time.Time) bool {
	if e.refreshAt.IsZero() {
		return false
	}
	return !now.Before(e.refreshAt)
}
