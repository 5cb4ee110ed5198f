// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"time"
)

// Provider is the uniform contract every credential source satisfies. It
// mirrors the SDK's aws.CredentialsProvider shape (see
// aws-sdk-go-v2/aws.CredentialsProvider and this repo's use of it for
// signing) but adds an explicit Refresh and Dispose so the chain can force
// a cache repopulation and release owned resources deterministically.
type Provider interface {
	// Fetch returns a credential triple, refreshing the provider's internal
	// cache first if it has passed its refresh deadline. If that refresh
	// fails and a previously cached value exists, Fetch returns the stale
	// value rather than the error: the caller's outbound request is left to
	// fail on its own (401/403) and retry, instead of abandoning a
	// credential source that has worked before. Returns ErrUnavailable only
	// when this provider's source has never had anything to offer.
	Fetch(ctx context.Context) (Credentials, error)

	// Refresh forces the provider to repopulate its cache, regardless of
	// whether the current cached value has expired. A failed refresh does
	// not discard a still-cached (possibly expired) value.
	Refresh(ctx context.Context) error

	// Dispose releases any resources (HTTP clients, background state) the
	// provider owns. Safe to call more than once.
	Dispose()
}

// nowFunc is overridable in tests; production code always calls it through
// this indirection instead of time.Now directly so refresh-deadline tests
// don't need real sleeps.
var nowFunc = time.Now
