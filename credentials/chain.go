// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"errors"
)

// ChainProvider is an ordered composite of sub-providers. Fetch and Refresh
// both walk the list in fixed order and return the first sub-provider that
// succeeds. Sub-providers that decline to construct (e.g. ECS with no env
// var set) are simply never added, so the chain never has to special-case
// an "inert" entry.
//
// ChainProvider itself holds no credential cache: each sub-provider already
// caches its own fetched value behind its own refresh deadline and its own
// mutex, so delegating straight through on every call both keeps expired
// credentials from ever being returned and gives a single-outbound-refresh
// guarantee for free: concurrent Fetch calls that land on the same expired
// sub-provider block on that sub-provider's own lock, not on anything
// chain-level.
type ChainProvider struct {
	providers []Provider
}

var _ Provider = (*ChainProvider)(nil)

// NewChainProvider builds a chain over providers in the given order. The
// order is a configuration decision made by the caller; the standard chain
// (env, shared-file profile, web-identity, IMDS, ECS) is assembled by
// NewDefaultChain.
func NewChainProvider(providers ...Provider) *ChainProvider {
	return &ChainProvider{providers: providers}
}

// NewDefaultChain builds the standard provider order: environment, then any
// already-constructed optional providers (shared-file profile,
// web-identity) the caller passes in, then IMDS, then ECS if its
// environment variable is set. profileAndWebIdentity lets callers slot in
// providers that this package does not implement directly.
func NewDefaultChain(profileAndWebIdentity ...Provider) *ChainProvider {
	providers := []Provider{NewEnvProvider()}
	providers = append(providers, profileAndWebIdentity...)
	providers = append(providers, NewIMDSProvider())

	if ecs, err := NewECSContainerProvider(); err == nil {
		providers = append(providers, ecs)
	}

	return NewChainProvider(providers...)
}

// Fetch returns credentials from the first sub-provider (in configured
// order) that has any to offer.
func (c *ChainProvider) Fetch(ctx context.Context) (Credentials, error) {
	var errs []error
	for _, p := range c.providers {
		creds, err := p.Fetch(ctx)
		if err == nil {
			return creds, nil
		}
		errs = append(errs, err)
	}
	return Credentials{}, errors.Join(append([]error{ErrUnavailable}, errs...)...)
}

// Refresh walks the sub-providers in order, stopping at the first one whose
// own Refresh succeeds.
func (c *ChainProvider) Refresh(ctx context.Context) error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Refresh(ctx); err == nil {
			return nil
		} else {
			errs = append(errs, err)
		}
	}
	return errors.Join(append([]error{ErrUnavailable}, errs...)...)
}

func (c *ChainProvider) Dispose() {
	for _, p := range c.providers {
		p.Dispose()
	}
}
