// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"os"
)

// EnvProvider reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and the
// optional AWS_SESSION_TOKEN from the process environment. Both required
// variables must be present and non-empty or the provider reports
// ErrUnavailable. Environment values never expire, so Fetch never refreshes
// after the first successful read.
type EnvProvider struct{}

var _ Provider = (*EnvProvider)(nil)

// NewEnvProvider constructs the environment provider. It always succeeds to
// construct; whether it has credentials to offer is only known at Fetch
// time.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

func (p *EnvProvider) Fetch(ctx context.Context) (Credentials, error) {
	return p.read()
}

func (p *EnvProvider) Refresh(ctx context.Context) error {
	_, err := p.read()
	return err
}

func (p *EnvProvider) Dispose() {}

func (p *EnvProvider) read() (Credentials, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey == "" || secretKey == "" {
		return Credentials{}, ErrUnavailable
	}
	return Credentials{
		AccessKeyID:     accessKey,
		SecretAccessKey: secretKey,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	}, nil
}
