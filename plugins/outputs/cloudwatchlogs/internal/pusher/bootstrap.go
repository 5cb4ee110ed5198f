// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"context"
	"errors"
	"sync"
)

// Bootstrapper creates the log group (once, if configured to) and
// individual log streams on demand, tolerating "already exists" responses
// from a concurrent creator.
type Bootstrapper struct {
	service         cloudWatchLogsService
	groupName       string
	autoCreateGroup bool

	mu           sync.Mutex
	groupCreated bool
}

// NewBootstrapper builds a Bootstrapper for groupName. If autoCreateGroup
// is false, EnsureGroup is a no-op: the group is assumed to already exist.
func NewBootstrapper(service cloudWatchLogsService, groupName string, autoCreateGroup bool) *Bootstrapper {
	return &Bootstrapper{
		service:         service,
		groupName:       groupName,
		autoCreateGroup: autoCreateGroup,
	}
}

// EnsureGroup creates the configured log group at most once per process,
// treating ResourceAlreadyExistsException as success.
func (b *Bootstrapper) EnsureGroup(ctx context.Context) error {
	if !b.autoCreateGroup {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.groupCreated {
		return nil
	}

	err := b.service.CreateLogGroup(ctx, b.groupName)
	if err != nil && !isAlreadyExists(err) {
		return err
	}
	b.groupCreated = true
	return nil
}

// EnsureStream creates stream in group, treating
// ResourceAlreadyExistsException as success, and marks it as existing with
// a clean sequence token either way.
func (b *Bootstrapper) EnsureStream(ctx context.Context, group string, stream *StreamState) error {
	err := b.service.CreateLogStream(ctx, group, stream.Name)
	if err != nil && !isAlreadyExists(err) {
		return err
	}
	stream.ExistsRemotely = true
	stream.SequenceToken = nil
	return nil
}

func isAlreadyExists(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "ResourceAlreadyExistsException"
}
