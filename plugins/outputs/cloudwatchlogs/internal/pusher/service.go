// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"context"
	"fmt"
)

// APIError is a parsed CloudWatch Logs JSON 1.1 error response.
type APIError struct {
	Code                  string
	Message               string
	StatusCode            int
	ExpectedSequenceToken string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cloudwatchlogs: %s (http %d): %s", e.Code, e.StatusCode, e.Message)
}

// PutLogEventsOutput is the subset of the PutLogEvents response a Driver
// needs.
type PutLogEventsOutput struct {
	NextSequenceToken *string
}

// cloudWatchLogsService is the wire-level CloudWatch Logs surface a Driver
// and Bootstrapper depend on. The production implementation is HTTPClient;
// tests substitute an in-memory fake.
type cloudWatchLogsService interface {
	PutLogEvents(ctx context.Context, group, stream string, events []Event, sequenceToken *string) (*PutLogEventsOutput, error)
	CreateLogGroup(ctx context.Context, group string) error
	CreateLogStream(ctx context.Context, group, stream string) error
}
