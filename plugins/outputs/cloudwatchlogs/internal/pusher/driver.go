// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Driver sends one sub-batch of events to one stream, handling the two
// retriable-within-a-call error shapes CloudWatch Logs defines: a stale
// sequence token, and a stream that has disappeared since it was last
// known to exist. Each is retried at most once per Send; a second
// occurrence of either is treated as a permanent failure for this batch.
type Driver struct {
	service   cloudWatchLogsService
	bootstrap *Bootstrapper
	logger    *zap.SugaredLogger
}

// NewDriver builds a Driver over service, using bootstrap to (re)create
// streams that PutLogEvents reports missing.
func NewDriver(service cloudWatchLogsService, bootstrap *Bootstrapper, logger *zap.SugaredLogger) *Driver {
	return &Driver{service: service, bootstrap: bootstrap, logger: logger}
}

// Send delivers events to stream in group. It holds stream's lock for the
// whole call, which is what gives concurrent flushes targeting the same
// stream their total order.
func (d *Driver) Send(ctx context.Context, group string, stream *StreamState, events []Event) Outcome {
	if len(events) == 0 {
		return OK
	}

	stream.mu.Lock()
	defer stream.mu.Unlock()

	if !stream.ExistsRemotely {
		if err := d.bootstrap.EnsureStream(ctx, group, stream); err != nil {
			d.logger.Errorw("failed to create log stream", "group", group, "stream", stream.Name, "error", err)
			return Retry
		}
	}

	var retriedInvalidToken, retriedMissingStream bool

	for {
		out, err := d.service.PutLogEvents(ctx, group, stream.Name, events, stream.SequenceToken)
		if err == nil {
			stream.SequenceToken = out.NextSequenceToken
			return OK
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			d.logger.Warnw("transient failure sending to cloudwatch logs", "group", group, "stream", stream.Name, "error", err)
			return Retry
		}

		switch apiErr.Code {
		case "InvalidSequenceTokenException":
			if retriedInvalidToken {
				d.logger.Errorw("sequence token mismatch persisted after retry", "group", group, "stream", stream.Name)
				return Error
			}
			token := apiErr.ExpectedSequenceToken
			stream.SequenceToken = &token
			retriedInvalidToken = true

		case "DataAlreadyAcceptedException":
			d.logger.Infow("duplicate PutLogEvents call already accepted", "group", group, "stream", stream.Name)
			return OK

		case "ResourceNotFoundException":
			if retriedMissingStream {
				d.logger.Errorw("log stream missing again after recreation", "group", group, "stream", stream.Name)
				return Error
			}
			stream.ExistsRemotely = false
			if err := d.bootstrap.EnsureStream(ctx, group, stream); err != nil {
				d.logger.Errorw("failed to recreate log stream", "group", group, "stream", stream.Name, "error", err)
				return Error
			}
			retriedMissingStream = true

		case "ThrottlingException":
			return Retry

		default:
			if apiErr.StatusCode >= 500 {
				return Retry
			}
			d.logger.Errorw("permanent error sending to cloudwatch logs", "group", group, "stream", stream.Name, "code", apiErr.Code, "message", apiErr.Message)
			return Error
		}
	}
}
