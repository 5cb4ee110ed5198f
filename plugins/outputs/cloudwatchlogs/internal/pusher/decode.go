// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	maxEventAge    = 14 * 24 * time.Hour
	maxEventFuture = 2 * time.Hour
	// decodeCapHint sizes the initial Event slice; it grows past this on
	// demand like any Go slice, it's just a reasonable starting guess for a
	// typical flush.
	decodeCapHint = 5000
)

// DecodeConfig controls how a Record's fields become a message string.
type DecodeConfig struct {
	// LogKey, if set, picks a single string-valued field to use verbatim as
	// the message instead of serializing the whole record.
	LogKey string
}

// Decode converts records into events ready for batch planning, dropping
// anything CloudWatch Logs itself would reject: records too far in the
// past or future, and records that produce an empty message. The returned
// slice is in the same order as records; callers sort it before handing it
// to Plan.
func Decode(records []Record, cfg DecodeConfig, now time.Time, logger *zap.SugaredLogger) []Event {
	events := make([]Event, 0, decodeCapHint)

	for _, r := range records {
		ts := time.Unix(0, r.TimestampUnixNano)
		age := now.Sub(ts)
		if age > maxEventAge {
			logger.Debugw("dropping event older than the retention window", "age", age)
			continue
		}
		if age < -maxEventFuture {
			logger.Debugw("dropping event too far in the future", "timestamp", ts)
			continue
		}

		msg, ok := buildMessage(r, cfg)
		if !ok || msg == "" {
			logger.Debugw("dropping record with no usable message", "log_key", cfg.LogKey)
			continue
		}

		event := Event{
			TimestampMillis: ts.UnixMilli(),
			Message:         msg,
		}
		if event.sizeBytes() > maxPayloadBytes-payloadFooterSize {
			logger.Warnw("dropping event larger than the payload ceiling", "size", event.sizeBytes())
			continue
		}

		events = append(events, event)
	}

	return events
}

func buildMessage(r Record, cfg DecodeConfig) (string, bool) {
	if cfg.LogKey != "" {
		v, ok := r.Fields[cfg.LogKey]
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		return s, ok
	}

	b, err := json.Marshal(r.Fields)
	if err != nil {
		return "", false
	}
	return string(b), true
}
