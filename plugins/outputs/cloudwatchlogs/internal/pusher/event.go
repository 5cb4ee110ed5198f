// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package pusher turns decoded records into CloudWatch Logs PutLogEvents
// calls: decoding, batch planning, per-stream sequence-token bookkeeping,
// and the signed HTTP calls themselves.
package pusher

// Record is one timestamped structured entry handed down from the host
// runtime for a single flush of a single tag.
type Record struct {
	TimestampUnixNano int64
	Fields            map[string]any
}

// Event is a record after it has been serialized to its wire form: a
// millisecond epoch timestamp and the message body CloudWatch Logs will
// store.
type Event struct {
	TimestampMillis int64
	Message         string
}

// perEventOverhead is the fixed byte cost PutLogEvents charges against the
// payload ceiling for every event, on top of the message body itself.
const perEventOverhead = 26

func (e Event) sizeBytes() int {
	return len(e.Message) + perEventOverhead
}
