// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import "time"

const (
	maxEventsPerBatch = 10000
	maxPayloadBytes   = 1000000
	payloadFooterSize = 4
	maxBatchSpan      = int64(24 * time.Hour / time.Millisecond)
)

// Plan partitions a timestamp-sorted event slice into sub-batches that each
// satisfy the PutLogEvents limits: at most maxEventsPerBatch events, at
// most maxPayloadBytes of serialized body (including payloadFooterSize),
// and a timestamp span of at most 24h between the batch's first and any
// later event. It is a greedy single pass: an event that would push the
// current batch over any limit starts a new one instead.
func Plan(events []Event) [][]Event {
	if len(events) == 0 {
		return nil
	}

	var batches [][]Event
	var current []Event
	var currentBytes int
	var minTS int64

	for _, e := range events {
		sz := e.sizeBytes()

		if len(current) > 0 {
			tooManyEvents := len(current)+1 > maxEventsPerBatch
			tooBig := currentBytes+sz > maxPayloadBytes
			tooWide := e.TimestampMillis-minTS > maxBatchSpan
			if tooManyEvents || tooBig || tooWide {
				batches = append(batches, current)
				current = nil
				currentBytes = 0
			}
		}

		if len(current) == 0 {
			currentBytes = payloadFooterSize
			minTS = e.TimestampMillis
		}

		current = append(current, e)
		currentBytes += sz
	}

	return append(batches, current)
}
