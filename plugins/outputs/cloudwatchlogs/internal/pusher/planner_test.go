// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_Empty(t *testing.T) {
	assert.Nil(t, Plan(nil))
}

func TestPlan_SingleBatch(t *testing.T) {
	events := []Event{
		{TimestampMillis: 1000, Message: "a"},
		{TimestampMillis: 2000, Message: "b"},
	}
	batches := Plan(events)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
}

func TestPlan_SplitsOnEventCount(t *testing.T) {
	events := make([]Event, maxEventsPerBatch+1)
	for i := range events {
		events[i] = Event{TimestampMillis: int64(i), Message: "x"}
	}

	batches := Plan(events)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], maxEventsPerBatch)
	assert.Len(t, batches[1], 1)
}

func TestPlan_SplitsOnPayloadSize(t *testing.T) {
	big := strings.Repeat("x", maxPayloadBytes/2)
	events := []Event{
		{TimestampMillis: 1, Message: big},
		{TimestampMillis: 2, Message: big},
		{TimestampMillis: 3, Message: big},
	}

	batches := Plan(events)
	assert.GreaterOrEqual(t, len(batches), 2)
	for _, b := range batches {
		total := payloadFooterSize
		for _, e := range b {
			total += e.sizeBytes()
		}
		assert.LessOrEqual(t, total, maxPayloadBytes)
	}
}

func TestPlan_SplitsOnTimeSpan(t *testing.T) {
	events := []Event{
		{TimestampMillis: 0, Message: "a"},
		{TimestampMillis: maxBatchSpan + 1, Message: "b"},
	}
	batches := Plan(events)
	require.Len(t, batches, 2)
}

func TestPlan_ExactlyMaxSpanStaysTogether(t *testing.T) {
	events := []Event{
		{TimestampMillis: 0, Message: "a"},
		{TimestampMillis: maxBatchSpan, Message: "b"},
	}
	batches := Plan(events)
	require.Len(t, batches, 1)
}

func TestPlan_AllEventsAccountedFor(t *testing.T) {
	events := make([]Event, 25000)
	for i := range events {
		events[i] = Event{TimestampMillis: int64(i), Message: "payload"}
	}

	batches := Plan(events)
	var total int
	for _, b := range batches {
		total += len(b)
	}
	assert.Equal(t, len(events), total)
}
