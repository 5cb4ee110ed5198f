// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticRegistry_SameStreamRegardlessOfTag(t *testing.T) {
	r := NewStaticRegistry("my-stream")
	now := time.Now()

	a := r.Resolve("tag-a", now)
	b := r.Resolve("tag-b", now)
	assert.Same(t, a, b)
	assert.Equal(t, "my-stream", a.Name)
}

func TestPrefixRegistry_DistinctStreamsPerTag(t *testing.T) {
	r := NewPrefixRegistry("prefix-", time.Hour)
	now := time.Now()

	a := r.Resolve("tag-a", now)
	b := r.Resolve("tag-b", now)
	assert.NotSame(t, a, b)
	assert.Equal(t, "prefix-tag-a", a.Name)
	assert.Equal(t, "prefix-tag-b", b.Name)
}

func TestPrefixRegistry_ReusesExistingEntry(t *testing.T) {
	r := NewPrefixRegistry("prefix-", time.Hour)
	now := time.Now()

	a := r.Resolve("tag-a", now)
	a.SequenceToken = ptr("token-1")

	b := r.Resolve("tag-a", now.Add(time.Minute))
	assert.Same(t, a, b)
	assert.Equal(t, "token-1", *b.SequenceToken)
}

func TestPrefixRegistry_EvictsIdleStreams(t *testing.T) {
	r := NewPrefixRegistry("prefix-", time.Minute)
	now := time.Now()

	a := r.Resolve("tag-a", now)
	a.SequenceToken = ptr("token-1")

	b := r.Resolve("tag-a", now.Add(2*time.Hour))
	assert.NotSame(t, a, b)
	assert.Nil(t, b.SequenceToken)
}

func ptr(s string) *string { return &s }
