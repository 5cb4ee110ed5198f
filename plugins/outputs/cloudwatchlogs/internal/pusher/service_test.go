// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"context"
	"sync"
)

// fakeService is an in-memory cloudWatchLogsService used across the pusher
// package's tests. Each method consults queued responses/errors keyed by
// call count so a test can script a specific sequence (e.g. fail once with
// InvalidSequenceTokenException, then succeed).
type fakeService struct {
	mu sync.Mutex

	putLogEventsCalls   []putLogEventsCall
	putLogEventsScript  []putLogEventsResult
	createGroupErr      error
	createGroupCalls    int
	createStreamErr     error
	createStreamCalls   int
	createStreamErrOnce error
}

type putLogEventsCall struct {
	group, stream string
	events        []Event
	sequenceToken *string
}

type putLogEventsResult struct {
	out *PutLogEventsOutput
	err error
}

func (f *fakeService) PutLogEvents(ctx context.Context, group, stream string, events []Event, sequenceToken *string) (*PutLogEventsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.putLogEventsCalls = append(f.putLogEventsCalls, putLogEventsCall{group, stream, events, sequenceToken})

	idx := len(f.putLogEventsCalls) - 1
	if idx < len(f.putLogEventsScript) {
		r := f.putLogEventsScript[idx]
		return r.out, r.err
	}
	token := "next-token"
	return &PutLogEventsOutput{NextSequenceToken: &token}, nil
}

func (f *fakeService) CreateLogGroup(ctx context.Context, group string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createGroupCalls++
	return f.createGroupErr
}

func (f *fakeService) CreateLogStream(ctx context.Context, group, stream string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createStreamCalls++
	if f.createStreamErrOnce != nil {
		err := f.createStreamErrOnce
		f.createStreamErrOnce = nil
		return err
	}
	return f.createStreamErr
}
