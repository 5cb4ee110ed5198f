// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"sync"
	"time"
)

// DefaultIdleExpiry is how long a prefix-mode stream can go unused before
// Registry forgets it and its sequence token.
const DefaultIdleExpiry = time.Hour

// StreamState is the per-stream bookkeeping a Driver needs across calls:
// the sequence token CloudWatch Logs expects on the next PutLogEvents, and
// whether the stream is known to already exist remotely. All access is
// serialized through mu, which a Driver holds for the duration of one
// PutLogEvents call targeting this stream.
type StreamState struct {
	mu sync.Mutex

	Name           string
	SequenceToken  *string
	ExistsRemotely bool

	lastUsed time.Time
}

type registryMode int

const (
	modeStatic registryMode = iota
	modePrefix
)

// Registry resolves a flush's tag to the StreamState it should write to.
// In static mode every tag shares one stream; in prefix mode each tag gets
// its own stream named prefix+tag, created lazily and evicted after
// idleExpiry of disuse.
type Registry struct {
	mu sync.Mutex

	mode       registryMode
	staticName string
	prefix     string
	idleExpiry time.Duration

	entries map[string]*StreamState
}

// NewStaticRegistry builds a Registry that always resolves to the single
// named stream, regardless of tag.
func NewStaticRegistry(name string) *Registry {
	return &Registry{
		mode:       modeStatic,
		staticName: name,
		entries:    make(map[string]*StreamState),
	}
}

// NewPrefixRegistry builds a Registry that maps each distinct tag to its
// own stream named prefix+tag, forgetting streams idle past idleExpiry.
func NewPrefixRegistry(prefix string, idleExpiry time.Duration) *Registry {
	return &Registry{
		mode:       modePrefix,
		prefix:     prefix,
		idleExpiry: idleExpiry,
		entries:    make(map[string]*StreamState),
	}
}

// Resolve returns the StreamState for tag, creating it on first use.
func (r *Registry) Resolve(tag string, now time.Time) *StreamState {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tag
	name := r.prefix + tag
	if r.mode == modeStatic {
		key = r.staticName
		name = r.staticName
	} else {
		r.evictIdleLocked(now)
	}

	s, ok := r.entries[key]
	if !ok {
		s = &StreamState{Name: name}
		r.entries[key] = s
	}
	s.lastUsed = now
	return s
}

func (r *Registry) evictIdleLocked(now time.Time) {
	for k, s := range r.entries {
		if now.Sub(s.lastUsed) > r.idleExpiry {
			delete(r.entries, k)
		}
	}
}
