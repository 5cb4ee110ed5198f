// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package cloudwatchlogs

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/aws/cloudwatch-logs-output-plugin/credentials"
	"github.com/aws/cloudwatch-logs-output-plugin/plugins/outputs/cloudwatchlogs/internal/pusher"
)

// Record is one timestamped structured log entry handed to Flush.
type Record = pusher.Record

// Outcome is what Flush reports back about one batch of records.
type Outcome = pusher.Outcome

const (
	OK    = pusher.OK
	Retry = pusher.Retry
	Error = pusher.Error
)

// Sink is a configured CloudWatch Logs destination: one log group, a
// stream-resolution strategy, a credential source, and the batching/retry
// machinery that turns Flush calls into PutLogEvents requests.
type Sink struct {
	cfg Config

	chain  credentials.Provider
	client *pusher.HTTPClient

	registry  *pusher.Registry
	bootstrap *pusher.Bootstrapper
	driver    *pusher.Driver
	decodeCfg pusher.DecodeConfig

	logger *zap.SugaredLogger
}

// New builds a Sink from host configuration values. If logger is nil, a
// no-op logger is used.
func New(values map[string]string, logger *zap.SugaredLogger) (*Sink, error) {
	cfg, err := ParseConfig(values)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var chain credentials.Provider = credentials.NewDefaultChain()
	if cfg.RoleARN != "" {
		chain = credentials.NewSTSAssumeRoleProvider(chain, cfg.RoleARN, cfg.Region)
	}

	client := pusher.NewHTTPClient(cfg.Region, cfg.Endpoint, chain, cfg.LogFormat == logFormatJSONEMF)
	bootstrap := pusher.NewBootstrapper(client, cfg.LogGroupName, cfg.AutoCreateGroup)
	driver := pusher.NewDriver(client, bootstrap, logger)

	var registry *pusher.Registry
	if cfg.LogStreamName != "" {
		registry = pusher.NewStaticRegistry(cfg.LogStreamName)
	} else {
		registry = pusher.NewPrefixRegistry(cfg.LogStreamPrefix, pusher.DefaultIdleExpiry)
	}

	return &Sink{
		cfg:       cfg,
		chain:     chain,
		client:    client,
		registry:  registry,
		bootstrap: bootstrap,
		driver:    driver,
		decodeCfg: pusher.DecodeConfig{LogKey: cfg.LogKey},
		logger:    logger,
	}, nil
}

// Flush decodes records for tag, plans them into wire-sized sub-batches,
// and sends each in order to the stream tag resolves to. It returns as
// soon as a sub-batch reports anything other than OK; the host is expected
// to redeliver the entire, unmodified batch of records on Retry.
func (s *Sink) Flush(ctx context.Context, tag string, records []Record) Outcome {
	if len(records) == 0 {
		return OK
	}

	now := time.Now()
	events := pusher.Decode(records, s.decodeCfg, now, s.logger)
	if len(events) == 0 {
		return OK
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TimestampMillis < events[j].TimestampMillis
	})

	if err := s.bootstrap.EnsureGroup(ctx); err != nil {
		s.logger.Errorw("failed to create log group", "group", s.cfg.LogGroupName, "error", err)
		return Retry
	}

	stream := s.registry.Resolve(tag, now)

	for _, batch := range pusher.Plan(events) {
		if outcome := s.driver.Send(ctx, s.cfg.LogGroupName, stream, batch); outcome != OK {
			return outcome
		}
	}
	return OK
}

// Close releases every resource the sink owns: the CloudWatch Logs HTTP
// client's idle connections, then the credential chain (which in turn
// disposes any STS decorator and the providers beneath it).
func (s *Sink) Close() {
	s.client.Dispose()
	s.chain.Dispose()
}
