// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package cloudwatchlogs ships decoded log records to Amazon CloudWatch
// Logs: it resolves a destination stream per flush, partitions events into
// batches that satisfy the PutLogEvents wire limits, and drives delivery
// with bounded, classified retry.
package cloudwatchlogs

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the plugin's host-supplied configuration, parsed from a flat
// string map the way the agent's own output plugins are configured.
type Config struct {
	LogGroupName    string
	LogStreamName   string
	LogStreamPrefix string
	Region          string
	LogFormat       string
	LogKey          string
	AutoCreateGroup bool
	Endpoint        string
	RoleARN         string
}

const (
	logFormatJSON    = "json"
	logFormatJSONEMF = "json_emf"
)

// ParseConfig builds a Config from host configuration values and validates
// it.
func ParseConfig(values map[string]string) (Config, error) {
	cfg := Config{
		LogGroupName:    values["log_group_name"],
		LogStreamName:   values["log_stream_name"],
		LogStreamPrefix: values["log_stream_prefix"],
		Region:          values["region"],
		LogFormat:       values["log_format"],
		LogKey:          values["log_key"],
		Endpoint:        values["endpoint"],
		RoleARN:         values["role_arn"],
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = logFormatJSON
	}

	autoCreate, err := parseBool(values["auto_create_group"])
	if err != nil {
		return Config{}, err
	}
	cfg.AutoCreateGroup = autoCreate

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "false":
		return false, nil
	case "on", "true":
		return true, nil
	default:
		return false, fmt.Errorf("cloudwatchlogs: invalid boolean value %q", s)
	}
}

// Validate reports whether cfg is internally consistent: exactly one of
// log_stream_name/log_stream_prefix set, the required fields present, and
// a recognized log_format.
func (c Config) Validate() error {
	if c.LogGroupName == "" {
		return errors.New("cloudwatchlogs: log_group_name is required")
	}
	if c.Region == "" {
		return errors.New("cloudwatchlogs: region is required")
	}
	if c.LogStreamName == "" && c.LogStreamPrefix == "" {
		return errors.New("cloudwatchlogs: either log_stream_name or log_stream_prefix is required")
	}
	if c.LogStreamName != "" && c.LogStreamPrefix != "" {
		return errors.New("cloudwatchlogs: log_stream_name and log_stream_prefix are mutually exclusive")
	}
	switch c.LogFormat {
	case logFormatJSON, logFormatJSONEMF:
	default:
		return fmt.Errorf("cloudwatchlogs: invalid log_format %q", c.LogFormat)
	}
	return nil
}
