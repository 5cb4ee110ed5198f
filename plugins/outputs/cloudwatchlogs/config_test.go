// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package cloudwatchlogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Minimal(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{
		"log_group_name":  "my-group",
		"log_stream_name": "my-stream",
		"region":          "us-west-2",
	})
	require.NoError(t, err)
	assert.Equal(t, logFormatJSON, cfg.LogFormat)
	assert.False(t, cfg.AutoCreateGroup)
}

func TestParseConfig_MissingGroup(t *testing.T) {
	_, err := ParseConfig(map[string]string{
		"log_stream_name": "my-stream",
		"region":          "us-west-2",
	})
	require.Error(t, err)
}

func TestParseConfig_MissingRegion(t *testing.T) {
	_, err := ParseConfig(map[string]string{
		"log_group_name":  "my-group",
		"log_stream_name": "my-stream",
	})
	require.Error(t, err)
}

func TestParseConfig_RequiresStreamNameOrPrefix(t *testing.T) {
	_, err := ParseConfig(map[string]string{
		"log_group_name": "my-group",
		"region":         "us-west-2",
	})
	require.Error(t, err)
}

func TestParseConfig_StreamNameAndPrefixMutuallyExclusive(t *testing.T) {
	_, err := ParseConfig(map[string]string{
		"log_group_name":    "my-group",
		"log_stream_name":   "my-stream",
		"log_stream_prefix": "my-prefix-",
		"region":            "us-west-2",
	})
	require.Error(t, err)
}

func TestParseConfig_InvalidLogFormat(t *testing.T) {
	_, err := ParseConfig(map[string]string{
		"log_group_name":  "my-group",
		"log_stream_name": "my-stream",
		"region":          "us-west-2",
		"log_format":      "xml",
	})
	require.Error(t, err)
}

func TestParseConfig_AutoCreateGroupVariants(t *testing.T) {
	for _, v := range []string{"true", "On", "  TRUE  "} {
		cfg, err := ParseConfig(map[string]string{
			"log_group_name":    "my-group",
			"log_stream_prefix": "prefix-",
			"region":            "us-west-2",
			"auto_create_group": v,
		})
		require.NoError(t, err)
		assert.True(t, cfg.AutoCreateGroup, "value %q should parse truthy", v)
	}
}

func TestParseConfig_InvalidAutoCreateGroup(t *testing.T) {
	_, err := ParseConfig(map[string]string{
		"log_group_name":    "my-group",
		"log_stream_prefix": "prefix-",
		"region":            "us-west-2",
		"auto_create_group": "maybe",
	})
	require.Error(t, err)
}
