// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package pusher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/cloudwatch-logs-output-plugin/credentials"
)

const (
	targetPutLogEvents    = "Logs_20140328.PutLogEvents"
	targetCreateLogGroup  = "Logs_20140328.CreateLogGroup"
	targetCreateLogStream = "Logs_20140328.CreateLogStream"

	emfHeader = "x-amzn-logs-format"
	emfValue  = "json/emf"
)

// HTTPClient is the hand-rolled CloudWatch Logs JSON 1.1 wire client:
// every call is a signed POST of a JSON body against the X-Amz-Target
// header naming the operation, the same shape every AWS JSON protocol
// service uses.
type HTTPClient struct {
	endpoint string
	region   string
	emf      bool
	creds    credentials.Provider
	http     *http.Client
}

var _ cloudWatchLogsService = (*HTTPClient)(nil)

// NewHTTPClient builds a client for region, or for endpointOverride if
// non-empty (used for FIPS/VPC-endpoint configurations and tests). When
// emf is set, every PutLogEvents request carries the EMF content-format
// header so CloudWatch can extract embedded metrics from the payload.
func NewHTTPClient(region, endpointOverride string, creds credentials.Provider, emf bool) *HTTPClient {
	endpoint := endpointOverride
	if endpoint == "" {
		endpoint = "https://logs." + region + ".amazonaws.com"
	}
	return &HTTPClient{
		endpoint: endpoint,
		region:   region,
		emf:      emf,
		creds:    creds,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Dispose releases the client's idle connections.
func (c *HTTPClient) Dispose() {
	c.http.CloseIdleConnections()
}

func (c *HTTPClient) call(ctx context.Context, target string, extraHeaders map[string]string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("cloudwatchlogs: encoding %s request: %w", target, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint+"/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("cloudwatchlogs: building %s request: %w", target, err)
	}
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("X-Amz-Target", target)
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	creds, err := c.creds.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("cloudwatchlogs: fetching credentials: %w", err)
	}
	if err := credentials.Sign(ctx, req, creds, credentials.PayloadHash(payload), "logs", c.region); err != nil {
		return nil, fmt.Errorf("cloudwatchlogs: signing %s request: %w", target, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudwatchlogs: %s request failed: %w", target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudwatchlogs: reading %s response: %w", target, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

type inputLogEvent struct {
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

type putLogEventsInput struct {
	LogGroupName  string          `json:"logGroupName"`
	LogStreamName string          `json:"logStreamName"`
	LogEvents     []inputLogEvent `json:"logEvents"`
	SequenceToken *string         `json:"sequenceToken,omitempty"`
}

type putLogEventsOutputWire struct {
	NextSequenceToken *string `json:"nextSequenceToken"`
}

func (c *HTTPClient) PutLogEvents(ctx context.Context, group, stream string, events []Event, sequenceToken *string) (*PutLogEventsOutput, error) {
	input := putLogEventsInput{
		LogGroupName:  group,
		LogStreamName: stream,
		SequenceToken: sequenceToken,
		LogEvents:     make([]inputLogEvent, len(events)),
	}
	for i, e := range events {
		input.LogEvents[i] = inputLogEvent{Timestamp: e.TimestampMillis, Message: e.Message}
	}

	var headers map[string]string
	if c.emf {
		headers = map[string]string{emfHeader: emfValue}
	}

	body, err := c.call(ctx, targetPutLogEvents, headers, input)
	if err != nil {
		return nil, err
	}

	var out putLogEventsOutputWire
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("cloudwatchlogs: decoding PutLogEvents response: %w", err)
	}
	return &PutLogEventsOutput{NextSequenceToken: out.NextSequenceToken}, nil
}

func (c *HTTPClient) CreateLogGroup(ctx context.Context, group string) error {
	_, err := c.call(ctx, targetCreateLogGroup, nil, struct {
		LogGroupName string `json:"logGroupName"`
	}{LogGroupName: group})
	return err
}

func (c *HTTPClient) CreateLogStream(ctx context.Context, group, stream string) error {
	_, err := c.call(ctx, targetCreateLogStream, nil, struct {
		LogGroupName  string `json:"logGroupName"`
		LogStreamName string `json:"logStreamName"`
	}{LogGroupName: group, LogStreamName: stream})
	return err
}

// parseAPIError decodes the AWS JSON 1.1 error envelope:
//
//	{"__type": "com.amazonaws.cloudwatchlogs#ResourceNotFoundException", "message": "..."}
func parseAPIError(status int, body []byte) *APIError {
	var parsed struct {
		Type                  string `json:"__type"`
		Message               string `json:"message"`
		MessageCap            string `json:"Message"`
		ExpectedSequenceToken string `json:"expectedSequenceToken"`
	}
	_ = json.Unmarshal(body, &parsed)

	code := parsed.Type
	if idx := strings.LastIndex(code, "#"); idx >= 0 {
		code = code[idx+1:]
	}
	msg := parsed.Message
	if msg == "" {
		msg = parsed.MessageCap
	}

	return &APIError{
		Code:                  code,
		Message:               msg,
		StatusCode:            status,
		ExpectedSequenceToken: parsed.ExpectedSequenceToken,
	}
}
