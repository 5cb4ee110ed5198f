// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"encoding/json"
	"fmt"
	"time"
)

// credentialDocument is the flat JSON object returned by every HTTP
// credentials endpoint (IMDS role lookup, ECS container endpoint, and any
// custom endpoint following the same convention):
//
//	{
//	  "AccessKeyId": "...",
//	  "SecretAccessKey": "...",
//	  "Token": "...",
//	  "Expiration": "2019-12-18T21:27:58Z"
//	}
//
// Token is also accepted under the alias "SessionToken" since not every
// issuer uses the same key.
type credentialDocument struct {
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	Token           string `json:"Token"`
	SessionToken    string `json:"SessionToken"`
	Expiration      string `json:"Expiration"`
}

// expirationLayout is the strict ISO-8601 layout CloudWatch/STS/IMDS use for
// credential expiration timestamps.
const expirationLayout = "2006-01-02T15:04:05Z"

// parseCredentialDocument parses a raw HTTP credentials response body into a
// Credentials value and its expiration. It fails when AccessKeyId or
// SecretAccessKey is missing or empty, when the JSON is malformed, or when
// Expiration fails to parse. SessionToken/Token is optional: some issuers
// (e.g. a hand-rolled custom endpoint) may omit it, and this parser allows
// that rather than requiring it unconditionally.
func parseCredentialDocument(body []byte) (Credentials, time.Time, error) {
	var doc credentialDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: malformed response: %w", err)
	}

	if doc.AccessKeyID == "" {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: response missing AccessKeyId")
	}
	if doc.SecretAccessKey == "" {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: response missing SecretAccessKey")
	}

	token := doc.Token
	if token == "" {
		token = doc.SessionToken
	}

	expiration, err := ParseExpiration(doc.Expiration)
	if err != nil {
		return Credentials{}, time.Time{}, err
	}

	creds := Credentials{
		AccessKeyID:     doc.AccessKeyID,
		SecretAccessKey: doc.SecretAccessKey,
		SessionToken:    token,
	}
	return creds, expiration, nil
}

// ParseExpiration parses a credential expiration timestamp strictly as
// YYYY-MM-DDTHH:MM:SSZ in UTC. Every branch returns explicitly.
func ParseExpiration(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("credentials: response missing Expiration")
	}
	t, err := time.Parse(expirationLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("credentials: invalid Expiration %q: %w", s, err)
	}
	return t, nil
}
