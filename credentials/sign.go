// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// PayloadHash returns the hex-encoded SHA-256 digest of body, the payload
// hash SigV4 signing requires. Exposed so callers outside this package
// (the CloudWatch Logs driver) can sign their own requests using the same
// v4 signer this package uses for STS, without duplicating the signer
// construction.
func PayloadHash(body []byte) string {
	return sha256Hex(string(body))
}

func sha256Hex(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Sign SigV4-signs req in place using creds against the given service and
// region, with payloadHash as returned by PayloadHash.
func Sign(ctx context.Context, req *http.Request, creds Credentials, payloadHash, service, region string) error {
	signer := v4.NewSigner()
	sdkCreds := aws.Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
	}
	return signer.SignHTTP(ctx, sdkCreds, req, payloadHash, service, region, nowFunc())
}
