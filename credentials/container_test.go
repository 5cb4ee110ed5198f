// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: MIT

package credentials

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerProvider_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/credentials/abc", r.URL.Path)
		fmt.Fprint(w, `{"AccessKeyId":"AKID","SecretAccessKey":"secret","Token":"sess","Expiration":"2099-01-01T00:00:00Z"}`)
	}))
	defer srv.Close()

	p := NewContainerProvider(strings.TrimPrefix(srv.URL, "http://"), "/v2/credentials/abc")
	creds, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
	assert.Equal(t, "sess", creds.SessionToken)
}

func TestContainerProvider_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewContainerProvider(strings.TrimPrefix(srv.URL, "http://"), "/v2/credentials/abc")
	_, err := p.Fetch(context.Background())
	require.Error(t, err)
}

func TestNewECSContainerProvider_Unset(t *testing.T) {
	t.Setenv(ecsRelativeURIEnvar, "")
	_, err := NewECSContainerProvider()
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewECSContainerProvider_Set(t *testing.T) {
	t.Setenv(ecsRelativeURIEnvar, "/v2/credentials/abc")
	p, err := NewECSContainerProvider()
	require.NoError(t, err)
	assert.Equal(t, ecsCredentialsHost, p.host)
	assert.Equal(t, "/v2/credentials/abc", p.path)
}
