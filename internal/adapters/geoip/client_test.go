package geoip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raosunjoy/nexvestxr-backend/internal/adapters/geoip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/83.110.0.1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","country":"United Arab Emirates","countryCode":"AE","timezone":"Asia/Dubai"}`))
	}))
	defer server.Close()

	client, err := geoip.NewClient(server.Client(), server.URL, 100)
	require.NoError(t, err)
	defer client.Close()

	loc, err := client.Lookup(context.Background(), "83.110.0.1")

	require.NoError(t, err)
	assert.Equal(t, "United Arab Emirates", loc.Country)
	assert.Equal(t, "AE", loc.CountryCode)
	assert.Equal(t, "Asia/Dubai", loc.Timezone)
}

func TestLookup_CachesSuccessfulLookups(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"status":"success","country":"Singapore","countryCode":"SG","timezone":"Asia/Singapore"}`))
	}))
	defer server.Close()

	client, err := geoip.NewClient(server.Client(), server.URL, 100)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)

	// Ristretto admits entries asynchronously.
	time.Sleep(20 * time.Millisecond)

	loc, err := client.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "SG", loc.CountryCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLookup_FailureStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer server.Close()

	client, err := geoip.NewClient(server.Client(), server.URL, 100)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Lookup(context.Background(), "203.0.113.9")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved range")
}

func TestLookup_NonRoutableAddrSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client, err := geoip.NewClient(server.Client(), server.URL, 100)
	require.NoError(t, err)
	defer client.Close()

	for _, addr := range []string{"192.168.1.1", "10.0.0.1", "127.0.0.1", "0.0.0.0", "fe80::1", "not-an-ip", ""} {
		_, err = client.Lookup(context.Background(), addr)
		require.Error(t, err, "address %q", addr)
	}
	assert.Equal(t, int32(0), hits.Load())
}

func TestLookup_ServerErrorIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := geoip.NewClient(server.Client(), server.URL, 100)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Lookup(context.Background(), "1.1.1.1")

	require.Error(t, err)
}
