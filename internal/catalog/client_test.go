package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/public-menu":
			w.Write([]byte(`{"menu":[{"name":"Coffee","price":149}]}`))
		case "/api/public-services":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/public-locations":
			w.Write([]byte(`{"success":true,"locations":[{"name":"Main"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", time.Second)
	res := c.FetchAll(context.Background())

	require.Len(t, res, 3)

	assert.NoError(t, res[EndpointMenu].Err)
	menu, err := DecodeMenu(res[EndpointMenu].Body)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", menu[0].Name)

	assert.Error(t, res[EndpointServices].Err)
	assert.Contains(t, res[EndpointServices].Err.Error(), "unexpected status 500")

	locs, err := DecodeLocations(res[EndpointLocations].Body)
	require.NoError(t, err)
	assert.Len(t, locs, 1)
}

func TestClient_FetchAll_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/public-menu" {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		w.Write([]byte(`{"success":true,"services":[],"locations":[]}`))
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, 50*time.Millisecond)
	res := c.FetchAll(context.Background())

	assert.Error(t, res[EndpointMenu].Err)
	assert.NoError(t, res[EndpointServices].Err)
	assert.NoError(t, res[EndpointLocations].Err)
}

func TestDecode_Envelopes(t *testing.T) {
	_, err := DecodeServices([]byte(`{"success":false,"services":[{"name":"ATM"}]}`))
	assert.ErrorIs(t, err, ErrUnsuccessful)

	_, err = DecodeLocations([]byte(`{"success":false}`))
	assert.ErrorIs(t, err, ErrUnsuccessful)

	_, err = DecodeMenu([]byte(`not json`))
	assert.Error(t, err)

	svcs, err := DecodeServices([]byte(`{"success":true,"services":[{"name":"ATM","slug":"atm"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "atm", svcs[0].Slug)
}
