package qbittorrent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAppPreferences(t *testing.T) {
	var body, contentType, method, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		body = string(data)
		contentType = r.Header.Get("Content-Type")
		method = r.Method
		path = r.URL.Path
	})

	err := client.SetAppPreferences(context.Background(), map[string]interface{}{"dht": false})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/v2/app/setPreferences", path)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, `json={"dht":false}`, body)
}

func TestSetAppPreferencesFormDecoding(t *testing.T) {
	var decoded map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseForm()) {
			return
		}
		assert.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("json")), &decoded))
	})

	prefs := map[string]interface{}{
		"web_ui_password": "a+b%41c",
		"save_path":       "/data/a&b c",
	}
	require.NoError(t, client.SetAppPreferences(context.Background(), prefs))

	assert.Equal(t, "a+b%41c", decoded["web_ui_password"])
	assert.Equal(t, "/data/a&b c", decoded["save_path"])
}

func TestSetAppPreferencesDeterministic(t *testing.T) {
	var bodies []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
	})

	prefs := map[string]interface{}{"up_limit": 0, "dht": true, "save_path": "/data"}
	for i := 0; i < 3; i++ {
		require.NoError(t, client.SetAppPreferences(context.Background(), prefs))
	}
	assert.Equal(t, `json={"dht":true,"save_path":"/data","up_limit":0}`, bodies[0])
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestGetAppPreferences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/app/preferences", r.URL.Path)
		_, _ = w.Write([]byte(`{"dht":true,"listen_port":6881,"save_path":"/downloads","web_ui_port":8080,"some_new_key":"x"}`))
	})

	prefs, err := client.GetAppPreferences(context.Background())
	require.NoError(t, err)
	assert.True(t, prefs.Dht)
	assert.Equal(t, 6881, prefs.ListenPort)
	assert.Equal(t, "/downloads", prefs.SavePath)
	require.Contains(t, prefs.Raw, "some_new_key")
	assert.JSONEq(t, `"x"`, string(prefs.Raw["some_new_key"]))
}

func TestVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/app/version":
			_, _ = w.Write([]byte("v4.6.2\n"))
		case "/api/v2/app/webapiVersion":
			_, _ = w.Write([]byte("2.9.3"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4.6.2", v)

	api, err := client.WebAPIVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.9.3", api)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		major   uint64
		minor   uint64
		wantErr bool
	}{
		{input: "v4.6.2", major: 4, minor: 6},
		{input: "2.9", major: 2, minor: 9},
		{input: "5.0.0beta1", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.major, v.Major)
			assert.Equal(t, tt.minor, v.Minor)
		})
	}
}

func TestGetTransferInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/transfer/info", r.URL.Path)
		_, _ = w.Write([]byte(`{"connection_status":"connected","dht_nodes":312,"dl_info_speed":1048576,"up_info_speed":0}`))
	})

	info, err := client.GetTransferInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ConnectionStatusConnected, info.ConnectionStatus)
	assert.Equal(t, int64(312), info.DHTNodes)
	assert.Equal(t, int64(1048576), info.DlInfoSpeed)
}
