package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
	if err != nil {
		t.Fatal(err)
	}
}

func validConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeConfigFile(t, dir, "hub.yaml", `
hub:
  url: ws://hub.local:8123/api/websocket
  token: hub-secret
  reconnectdelay: 5s
  eventtypes:
    - state_changed
`)
	writeConfigFile(t, dir, "influxdb.yaml", `
influxdb:
  url: http://influx.local:8086
  token: influx-secret
  org: home
  bucket: events
  flushinterval: 1s
`)
	writeConfigFile(t, dir, "llm.yaml", `
llm:
  url: http://llm.local:8000/v1/chat/completions
  model: local-8b
`)

	return dir
}

func TestLoadConfigDirMergesComponentFiles(t *testing.T) {
	is := is.New(t)

	dir := validConfigDir(t)
	writeConfigFile(t, dir, "weather.yaml", `
weather:
  apikey: owm-key
  latitude: 57.7
  longitude: 11.97
  cachettl: 300s
`)

	cfg, err := loadConfigDir(dir)
	is.NoErr(err)

	is.Equal(cfg.Hub.URL, "ws://hub.local:8123/api/websocket")
	is.Equal(cfg.Hub.Token, "hub-secret")
	is.Equal(cfg.Hub.ReconnectDelay.std(), 5*time.Second)
	is.Equal(cfg.InfluxDB.Bucket, "events")
	is.Equal(cfg.Weather.CacheTTL.std(), 300*time.Second)

	is.NoErr(cfg.Validate())
}

func TestLoadConfigDirRejectsMalformedDurations(t *testing.T) {
	is := is.New(t)

	dir := t.TempDir()
	writeConfigFile(t, dir, "hub.yaml", `
hub:
  url: ws://hub.local:8123
  token: hub-secret
  reconnectdelay: five seconds
`)

	_, err := loadConfigDir(dir)
	is.True(err != nil)
}

func TestValidateRejectsNonWebsocketHubURL(t *testing.T) {
	is := is.New(t)

	cfg, err := loadConfigDir(validConfigDir(t))
	is.NoErr(err)

	cfg.Hub.URL = "http://hub.local:8123"
	is.True(cfg.Validate() != nil)
}

func TestValidateRejectsEmptyTokens(t *testing.T) {
	is := is.New(t)

	cfg, err := loadConfigDir(validConfigDir(t))
	is.NoErr(err)

	cfg.InfluxDB.Token = ""
	is.True(cfg.Validate() != nil)
}

func TestValidateRejectsOutOfRangeCoordinates(t *testing.T) {
	is := is.New(t)

	cfg, err := loadConfigDir(validConfigDir(t))
	is.NoErr(err)

	cfg.Weather.APIKey = "owm-key"
	cfg.Weather.Latitude = 123.4
	is.True(cfg.Validate() != nil)
}

func TestRESTBaseURLIsDerivedFromChannelURL(t *testing.T) {
	is := is.New(t)

	c := hubConfig{URL: "wss://hub.local:8123/api/websocket"}
	is.Equal(c.restBaseURL(), "https://hub.local:8123")

	c = hubConfig{URL: "ws://hub.local:8123/api/websocket"}
	is.Equal(c.restBaseURL(), "http://hub.local:8123")

	c = hubConfig{URL: "ws://hub.local:8123", RESTBaseURL: "https://proxy.local"}
	is.Equal(c.restBaseURL(), "https://proxy.local")
}
