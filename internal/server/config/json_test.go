package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJson_NoFileNamed(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server"}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
}

func TestParseJson_OverlaysFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"endpoint_addr_http": ":7070",
		"database_dsn": "postgres://u:p@db:5432/depot",
		"secret_key": "file-secret",
		"s3_root_user": "root",
		"s3_root_password": "pw",
		"s3_bucket": "bucket",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://minio:9000/",
		"notify_buffer_size": 8
	}`)

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, ":7070", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@db:5432/depot", c.DatabaseDSN)
	assert.Equal(t, "file-secret", c.SecretKey)
	assert.Equal(t, "eu-west-1", c.S3Region)
	assert.Equal(t, 8, c.NotifyBufferSize)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	path := writeConfigFile(t, `{not json`)

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-config", path}

	c := &Config{}
	c.LoadDefaults()
	assert.Panics(t, func() { parseJson(c) })
}

func TestParseJson_MissingFilePanics(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", filepath.Join(t.TempDir(), "absent.json")}

	c := &Config{}
	c.LoadDefaults()
	assert.Panics(t, func() { parseJson(c) })
}
