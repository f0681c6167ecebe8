package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		dumpJSON = false
		devMode = false
	})

	err := rootCmd.Execute()

	return out.String(), err
}

func TestConfigDump(t *testing.T) {
	out, err := execute(t, "config", "dump", "--config", "../etc/")
	require.NoError(t, err)
	assert.Contains(t, out, "[webserver]")
	assert.Contains(t, out, "cacheBackend = 'memory'")
}

func TestConfigDumpJSON(t *testing.T) {
	out, err := execute(t, "config", "dump", "--json", "--config", "../etc/", "--dev")
	require.NoError(t, err)

	var dumped map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &dumped))
	assert.Equal(t, true, dumped["DevMode"])
}

func TestProvisionRequiresFlags(t *testing.T) {
	_, err := execute(t, "provision", "--config", "../etc/")
	assert.ErrorIs(t, err, errProvisionFlags)
}
