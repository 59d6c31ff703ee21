// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2pptx/pkg/types"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.LogConfig
		wantErr string
	}{
		{name: "defaults", cfg: types.LogConfig{}},
		{name: "debug console", cfg: types.LogConfig{Level: "debug", Format: "console"}},
		{name: "upper case level", cfg: types.LogConfig{Level: "INFO", Format: "json"}},
		{name: "bad level", cfg: types.LogConfig{Level: "loud"}, wantErr: "unknown log level"},
		{name: "bad format", cfg: types.LogConfig{Format: "xml"}, wantErr: "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewWithWriter(tt.cfg, &buf)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestDefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(types.LogConfig{}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(types.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("stage")
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "stage", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}
