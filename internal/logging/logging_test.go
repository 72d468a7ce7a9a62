// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the structured logger shared by the CLI and server.
package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.WithField("segments", 3).Debug("resegmented")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "resegmented", entry["msg"])
	assert.Equal(t, float64(3), entry["segments"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped")
	assert.Equal(t, logrus.PanicLevel, logger.GetLevel())
}

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		configured     string
		verbose, quiet bool
		want           string
	}{
		{"", false, false, "info"},
		{"warn", false, false, "warn"},
		{"warn", true, false, "debug"},
		{"warn", false, true, "error"},
		{"", true, true, "debug"},
	}
	for _, tc := range tests {
		if got := LevelFromFlags(tc.configured, tc.verbose, tc.quiet); got != tc.want {
			t.Errorf("LevelFromFlags(%q, %v, %v) = %q, want %q", tc.configured, tc.verbose, tc.quiet, got, tc.want)
		}
	}
}
