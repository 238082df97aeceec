/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestNewLoggerIsShared(t *testing.T) {
	a := NewLogger("shared-test")
	b := NewLogger("shared-test")
	assert.Same(t, a, b)

	assert.True(t, SetLoggerLevel("shared-test", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("never-created", "error"))
}

func TestConfigureLogLevel(t *testing.T) {
	existing := NewLogger("configure-existing")
	t.Cleanup(func() { ConfigureLogLevel("info") })

	ConfigureLogLevel("warn")
	assert.Equal(t, logrus.WarnLevel, existing.GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewLogger("configure-later").GetLevel())
}

func newEntry(data logrus.Fields) *logrus.Entry {
	entry := logrus.NewEntry(logrus.New())
	entry.Time = time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	entry.Level = logrus.InfoLevel
	entry.Message = "table ready"
	entry.Data = data
	return entry
}

func TestLog4jColorFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10, DisableColors: true}

	out, err := f.Format(newEntry(logrus.Fields{"table": "users", "elapsed": "1ms"}))
	require.NoError(t, err)

	line := string(out)
	assert.True(t, strings.HasPrefix(line, "2025-01-02 15:04:05.000    INFO "))
	assert.Contains(t, line, "[main]   DATABASE : table ready elapsed=1ms table=users\n")
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "DATABASE"}

	out, err := f.Format(newEntry(logrus.Fields{"table": "users"}))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out), &body))
	assert.Equal(t, "DATABASE", body["logger"])
	assert.Equal(t, "users", body["table"])
	assert.Equal(t, "table ready", body["msg"])
	assert.Equal(t, "info", body["level"])
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("IWS_TEST_INT", "42")
	t.Setenv("IWS_TEST_BAD_INT", "forty")
	t.Setenv("IWS_TEST_BOOL", "true")

	assert.Equal(t, 42, EnvDefaultInt("IWS_TEST_INT", 1))
	assert.Equal(t, 1, EnvDefaultInt("IWS_TEST_BAD_INT", 1))
	assert.True(t, EnvDefaultBool("IWS_TEST_BOOL", false))
	assert.Equal(t, "fallback", EnvDefaultString("IWS_TEST_UNSET", "fallback"))
}
