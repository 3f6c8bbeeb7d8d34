package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsToInfoOnUnrecognizedLevel(t *testing.T) {
	logger := New("not-a-level")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNew_HonorsExplicitLevel(t *testing.T) {
	logger := New("debug")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNew_WritesJSONToGivenOutput(t *testing.T) {
	logger := New("info")

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Info("hello")

	var decoded map[string]any
	err := json.Unmarshal(buf.Bytes(), &decoded)
	assert.NoError(t, err)
	assert.Equal(t, "hello", decoded["msg"])
}

func TestForDocument_SetsURIAndDialectFields(t *testing.T) {
	logger := New("info")

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	entry := ForDocument(logger, "file:///t.sql", "postgres")
	entry.Info("opened")

	var decoded map[string]any
	err := json.Unmarshal(buf.Bytes(), &decoded)
	assert.NoError(t, err)
	assert.Equal(t, "file:///t.sql", decoded["uri"])
	assert.Equal(t, "postgres", decoded["dialect"])
	assert.Equal(t, "document", decoded["component"])
}

func TestForComponent_SetsComponentField(t *testing.T) {
	logger := New("info")

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	entry := ForComponent(logger, "completion")
	entry.Warn("degraded")

	var decoded map[string]any
	err := json.Unmarshal(buf.Bytes(), &decoded)
	assert.NoError(t, err)
	assert.Equal(t, "completion", decoded["component"])
	assert.Equal(t, "warning", decoded["level"])
}
