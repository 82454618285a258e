package log

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	Init("porch", "test", true, false)
	var buf bytes.Buffer
	Log.Logger.SetOutput(&buf)
	defer Log.Logger.SetOutput(os.Stderr)

	WithServer("https://jenkins.example.com").Info("synced")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "synced", entry["message"])
	assert.Equal(t, "https://jenkins.example.com", entry[ServerField])
}

func TestSetLevel(t *testing.T) {
	Init("porch", "test", false, false)
	SetLevel("warning")
	assert.Equal(t, logrus.WarnLevel, Log.Logger.GetLevel())

	SetLevel("nonsense")
	assert.Equal(t, logrus.WarnLevel, Log.Logger.GetLevel())

	Init("porch", "test", false, true)
	assert.Equal(t, logrus.DebugLevel, Log.Logger.GetLevel())
	SetLevel("info")
}
