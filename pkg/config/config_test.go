package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobal(t *testing.T) {
	t.Helper()
	globalMu.Lock()
	prev := globalManager
	globalManager = nil
	globalMu.Unlock()

	t.Cleanup(func() {
		globalMu.Lock()
		globalManager = prev
		globalMu.Unlock()
	})
}

func TestGettersBeforeInitialize(t *testing.T) {
	resetGlobal(t)

	assert.False(t, IsInitialized())
	assert.Nil(t, GetMeeting())
	assert.Nil(t, GetBrowser())
	assert.Nil(t, GetUI())
	assert.Nil(t, GetLogging())
	assert.Panics(t, func() { Global() })
}

func TestInitialize(t *testing.T) {
	resetGlobal(t)
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, Initialize(path))

	assert.True(t, IsInitialized())
	require.NotNil(t, GetMeeting())
	require.NotNil(t, GetBrowser())
	require.NotNil(t, GetUI())
	require.NotNil(t, GetLogging())

	var ids []string
	for _, s := range Global().GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{SectionIDMeeting, SectionIDBrowser, SectionIDUI, SectionIDLogging}, ids)
	assert.Equal(t, "A Streamer Bot", GetMeeting().Settings().DisplayName)
}

func TestNew_PersistsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first, err := New(path)
	require.NoError(t, err)

	require.NoError(t, Meeting(first).Update(MeetingSettings{
		DisplayName: "Recorder",
		MeetingURL:  "https://meet.jit.si/standup",
	}))
	require.NoError(t, Browser(first).SetData(map[string]interface{}{
		"headless":           false,
		"heartbeat_interval": "45s",
	}))
	UI(first).SetAppearance(AppearanceLight)
	UI(first).SetSetupRequired(false)
	require.NoError(t, Logging(first).SetLevel("DEBUG"))
	require.NoError(t, first.SaveAll())

	second, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "Recorder", Meeting(second).Settings().DisplayName)
	assert.Equal(t, "https://meet.jit.si/standup", Meeting(second).Settings().MeetingURL)
	assert.False(t, Browser(second).Settings().Headless)
	assert.Equal(t, 45*time.Second, Browser(second).Settings().HeartbeatInterval)
	assert.Equal(t, 1280, Browser(second).Settings().ViewportWidth)
	assert.Equal(t, AppearanceLight, UI(second).GetAppearance())
	assert.False(t, UI(second).IsSetupRequired())
	assert.Equal(t, "debug", Logging(second).Settings().Level)
}

func TestSectionAccessorsOnNilManager(t *testing.T) {
	assert.Nil(t, Meeting(nil))
	assert.Nil(t, Browser(nil))
	assert.Nil(t, UI(nil))
	assert.Nil(t, Logging(nil))
}
