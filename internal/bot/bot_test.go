package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "carrier-pigeon", Token: "x"}, nil)
	assert.Error(t, err)
}

func TestTelegramSessionIDRoundTrip(t *testing.T) {
	cases := []int64{123456, -654321, 0}

	for _, chatID := range cases {
		sessionID := telegramSessionID(chatID)

		parsed, err := telegramChatID(sessionID)
		require.NoError(t, err)
		assert.Equal(t, chatID, parsed)
	}
}

func TestTelegramChatIDRejectsGarbage(t *testing.T) {
	_, err := telegramChatID("telegram:not-a-number")
	assert.Error(t, err)
}

func TestDiscordSessionIDRoundTrip(t *testing.T) {
	sessionID := discordSessionID("112233445566")
	assert.Equal(t, "discord:112233445566", sessionID)
	assert.Equal(t, "112233445566", discordChannelID(sessionID))
}

func TestStripHTML(t *testing.T) {
	in := "<b><em>Chat restarted.</em></b>"
	assert.Equal(t, "Chat restarted.", stripHTML(in))
}

func TestDownloadToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio payload"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "in.ogg")

	err := downloadToFile(context.Background(), srv.Client(), srv.URL, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "audio payload", string(data))
}

func TestDownloadToFileNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "in.ogg")

	err := downloadToFile(context.Background(), srv.Client(), srv.URL, dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no partial file should be left behind")
}
