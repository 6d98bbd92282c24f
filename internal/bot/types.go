package bot

import "context"

// Bot is the chat transport consumed by the translator core. Session ids are
// provider-prefixed ("telegram:123", "discord:456") and message ids are the
// provider's own, carried as opaque strings.
type Bot interface {
	Start(ctx context.Context) error
	SendText(ctx context.Context, sessionID, markup string, opts SendOptions) (messageID string, err error)
	SendAudioFile(ctx context.Context, sessionID string, data []byte, opts FileOptions) (fileRef string, err error)
	SendVoiceNote(ctx context.Context, sessionID, fileRef, contentType string) error
	Pin(ctx context.Context, sessionID, messageID string) error
	DownloadAudio(ctx context.Context, audio Audio, destPath string) error
}

// Handler receives every inbound message. The translator service implements
// this; the transport never decides anything itself.
type Handler interface {
	HandleMessage(ctx context.Context, msg Inbound)
}

// Inbound is one received chat message, reduced to what the core needs.
type Inbound struct {
	SessionID string
	MessageID string
	// Interactive is true for 1:1 conversations, false for groups.
	Interactive bool
	// Audio is nil when the message carries no audio attachment.
	Audio *Audio
}

// Audio describes an inbound audio attachment. FileID is the provider's
// handle for fetching the payload (Telegram file id, Discord attachment URL).
type Audio struct {
	FileID   string
	Size     int64
	MimeType string
}

type SendOptions struct {
	ReplyTo string
	Pin     bool
}

type FileOptions struct {
	Caption     string
	ReplyTo     string
	Filename    string
	ContentType string
}

type Config struct {
	Provider string
	Token    string
}
