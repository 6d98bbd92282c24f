package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/ghsss/real-time-translator-client/internal/logger"
)

type discord struct {
	session    *discordgo.Session
	handler    Handler
	downloader *http.Client
	ctx        context.Context
}

func newDiscord(token string, handler Handler) (Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	d := &discord{
		session:    session,
		handler:    handler,
		downloader: &http.Client{Timeout: 60 * time.Second},
	}

	session.AddHandler(d.handleMessage)

	return d, nil
}

func (d *discord) Start(ctx context.Context) error {
	d.ctx = ctx

	if err := d.session.Open(); err != nil {
		return err
	}

	logger.Info("discord bot connected")

	<-ctx.Done()
	return d.session.Close()
}

func (d *discord) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	inbound := Inbound{
		SessionID: discordSessionID(m.ChannelID),
		MessageID: m.ID,
		// DMs carry no guild id
		Interactive: m.GuildID == "",
	}

	for _, att := range m.Attachments {
		if strings.HasPrefix(att.ContentType, "audio/") {
			inbound.Audio = &Audio{
				FileID:   att.URL,
				Size:     int64(att.Size),
				MimeType: att.ContentType,
			}
			break
		}
	}

	logger.Info("message received", "session", inbound.SessionID, "audio", inbound.Audio != nil)

	go d.handler.HandleMessage(d.ctx, inbound)
}

func (d *discord) SendText(ctx context.Context, sessionID, markup string, opts SendOptions) (string, error) {
	channelID := discordChannelID(sessionID)

	send := &discordgo.MessageSend{Content: stripHTML(markup)}
	if opts.ReplyTo != "" {
		send.Reference = &discordgo.MessageReference{MessageID: opts.ReplyTo, ChannelID: channelID}
	}

	sent, err := d.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return "", fmt.Errorf("discord send: %w", err)
	}

	if opts.Pin {
		if err := d.Pin(ctx, sessionID, sent.ID); err != nil {
			logger.Error("pin failed", "session", sessionID, "message", sent.ID, "error", err)
		}
	}

	return sent.ID, nil
}

func (d *discord) SendAudioFile(ctx context.Context, sessionID string, data []byte, opts FileOptions) (string, error) {
	channelID := discordChannelID(sessionID)

	send := &discordgo.MessageSend{
		Content: opts.Caption,
		Files: []*discordgo.File{
			{
				Name:        opts.Filename,
				ContentType: opts.ContentType,
				Reader:      bytes.NewReader(data),
			},
		},
	}
	if opts.ReplyTo != "" {
		send.Reference = &discordgo.MessageReference{MessageID: opts.ReplyTo, ChannelID: channelID}
	}

	sent, err := d.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return "", fmt.Errorf("discord send file: %w", err)
	}

	logger.Info("audio file sent", "session", sessionID, "filename", opts.Filename)

	if len(sent.Attachments) == 0 {
		return "", nil
	}

	return sent.Attachments[0].URL, nil
}

// SendVoiceNote falls back to a second file send: Discord has no voice-note
// primitive for bots, so the uploaded attachment is fetched back and re-sent.
func (d *discord) SendVoiceNote(ctx context.Context, sessionID, fileRef, contentType string) error {
	channelID := discordChannelID(sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileRef, nil)
	if err != nil {
		return fmt.Errorf("build voice note request: %w", err)
	}

	resp, err := d.downloader.Do(req)
	if err != nil {
		return fmt.Errorf("fetch voice note source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch voice note source: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read voice note source: %w", err)
	}

	_, err = d.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{
			{
				Name:        "voice-note.mp3",
				ContentType: contentType,
				Reader:      bytes.NewReader(data),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("discord send voice note: %w", err)
	}

	logger.Info("voice note sent", "session", sessionID)
	return nil
}

func (d *discord) Pin(ctx context.Context, sessionID, messageID string) error {
	return d.session.ChannelMessagePin(discordChannelID(sessionID), messageID)
}

func (d *discord) DownloadAudio(ctx context.Context, audio Audio, destPath string) error {
	return downloadToFile(ctx, d.downloader, audio.FileID, destPath)
}

func discordSessionID(channelID string) string {
	return fmt.Sprintf("discord:%s", channelID)
}

func discordChannelID(sessionID string) string {
	return strings.TrimPrefix(sessionID, "discord:")
}
