package bot

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ghsss/real-time-translator-client/internal/logger"
)

type telegram struct {
	api        *tgbotapi.BotAPI
	handler    Handler
	downloader *http.Client
}

func newTelegram(token string, handler Handler) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &telegram{
		api:        api,
		handler:    handler,
		downloader: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (t *telegram) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)

	logger.Info("telegram bot polling", "user", t.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			inbound := t.toInbound(update.Message)
			logger.Info("message received", "session", inbound.SessionID, "audio", inbound.Audio != nil)

			go t.handler.HandleMessage(ctx, inbound)
		}
	}
}

func (t *telegram) toInbound(msg *tgbotapi.Message) Inbound {
	inbound := Inbound{
		SessionID: telegramSessionID(msg.Chat.ID),
		MessageID: strconv.Itoa(msg.MessageID),
		// group and channel chat ids are negative, private chats positive
		Interactive: msg.Chat.ID > 0,
	}

	switch {
	case msg.Voice != nil:
		inbound.Audio = &Audio{
			FileID:   msg.Voice.FileID,
			Size:     int64(msg.Voice.FileSize),
			MimeType: msg.Voice.MimeType,
		}
	case msg.Audio != nil:
		inbound.Audio = &Audio{
			FileID:   msg.Audio.FileID,
			Size:     int64(msg.Audio.FileSize),
			MimeType: msg.Audio.MimeType,
		}
	}

	return inbound
}

func (t *telegram) SendText(ctx context.Context, sessionID, markup string, opts SendOptions) (string, error) {
	chatID, err := telegramChatID(sessionID)
	if err != nil {
		return "", err
	}

	msg := tgbotapi.NewMessage(chatID, markup)
	msg.ParseMode = tgbotapi.ModeHTML

	if opts.ReplyTo != "" {
		replyTo, err := strconv.Atoi(opts.ReplyTo)
		if err != nil {
			return "", fmt.Errorf("bad reply id %q: %w", opts.ReplyTo, err)
		}
		msg.ReplyToMessageID = replyTo
	}

	sent, err := t.api.Send(msg)
	if err != nil {
		return "", fmt.Errorf("telegram send: %w", err)
	}

	messageID := strconv.Itoa(sent.MessageID)

	if opts.Pin {
		if err := t.Pin(ctx, sessionID, messageID); err != nil {
			logger.Error("pin failed", "session", sessionID, "message", messageID, "error", err)
		}
	}

	return messageID, nil
}

func (t *telegram) SendAudioFile(ctx context.Context, sessionID string, data []byte, opts FileOptions) (string, error) {
	chatID, err := telegramChatID(sessionID)
	if err != nil {
		return "", err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: opts.Filename, Bytes: data})
	doc.Caption = opts.Caption

	if opts.ReplyTo != "" {
		if replyTo, err := strconv.Atoi(opts.ReplyTo); err == nil {
			doc.ReplyToMessageID = replyTo
		}
	}

	sent, err := t.api.Send(doc)
	if err != nil {
		return "", fmt.Errorf("telegram send document: %w", err)
	}

	logger.Info("audio file sent", "session", sessionID, "filename", opts.Filename, "caption", truncate(opts.Caption, 50))

	if sent.Document == nil {
		return "", nil
	}

	return sent.Document.FileID, nil
}

func (t *telegram) SendVoiceNote(ctx context.Context, sessionID, fileRef, contentType string) error {
	chatID, err := telegramChatID(sessionID)
	if err != nil {
		return err
	}

	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileID(fileRef))

	if _, err := t.api.Send(voice); err != nil {
		return fmt.Errorf("telegram send voice: %w", err)
	}

	logger.Info("voice note sent", "session", sessionID)
	return nil
}

func (t *telegram) Pin(ctx context.Context, sessionID, messageID string) error {
	chatID, err := telegramChatID(sessionID)
	if err != nil {
		return err
	}

	msgID, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("bad message id %q: %w", messageID, err)
	}

	_, err = t.api.Request(tgbotapi.PinChatMessageConfig{ChatID: chatID, MessageID: msgID})
	return err
}

func (t *telegram) DownloadAudio(ctx context.Context, audio Audio, destPath string) error {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: audio.FileID})
	if err != nil {
		return fmt.Errorf("telegram get file: %w", err)
	}

	return downloadToFile(ctx, t.downloader, file.Link(t.api.Token), destPath)
}

func telegramSessionID(chatID int64) string {
	return fmt.Sprintf("telegram:%d", chatID)
}

func telegramChatID(sessionID string) (int64, error) {
	raw := strings.TrimPrefix(sessionID, "telegram:")

	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad telegram session id %q: %w", sessionID, err)
	}

	return chatID, nil
}
