// Package translator drives admitted translation jobs through the pipeline
// and owns every user-facing decision notice.
package translator

import (
	"context"
	"fmt"

	"github.com/ghsss/real-time-translator-client/internal/admission"
	"github.com/ghsss/real-time-translator-client/internal/bot"
	"github.com/ghsss/real-time-translator-client/internal/logger"
	"github.com/ghsss/real-time-translator-client/internal/session"
	"github.com/ghsss/real-time-translator-client/internal/transcode"
)

const defaultMaxAudioBytes = 10_200_000

// TranslationAPI is the remote translation service.
type TranslationAPI interface {
	SpeechToText(ctx context.Context, audio []byte) (string, error)
	TextToSpeech(ctx context.Context, text string) ([]byte, error)
}

// Archiver keeps a copy of delivered translations. Optional; best effort.
type Archiver interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
}

type Config struct {
	ScratchDir    string
	MaxAudioBytes int64
}

type Service struct {
	transport bot.Bot
	registry  *session.Registry
	inflight  *session.InFlight
	admission *admission.Controller
	converter transcode.Converter
	api       TranslationAPI
	archive   Archiver

	scratchDir    string
	maxAudioBytes int64
}

func New(cfg Config, registry *session.Registry, inflight *session.InFlight, ctrl *admission.Controller, converter transcode.Converter, api TranslationAPI) *Service {
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = defaultMaxAudioBytes
	}

	return &Service{
		registry:      registry,
		inflight:      inflight,
		admission:     ctrl,
		converter:     converter,
		api:           api,
		scratchDir:    cfg.ScratchDir,
		maxAudioBytes: cfg.MaxAudioBytes,
	}
}

// SetTransport wires the chat transport. The bot and the service reference
// each other, so the transport lands here after construction.
func (s *Service) SetTransport(b bot.Bot) {
	s.transport = b
}

// SetArchive enables archiving of delivered translations.
func (s *Service) SetArchive(a Archiver) {
	s.archive = a
}

// HandleMessage is the entry point for every inbound chat message. It runs
// the admission ladder and, on acceptance, the whole pipeline.
func (s *Service) HandleMessage(ctx context.Context, msg bot.Inbound) {
	sessionID := msg.SessionID

	if msg.Audio == nil {
		s.sendText(ctx, sessionID, noticeAudioOnly)
		return
	}

	// size gate runs before admission is even attempted
	if msg.Audio.Size <= 0 || msg.Audio.Size > s.maxAudioBytes {
		logger.Info("audio rejected for size", "session", sessionID, "size", msg.Audio.Size)
		s.sendText(ctx, sessionID, noticeSizeLimit)
		return
	}

	res := s.admission.Decide(sessionID, msg.Interactive)
	logger.Info("admission decision", "session", sessionID, "decision", res.Decision.String(), "active", res.Active, "limit", res.Limit)

	switch res.Decision {
	case admission.RejectedBusy:
		s.sendText(ctx, sessionID, noticeBusy)
		s.sendRestartNotice(ctx, msg)

	case admission.RejectedRateLimited:
		s.sendText(ctx, sessionID, noticeRateLimited)

	case admission.Queued:
		s.sendText(ctx, sessionID, fmt.Sprintf(noticeQueued, res.Active, res.Limit))
		s.sendRestartNotice(ctx, msg)

	case admission.RejectedAlreadyQueued:
		s.sendText(ctx, sessionID, fmt.Sprintf(noticeAlreadyQueued, res.Active, res.Limit))
		s.sendRestartNotice(ctx, msg)

	case admission.Accepted:
		s.inflight.Add(sessionID)
		s.runJob(ctx, msg)
	}
}

// Reset destroys the session entry. Interactive sessions are told the chat
// restarted; group sessions are reset silently. Neither the in-flight set
// nor the waiting queue is touched.
func (s *Service) Reset(ctx context.Context, sessionID string) {
	entry, ok := s.registry.Lookup(sessionID)
	s.registry.Delete(sessionID)

	if ok && entry.Interactive {
		s.sendText(ctx, sessionID, noticeChatRestarted)
	}
}

// sendRestartNotice is the notice half of a reset whose registry delete
// already happened inside the admission decision.
func (s *Service) sendRestartNotice(ctx context.Context, msg bot.Inbound) {
	if msg.Interactive {
		s.sendText(ctx, msg.SessionID, noticeChatRestarted)
	}
}

// sendText delivers a notice, logging and swallowing transport errors so a
// failed send never takes down a sweep, a drain pass, or a pipeline.
func (s *Service) sendText(ctx context.Context, sessionID, text string) {
	if _, err := s.transport.SendText(ctx, sessionID, text, bot.SendOptions{}); err != nil {
		logger.Error("notice send failed", "session", sessionID, "error", err)
	}
}
