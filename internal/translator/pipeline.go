package translator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ghsss/real-time-translator-client/internal/bot"
	"github.com/ghsss/real-time-translator-client/internal/logger"
)

type jobState int

const (
	stateReceived jobState = iota
	stateDownloading
	stateTranscoding
	stateSpeechToText
	stateTextToSpeech
	stateDelivering
	stateDone
	stateFailed
)

func (s jobState) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateDownloading:
		return "downloading"
	case stateTranscoding:
		return "transcoding"
	case stateSpeechToText:
		return "speech_to_text"
	case stateTextToSpeech:
		return "text_to_speech"
	case stateDelivering:
		return "delivering"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type job struct {
	id        string
	sessionID string
	state     jobState
	scratch   []string
}

func (j *job) transition(to jobState) {
	j.state = to
	logger.Debug("pipeline state", "job", j.id, "session", j.sessionID, "state", to.String())
}

// runJob drives one admitted request to a terminal state. Whatever happens in
// between, the deferred release frees the admission slot and clears the
// in-flight entry, and the scratch files are removed. A session must never
// stay marked in-flight past its job.
func (s *Service) runJob(ctx context.Context, msg bot.Inbound) {
	j := &job{
		id:        uuid.NewString(),
		sessionID: msg.SessionID,
		state:     stateReceived,
	}

	defer s.admission.Release(msg.SessionID)
	defer s.removeScratch(j)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panic", "job", j.id, "session", msg.SessionID, "panic", r)
			j.transition(stateFailed)
			s.sendText(ctx, msg.SessionID, noticeJobFailed)
			s.registry.Delete(msg.SessionID)
			s.sendRestartNotice(ctx, msg)
		}
	}()

	logger.Info("job started", "job", j.id, "session", msg.SessionID, "size", msg.Audio.Size)

	oggPath := filepath.Join(s.scratchDir, j.id+".ogg")
	mp3Path := filepath.Join(s.scratchDir, j.id+".mp3")
	j.scratch = append(j.scratch, oggPath, mp3Path)

	j.transition(stateDownloading)
	if err := s.transport.DownloadAudio(ctx, *msg.Audio, oggPath); err != nil {
		s.failJob(ctx, j, "audio download failed", err)
		return
	}

	j.transition(stateTranscoding)
	if err := s.converter.Convert(ctx, oggPath, mp3Path); err != nil {
		s.failJob(ctx, j, "transcode failed", err)
		return
	}

	j.transition(stateSpeechToText)
	audio, err := os.ReadFile(mp3Path)
	if err != nil {
		s.failJob(ctx, j, "transcoded audio unreadable", err)
		return
	}

	transcript, err := s.api.SpeechToText(ctx, audio)
	if err != nil {
		s.failJob(ctx, j, "speech-to-text failed", err)
		return
	}

	j.transition(stateTextToSpeech)
	synthesized, err := s.api.TextToSpeech(ctx, transcript)
	if err != nil {
		s.failJob(ctx, j, "text-to-speech failed", err)
		return
	}

	j.transition(stateDelivering)
	s.deliver(ctx, j, msg, transcript, synthesized)

	j.transition(stateDone)
	logger.Info("job finished", "job", j.id, "session", msg.SessionID, "transcript_chars", len(transcript))
}

// deliver sends the success notice, the translated audio as a downloadable
// file with the transcript as caption, and a playable voice note. Delivery
// failures are logged and swallowed; the job still terminates normally.
func (s *Service) deliver(ctx context.Context, j *job, msg bot.Inbound, transcript string, synthesized []byte) {
	s.sendText(ctx, msg.SessionID, noticeDone)

	fileRef, err := s.transport.SendAudioFile(ctx, msg.SessionID, synthesized, bot.FileOptions{
		Caption:     transcript,
		ReplyTo:     msg.MessageID,
		Filename:    "Translation-" + uuid.NewString() + ".mp3",
		ContentType: "audio/mp3",
	})
	if err != nil {
		logger.Error("audio file delivery failed", "job", j.id, "session", msg.SessionID, "error", err)
	} else if fileRef != "" {
		if err := s.transport.SendVoiceNote(ctx, msg.SessionID, fileRef, "audio/mp3"); err != nil {
			logger.Error("voice note delivery failed", "job", j.id, "session", msg.SessionID, "error", err)
		}
	}

	if s.archive != nil {
		if err := s.archive.Upload(ctx, j.id+".mp3", synthesized, "audio/mpeg"); err != nil {
			logger.Error("archive upload failed", "job", j.id, "error", err)
		}
	}
}

// failJob marks the job terminal and tells the user. Cleanup itself happens
// in runJob's defers.
func (s *Service) failJob(ctx context.Context, j *job, reason string, err error) {
	j.transition(stateFailed)
	logger.Error(reason, "job", j.id, "session", j.sessionID, "error", err)
	s.sendText(ctx, j.sessionID, noticeJobFailed)
}

// removeScratch deletes the job's scratch files, best effort.
func (s *Service) removeScratch(j *job) {
	for _, path := range j.scratch {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Error("scratch cleanup failed", "job", j.id, "path", path, "error", err)
		}
	}
}
