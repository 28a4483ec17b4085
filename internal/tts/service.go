package tts

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/loqalabs/loqa-sam/internal/bus"
	"github.com/loqalabs/loqa-sam/internal/config"
	"github.com/loqalabs/loqa-sam/internal/protocol"
	"github.com/nats-io/nats.go"
)

type Service struct {
	cfg    config.TTSConfig
	bus    *bus.Client
	synth  Synthesizer
	sub    *nats.Subscription
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

func NewService(parent context.Context, cfg config.TTSConfig, busClient *bus.Client, synth Synthesizer, log *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)
	return &Service{
		cfg:    cfg,
		bus:    busClient,
		synth:  synth,
		ctx:    ctx,
		cancel: cancel,
		logger: log.With(slog.String("component", "tts-service")),
	}
}

func (s *Service) Start() error {
	if !s.cfg.Enabled {
		return nil
	}
	sub, err := s.bus.Conn().Subscribe(protocol.SubjectTTSRequest, s.handleRequest)
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

func (s *Service) Close() {
	s.cancel()
	if s.sub != nil {
		_ = s.sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool { return !s.cfg.Enabled || s.sub != nil }

func (s *Service) timeout() time.Duration {
	if s.cfg.TimeoutMS <= 0 {
		return 45 * time.Second
	}
	return time.Duration(s.cfg.TimeoutMS) * time.Millisecond
}

func (s *Service) handleRequest(msg *nats.Msg) {
	var req protocol.TTSRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode tts request", slogError(err))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(s.ctx, s.timeout())
		defer cancel()

		chunks, errs := s.synth.Synthesize(ctx, SynthRequest{
			SessionID: req.SessionID,
			Text:      req.Text,
			Voice:     req.Voice,
			Phonetic:  req.Phonetic,
		})
		sequence := 0
		var synthErr error
		for chunks != nil || errs != nil {
			select {
			case chunk, ok := <-chunks:
				if !ok {
					chunks = nil
					continue
				}
				chunk.Sequence = sequence
				sequence++
				s.publishChunk(req, chunk)
			case err, ok := <-errs:
				if ok && err != nil {
					synthErr = err
				}
				errs = nil
			case <-ctx.Done():
				synthErr = ctx.Err()
				chunks, errs = nil, nil
			}
		}
		if synthErr != nil {
			s.logger.Warn("tts synthesis error",
				slog.String("session_id", req.SessionID),
				slog.String("voice", req.Voice),
				slogError(synthErr),
			)
			s.publishStatus(req, sequence, synthErr)
		}
	}()
}

func (s *Service) publishChunk(req protocol.TTSRequest, chunk SynthChunk) {
	packet := protocol.AudioChunk{
		SessionID:  req.SessionID,
		Target:     req.Target,
		SampleRate: chunk.SampleRate,
		Channels:   chunk.Channels,
		BitDepth:   chunk.BitDepth,
		Sequence:   chunk.Sequence,
		PCM:        chunk.PCM,
		Final:      chunk.Final,
	}
	data, err := json.Marshal(packet)
	if err != nil {
		s.logger.Warn("failed to marshal tts chunk", slogError(err))
		return
	}
	if err := s.bus.Conn().Publish(protocol.SubjectTTSAudio, data); err != nil {
		s.logger.Warn("failed to publish tts chunk", slogError(err))
	}
	if chunk.Final {
		s.publishStatus(req, chunk.Sequence+1, nil)
	}
}

func (s *Service) publishStatus(req protocol.TTSRequest, chunks int, err error) {
	status := protocol.TTSStatus{
		SessionID: req.SessionID,
		Target:    req.Target,
		Completed: err == nil,
		Chunks:    chunks,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	data, mErr := json.Marshal(status)
	if mErr != nil {
		s.logger.Warn("failed to marshal tts status", slogError(mErr))
		return
	}
	if pErr := s.bus.Conn().Publish(protocol.SubjectTTSDone, data); pErr != nil {
		s.logger.Warn("failed to publish tts status", slogError(pErr))
	}
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
