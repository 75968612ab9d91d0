package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/Wyydra/callbridge/internal/core/port"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CallService bridges provider webhook events onto managed media sessions.
// The registry is its only shared state; sessions enter it exactly once, after
// both handshake steps succeeded, and leave it only through HandleWebhook
// terminate handling or TerminateAll.
type CallService struct {
	engine   port.MediaEngine
	gateway  port.SignalingGateway
	registry port.CallRegistry
	events   port.EventSink
}

func NewCallService(engine port.MediaEngine, gateway port.SignalingGateway, registry port.CallRegistry, events port.EventSink) *CallService {
	return &CallService{
		engine:   engine,
		gateway:  gateway,
		registry: registry,
		events:   events,
	}
}

// HandleWebhook dispatches the first supported call event in the request and
// returns its result: the live session for a connect, a nil session for an
// acknowledged terminate. Requests with no supported event fail with
// domain.ErrUnsupportedEvent.
func (s *CallService) HandleWebhook(ctx context.Context, req domain.WebhookRequest) (port.MediaSession, error) {
	for _, entry := range req.Entry {
		for _, change := range entry.Changes {
			switch value := change.Value.(type) {
			case domain.ConnectValue:
				for _, call := range value.Calls {
					if call.Event == domain.EventConnect {
						return s.handleConnect(ctx, call)
					}
				}
			case domain.TerminateValue:
				for _, call := range value.Calls {
					if call.Event == domain.EventTerminate {
						return nil, s.handleTerminate(ctx, call)
					}
				}
			}
		}
	}
	return nil, domain.ErrUnsupportedEvent
}

func (s *CallService) handleConnect(ctx context.Context, call domain.ConnectCall) (port.MediaSession, error) {
	l := log.With().Str("call_id", call.ID).Str("from", call.From).Logger()
	l.Info().Msg("Incoming call")

	session, err := s.engine.Connect(ctx, call.Session)
	if err != nil {
		l.Error().Err(err).Msg("Failed to initialize media session")
		return nil, fmt.Errorf("%w: %v", domain.ErrMediaInit, err)
	}

	answer := domain.FilterAnswerSDP(session.Answer())

	if err := s.gateway.AnswerCall(ctx, call.ID, domain.ActionPreAccept, answer, call.From); err != nil {
		l.Error().Err(err).Msg("Failed to pre-accept call")
		s.disconnect(l, session)
		return nil, fmt.Errorf("%w: %v", domain.ErrPreAcceptRejected, err)
	}

	if err := s.gateway.AnswerCall(ctx, call.ID, domain.ActionAccept, answer, call.From); err != nil {
		l.Error().Err(err).Msg("Failed to accept call")
		s.disconnect(l, session)
		return nil, fmt.Errorf("%w: %v", domain.ErrAcceptRejected, err)
	}

	if err := s.registry.Register(call.ID, session); err != nil {
		l.Error().Err(err).Msg("Failed to register call session")
		s.disconnect(l, session)
		return nil, err
	}

	session.OnClosed(func() {
		// Removal stays with terminate handling and TerminateAll; pulling the
		// entry here would race a concurrent terminate for the same call id.
		l.Info().Str("session_id", session.ID()).Msg("Peer has disconnected")
		s.publish(domain.CallUpdate{CallID: call.ID, Stage: domain.StagePeerClosed})
	})

	l.Info().Str("session_id", session.ID()).Msg("Call accepted")
	s.publish(domain.CallUpdate{CallID: call.ID, Stage: domain.StageAccepted, From: call.From})
	return session, nil
}

func (s *CallService) handleTerminate(ctx context.Context, call domain.TerminateCall) error {
	l := log.With().Str("call_id", call.ID).Str("status", call.Status).Logger()
	if call.Duration > 0 {
		l = l.With().Int("duration_s", call.Duration).Logger()
	}
	l.Info().Msg("Call terminated by provider")

	// The event itself is authoritative; a terminate for an unknown or
	// already cleaned-up call is acknowledged as-is.
	session, ok := s.registry.Remove(call.ID)
	if !ok {
		return nil
	}

	s.disconnect(l, session)
	s.publish(domain.CallUpdate{CallID: call.ID, Stage: domain.StageTerminated, From: call.From})
	return nil
}

// TerminateAll drains the registry and terminates every drained call: the
// provider-side terminate and the local disconnect run concurrently for all
// entries, individual failures are logged and never abort the batch.
func (s *CallService) TerminateAll(ctx context.Context) {
	entries := s.registry.DrainAll()
	if len(entries) == 0 {
		log.Info().Msg("No ongoing calls to terminate")
		return
	}

	log.Info().Int("count", len(entries)).Msg("Terminating all ongoing calls")

	var wg sync.WaitGroup
	for _, entry := range entries {
		entry := entry
		l := log.With().Str("call_id", entry.CallID).Logger()

		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := s.gateway.TerminateCall(ctx, entry.CallID); err != nil {
				l.Error().Err(err).Msg("Failed to terminate call with provider")
			}
		}()
		go func() {
			defer wg.Done()
			s.disconnect(l, entry.Session)
			s.publish(domain.CallUpdate{CallID: entry.CallID, Stage: domain.StageTerminated})
		}()
	}
	wg.Wait()

	log.Info().Msg("All calls terminated")
}

func (s *CallService) disconnect(l zerolog.Logger, session port.MediaSession) {
	if err := session.Disconnect(); err != nil {
		l.Warn().Err(err).Msg("Error disconnecting media session")
	}
}

func (s *CallService) publish(update domain.CallUpdate) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.Background(), update); err != nil {
		log.Warn().Err(err).Str("call_id", update.CallID).Msg("Failed to publish call update")
	}
}
