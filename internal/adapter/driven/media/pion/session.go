package pion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/Wyydra/callbridge/internal/core/port"
	"github.com/google/uuid"
	"github.com/pion/rtcp"
	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const gatherTimeout = 2 * time.Second

// Engine answers inbound offers with pion peer connections. It implements
// port.MediaEngine.
type Engine struct {
	api        *webrtc.API
	iceServers []webrtc.ICEServer
}

func NewEngine(stunURLs []string) (*Engine, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}
	api := webrtc.NewAPI(webrtc.WithMediaEngine(m))

	var servers []webrtc.ICEServer
	if len(stunURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: stunURLs})
	}

	return &Engine{api: api, iceServers: servers}, nil
}

func (e *Engine) Connect(ctx context.Context, offer domain.SessionDescription) (port.MediaSession, error) {
	// Reject structurally broken offers before paying for a peer connection.
	var parsed sdp.SessionDescription
	if err := parsed.Unmarshal([]byte(offer.SDP)); err != nil {
		return nil, fmt.Errorf("invalid offer sdp: %w", err)
	}

	pc, err := e.api.NewPeerConnection(webrtc.Configuration{ICEServers: e.iceServers})
	if err != nil {
		return nil, err
	}

	s := &Session{id: uuid.NewString(), pc: pc}

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Debug().Str("session_id", s.id).Str("state", state.String()).Msg("Peer connection state changed")
		switch state {
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			s.fireClosed()
		}
	})

	pc.OnTrack(func(remote *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		log.Debug().Str("session_id", s.id).Str("kind", remote.Kind().String()).Msg("Received remote track")

		// Media bridging lives elsewhere; drain the track so the transport
		// does not back up.
		go func() {
			buf := make([]byte, 1500)
			for {
				if _, _, err := remote.Read(buf); err != nil {
					return
				}
			}
		}()

		if remote.Kind() == webrtc.RTPCodecTypeVideo {
			go s.keyframeLoop(remote)
		}
	})

	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.NewSDPType(offer.Type),
		SDP:  offer.SDP,
	}); err != nil {
		pc.Close()
		return nil, err
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		pc.Close()
		return nil, err
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		pc.Close()
		return nil, err
	}

	// Wait for candidate gathering so the answer is complete; a slow gather
	// falls back to whatever has been collected.
	gatherCtx, cancel := context.WithTimeout(ctx, gatherTimeout)
	defer cancel()
	select {
	case <-webrtc.GatheringCompletePromise(pc):
	case <-gatherCtx.Done():
	}

	return s, nil
}

// Session is a single answered peer connection. It implements
// port.MediaSession.
type Session struct {
	id string
	pc *webrtc.PeerConnection

	mu       sync.Mutex
	closed   bool
	notified bool
	onClosed []func()
}

func (s *Session) ID() string { return s.id }

func (s *Session) Answer() string {
	if desc := s.pc.LocalDescription(); desc != nil {
		return desc.SDP
	}
	return ""
}

func (s *Session) Disconnect() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	log.Debug().Str("session_id", s.id).Msg("Closing peer connection")
	return s.pc.Close()
}

func (s *Session) OnClosed(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClosed = append(s.onClosed, handler)
}

// fireClosed runs the closed handlers once, and only for closures the peer
// initiated; a local Disconnect marks the session closed first and wins.
func (s *Session) fireClosed() {
	s.mu.Lock()
	if s.closed || s.notified {
		s.mu.Unlock()
		return
	}
	s.notified = true
	handlers := make([]func(), len(s.onClosed))
	copy(handlers, s.onClosed)
	s.mu.Unlock()

	for _, handler := range handlers {
		handler()
	}
}

// keyframeLoop sends a PLI every few seconds so the remote video decoder can
// recover after loss.
func (s *Session) keyframeLoop(remote *webrtc.TrackRemote) {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if s.pc.ConnectionState() == webrtc.PeerConnectionStateClosed {
			return
		}
		if err := s.pc.WriteRTCP([]rtcp.Packet{
			&rtcp.PictureLossIndication{MediaSSRC: uint32(remote.SSRC())},
		}); err != nil {
			return
		}
	}
}
