package handler

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/an2938/retail-shop/internal/adapter/protocol"
)

type sessionState int

const (
	stateAwaiting sessionState = iota
	stateRouting
	stateHandling
	stateResponding
	stateClosed
)

// Session runs one client connection's request/response loop: block on the
// next envelope, route it, write the single response, repeat. QUIT or any
// stream error moves the session to closed; an in-flight request is never
// cancelled, only the idle wait can be abandoned.
type Session struct {
	codec      *protocol.Codec
	dispatcher *Dispatcher
	remote     string
	state      sessionState
}

func NewSession(rw io.ReadWriter, dispatcher *Dispatcher, remote string) *Session {
	return &Session{
		codec:      protocol.NewCodec(rw),
		dispatcher: dispatcher,
		remote:     remote,
	}
}

// Run processes requests strictly in arrival order until the client quits or
// the stream fails. A failure here closes only this session; the shared
// store and other connections are untouched.
func (s *Session) Run(ctx context.Context) {
	defer func() { s.state = stateClosed }()

	for {
		s.state = stateAwaiting
		req, err := s.codec.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("session %s: read: %v", s.remote, err)
			}
			return
		}

		s.state = stateRouting
		if req.Command == protocol.CmdQuit {
			return
		}

		s.state = stateHandling
		resp, ok := s.dispatcher.Dispatch(ctx, req)
		req.Reset()
		if !ok {
			// Outside the vocabulary: dropped, no response.
			continue
		}

		s.state = stateResponding
		if err := s.codec.Write(resp); err != nil {
			log.Printf("session %s: write: %v", s.remote, err)
			return
		}
	}
}
