package handler

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/an2938/retail-shop/internal/adapter/protocol"
	"github.com/an2938/retail-shop/internal/core/domain"
)

// startSession runs a session over an in-memory pipe and returns the client
// side codec plus a channel that closes when the session loop exits.
func startSession(t *testing.T) (*protocol.Codec, chan struct{}) {
	t.Helper()
	d, _ := newTestDispatcher(t)

	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewSession(server, d, "pipe").Run(context.Background())
	}()
	return protocol.NewCodec(client), done
}

func waitClosed(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not terminate")
	}
}

func TestSession_RequestResponseInOrder(t *testing.T) {
	codec, done := startSession(t)

	for i := 0; i < 3; i++ {
		if err := codec.Write(protocol.Envelope{
			Command: protocol.CmdSearchAll,
			Entity:  protocol.EntityItem,
		}); err != nil {
			t.Fatalf("write: %v", err)
		}
		resp, err := codec.Read()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if resp.Command != protocol.CmdDisplayItem {
			t.Fatalf("expected DISPLAY_ITEM, got %q", resp.Command)
		}
	}

	codec.Write(protocol.Envelope{Command: protocol.CmdQuit})
	waitClosed(t, done)
}

func TestSession_MalformedCommandProducesNoResponse(t *testing.T) {
	codec, done := startSession(t)

	// net.Pipe is synchronous, so encode both requests from a goroutine.
	go func() {
		codec.Write(protocol.Envelope{Command: protocol.CmdUnknown, Entity: protocol.EntityItem})
		codec.Write(protocol.Envelope{
			Command: protocol.CmdSearchByID,
			Entity:  protocol.EntityItem,
			Item:    &domain.Item{ID: 100},
		})
	}()

	// The only response is for the second, well-formed request.
	resp, err := codec.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Command != protocol.CmdDisplayItem {
		t.Errorf("expected DISPLAY_ITEM, got %q", resp.Command)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != 100 {
		t.Errorf("unexpected payload: %+v", resp.Items)
	}

	codec.Write(protocol.Envelope{Command: protocol.CmdQuit})
	waitClosed(t, done)
}

func TestSession_QuitTerminates(t *testing.T) {
	codec, done := startSession(t)

	if err := codec.Write(protocol.Envelope{Command: protocol.CmdQuit}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitClosed(t, done)
}

func TestSession_StreamClosureTerminates(t *testing.T) {
	d, _ := newTestDispatcher(t)

	server, client := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewSession(server, d, "pipe").Run(context.Background())
	}()

	client.Close()
	waitClosed(t, done)
	server.Close()
}
