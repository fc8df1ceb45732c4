package protocol

import (
	"encoding/json"
	"io"
)

// Codec frames envelopes on a duplex byte stream, one JSON document per
// line, one envelope per logical request or response.
type Codec struct {
	dec *json.Decoder
	enc *json.Encoder
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		dec: json.NewDecoder(rw),
		enc: json.NewEncoder(rw),
	}
}

// Read blocks until the next envelope arrives. The raw command string is
// normalized through ParseCommand here so the rest of the server only ever
// sees the closed command set. io.EOF signals a closed stream.
func (c *Codec) Read() (Envelope, error) {
	var wire struct {
		Envelope
		Command string `json:"command"`
	}
	if err := c.dec.Decode(&wire); err != nil {
		return Envelope{}, err
	}
	env := wire.Envelope
	env.Command = ParseCommand(wire.Command)
	return env, nil
}

func (c *Codec) Write(env Envelope) error {
	return c.enc.Encode(env)
}
