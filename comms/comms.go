package comms

import (
	"bufio"
	"encoding/json"
	"io"
)

// Message is the wire envelope used in both directions: an event type and
// a JSON payload. Websocket frames carry one message each; the TCP
// gateway frames them one per line.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode wraps a payload into a message of the given type.
func Encode(mtype string, data interface{}) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: mtype, Data: raw}, nil
}

// Decode unmarshals a message's payload into out.
func Decode(msg Message, out interface{}) error {
	if len(msg.Data) == 0 {
		return nil
	}
	return json.Unmarshal(msg.Data, out)
}

// WireError is an error made safe for the wire: a stable code plus a
// human-readable message.
type WireError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *WireError) Error() string { return e.Message }

// WrapError converts any error into a WireError, preserving the code of
// coded errors (game.RuleError and the like).
func WrapError(err error) *WireError {
	if err == nil {
		return nil
	}
	type coded interface{ ErrorCode() string }
	if c, ok := err.(coded); ok {
		return &WireError{Code: c.ErrorCode(), Message: err.Error()}
	}
	return &WireError{Message: err.Error()}
}

// Encoder writes newline-delimited messages to a stream.
type Encoder struct {
	w *bufio.Writer
	j *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	bw := bufio.NewWriter(w)
	return &Encoder{w: bw, j: json.NewEncoder(bw)}
}

// Encode marshals and sends one message.
func (e *Encoder) Encode(mtype string, data interface{}) error {
	msg, err := Encode(mtype, data)
	if err != nil {
		return err
	}
	return e.Send(msg)
}

// Send writes an already-built message.
func (e *Encoder) Send(msg Message) error {
	if err := e.j.Encode(msg); err != nil {
		return err
	}
	return e.w.Flush()
}

// Decoder reads newline-delimited messages from a stream.
type Decoder struct {
	j *json.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{j: json.NewDecoder(r)}
}

// Decode reads the next message, returning io.EOF at end of stream.
func (d *Decoder) Decode() (Message, error) {
	var msg Message
	if err := d.j.Decode(&msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
