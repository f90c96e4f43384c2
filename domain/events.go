package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InboundKind selects the variant of an inbound event.
type InboundKind string

const (
	InboundGesture InboundKind = "gesture"
	InboundAudio   InboundKind = "audio"
	InboundButton  InboundKind = "button"
)

// InboundEvent is a parsed device message. It is a tagged variant: exactly
// one of Gesture, Audio, or Button is meaningful depending on Kind.
type InboundEvent struct {
	Kind    InboundKind
	Gesture string
	Audio   []byte // decoded PCM bytes
	Button  string
}

// inboundEnvelope covers all inbound wire shapes; the type field selects
// which of the remaining fields apply.
type inboundEnvelope struct {
	Type    string `json:"type"`
	Gesture string `json:"gesture,omitempty"`
	Data    string `json:"data,omitempty"` // base64 PCM, 16 kHz 16-bit
	Button  string `json:"button,omitempty"`
}

// ParseInbound decodes one text frame into an InboundEvent. Unparseable
// payloads and unknown type fields return ErrMalformedMessage; the caller
// logs and skips them without terminating the session.
func ParseInbound(raw []byte) (InboundEvent, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return InboundEvent{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch InboundKind(env.Type) {
	case InboundGesture:
		return InboundEvent{Kind: InboundGesture, Gesture: env.Gesture}, nil

	case InboundAudio:
		pcm, err := base64.StdEncoding.DecodeString(env.Data)
		if err != nil {
			return InboundEvent{}, fmt.Errorf("%w: bad audio encoding: %v", ErrMalformedMessage, err)
		}
		return InboundEvent{Kind: InboundAudio, Audio: pcm}, nil

	case InboundButton:
		return InboundEvent{Kind: InboundButton, Button: env.Button}, nil

	default:
		return InboundEvent{}, fmt.Errorf("%w: unknown type %q", ErrMalformedMessage, env.Type)
	}
}

// EnrichedKind is the outbound message type of an enriched event.
type EnrichedKind string

const (
	EnrichedGesture EnrichedKind = "response"
	EnrichedVoice   EnrichedKind = "voice_response"
	EnrichedButton  EnrichedKind = "button_response"
)

// EnrichedEvent is the outcome of enriching one inbound event. It is
// immutable once constructed, consumed exactly once by broadcast, and
// never persisted.
type EnrichedEvent struct {
	Kind      EnrichedKind
	Gesture   string // gesture label, for Kind == EnrichedGesture
	Button    string // button id, for Kind == EnrichedButton
	ReplyText string
	Emotion   string
	Animation string
	Timestamp time.Time

	Transcribed string // voice only
	Audio       []byte // voice only; synthesized reply audio, may be empty
}

type gestureResponse struct {
	Type      string `json:"type"`
	Gesture   string `json:"gesture"`
	Text      string `json:"text"`
	Animation string `json:"animation"`
	Emotion   string `json:"emotion"`
	Timestamp string `json:"timestamp"`
	MessageID string `json:"message_id,omitempty"`
}

type voiceResponse struct {
	Type        string `json:"type"`
	Transcribed string `json:"transcribed"`
	Response    string `json:"response"`
	Emotion     string `json:"emotion"`
	Animation   string `json:"animation"`
	Audio       string `json:"audio"` // base64, empty when synthesis was skipped
	Timestamp   string `json:"timestamp"`
	MessageID   string `json:"message_id,omitempty"`
}

type buttonResponse struct {
	Type      string `json:"type"`
	Button    string `json:"button"`
	Response  string `json:"response"`
	Animation string `json:"animation"`
	Emotion   string `json:"emotion"`
	MessageID string `json:"message_id,omitempty"`
}

// MarshalPayload serializes the event to its wire shape. Broadcast calls
// this once and delivers the same bytes to every recipient.
func (e *EnrichedEvent) MarshalPayload() ([]byte, error) {
	id := uuid.NewString()
	ts := e.Timestamp.UTC().Format(time.RFC3339)

	switch e.Kind {
	case EnrichedGesture:
		return json.Marshal(gestureResponse{
			Type:      string(EnrichedGesture),
			Gesture:   e.Gesture,
			Text:      e.ReplyText,
			Animation: e.Animation,
			Emotion:   e.Emotion,
			Timestamp: ts,
			MessageID: id,
		})

	case EnrichedVoice:
		audio := ""
		if len(e.Audio) > 0 {
			audio = base64.StdEncoding.EncodeToString(e.Audio)
		}
		return json.Marshal(voiceResponse{
			Type:        string(EnrichedVoice),
			Transcribed: e.Transcribed,
			Response:    e.ReplyText,
			Emotion:     e.Emotion,
			Animation:   e.Animation,
			Audio:       audio,
			Timestamp:   ts,
			MessageID:   id,
		})

	case EnrichedButton:
		return json.Marshal(buttonResponse{
			Type:      string(EnrichedButton),
			Button:    e.Button,
			Response:  e.ReplyText,
			Animation: e.Animation,
			Emotion:   e.Emotion,
			MessageID: id,
		})

	default:
		return nil, fmt.Errorf("unsupported enriched event kind: %s", e.Kind)
	}
}
