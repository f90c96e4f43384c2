package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseInbound_Gesture(t *testing.T) {
	ev, err := ParseInbound([]byte(`{"type":"gesture","gesture":"wave"}`))
	if err != nil {
		t.Fatalf("ParseInbound failed: %v", err)
	}

	if ev.Kind != InboundGesture {
		t.Errorf("Expected kind %q, got %q", InboundGesture, ev.Kind)
	}
	if ev.Gesture != "wave" {
		t.Errorf("Expected gesture 'wave', got %q", ev.Gesture)
	}
}

func TestParseInbound_Audio(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	encoded := base64.StdEncoding.EncodeToString(pcm)

	ev, err := ParseInbound([]byte(`{"type":"audio","data":"` + encoded + `"}`))
	if err != nil {
		t.Fatalf("ParseInbound failed: %v", err)
	}

	if ev.Kind != InboundAudio {
		t.Errorf("Expected kind %q, got %q", InboundAudio, ev.Kind)
	}
	if string(ev.Audio) != string(pcm) {
		t.Errorf("Decoded audio mismatch: got %v", ev.Audio)
	}
}

func TestParseInbound_Button(t *testing.T) {
	ev, err := ParseInbound([]byte(`{"type":"button","button":"A"}`))
	if err != nil {
		t.Fatalf("ParseInbound failed: %v", err)
	}

	if ev.Kind != InboundButton {
		t.Errorf("Expected kind %q, got %q", InboundButton, ev.Kind)
	}
	if ev.Button != "A" {
		t.Errorf("Expected button 'A', got %q", ev.Button)
	}
}

func TestParseInbound_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{not json}`},
		{"unknown type", `{"type":"telemetry","value":42}`},
		{"missing type", `{"gesture":"wave"}`},
		{"bad audio encoding", `{"type":"audio","data":"###not-base64###"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseInbound([]byte(tc.raw))
			if !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("Expected ErrMalformedMessage, got %v", err)
			}
		})
	}
}

func TestMarshalPayload_GestureResponse(t *testing.T) {
	event := &EnrichedEvent{
		Kind:      EnrichedGesture,
		Gesture:   "wave",
		ReplyText: "Hello there!",
		Emotion:   "happy",
		Animation: "wave_back",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := event.MarshalPayload()
	if err != nil {
		t.Fatalf("MarshalPayload failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Payload is not valid JSON: %v", err)
	}

	expectField(t, decoded, "type", "response")
	expectField(t, decoded, "gesture", "wave")
	expectField(t, decoded, "text", "Hello there!")
	expectField(t, decoded, "animation", "wave_back")
	expectField(t, decoded, "emotion", "happy")
	expectField(t, decoded, "timestamp", "2025-06-01T12:00:00Z")

	if decoded["message_id"] == "" {
		t.Error("Expected a generated message_id")
	}
}

func TestMarshalPayload_VoiceResponse(t *testing.T) {
	event := &EnrichedEvent{
		Kind:        EnrichedVoice,
		Transcribed: "hello",
		ReplyText:   "Hi!",
		Emotion:     "happy",
		Animation:   "nod",
		Audio:       []byte("pcm-bytes"),
		Timestamp:   time.Now(),
	}

	payload, err := event.MarshalPayload()
	if err != nil {
		t.Fatalf("MarshalPayload failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Payload is not valid JSON: %v", err)
	}

	expectField(t, decoded, "type", "voice_response")
	expectField(t, decoded, "transcribed", "hello")
	expectField(t, decoded, "response", "Hi!")

	audio, _ := decoded["audio"].(string)
	raw, err := base64.StdEncoding.DecodeString(audio)
	if err != nil || string(raw) != "pcm-bytes" {
		t.Errorf("Audio field not base64 of synthesized bytes: %q", audio)
	}
}

func TestMarshalPayload_VoiceResponseWithoutAudio(t *testing.T) {
	event := &EnrichedEvent{
		Kind:      EnrichedVoice,
		ReplyText: "Hi!",
		Emotion:   "neutral",
		Animation: "nod",
		Timestamp: time.Now(),
	}

	payload, err := event.MarshalPayload()
	if err != nil {
		t.Fatalf("MarshalPayload failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Payload is not valid JSON: %v", err)
	}

	if audio, _ := decoded["audio"].(string); audio != "" {
		t.Errorf("Expected empty audio field, got %q", audio)
	}
}

func TestMarshalPayload_ButtonResponse(t *testing.T) {
	event := &EnrichedEvent{
		Kind:      EnrichedButton,
		Button:    "A",
		ReplyText: "Button A pressed!",
		Emotion:   "happy",
		Animation: "wave",
		Timestamp: time.Now(),
	}

	payload, err := event.MarshalPayload()
	if err != nil {
		t.Fatalf("MarshalPayload failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Payload is not valid JSON: %v", err)
	}

	expectField(t, decoded, "type", "button_response")
	expectField(t, decoded, "button", "A")
	expectField(t, decoded, "response", "Button A pressed!")
	expectField(t, decoded, "animation", "wave")
	expectField(t, decoded, "emotion", "happy")
}

func TestLookupGesture(t *testing.T) {
	known := map[string]string{
		"wave":       "wave_back",
		"flick":      "scroll_gesture",
		"shake":      "shake_head",
		"tilt_left":  "look_left",
		"tilt_right": "look_right",
		"rotate_cw":  "spin_right",
		"rotate_ccw": "spin_left",
	}

	for label, animation := range known {
		if got := LookupGesture(label).Animation; got != animation {
			t.Errorf("LookupGesture(%q).Animation = %q, want %q", label, got, animation)
		}
	}

	if got := LookupGesture("moonwalk"); got != IdleIntent {
		t.Errorf("Unknown gesture should return IdleIntent, got %+v", got)
	}
}

func TestLookupButton(t *testing.T) {
	if got := LookupButton("A"); got.Text != "Button A pressed!" || got.Animation != "wave" {
		t.Errorf("Unexpected reply for button A: %+v", got)
	}
	if got := LookupButton("B"); got.Text != "Button B pressed!" || got.Animation != "point" {
		t.Errorf("Unexpected reply for button B: %+v", got)
	}
	if got := LookupButton("C"); got.Text != "" || got.Animation != "idle" {
		t.Errorf("Unknown button should degrade to empty/idle, got %+v", got)
	}
}

func expectField(t *testing.T, decoded map[string]interface{}, key, want string) {
	t.Helper()
	if got, _ := decoded[key].(string); got != want {
		t.Errorf("Field %q = %q, want %q", key, got, want)
	}
}
