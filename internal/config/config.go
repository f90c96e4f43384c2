package config

import (
	"os"
	"strconv"
	"time"
)

const defaultPersona = `You are a friendly AI companion living on a wearable device. ` +
	`You are enthusiastic, helpful, and engaging. Keep responses brief (1-2 sentences). ` +
	`You detect the user's gestures and respond appropriately with emotion and personality.`

// Config gathers the server's environment-driven settings. Capability keys
// decide once at startup which implementations are wired in; an empty key
// leaves that capability absent and the pipeline on its fallback.
type Config struct {
	Port      string
	StaticDir string

	AudioSampleRate    int
	AudioBufferSeconds int
	AudioLanguage      string

	CapabilityTimeout time.Duration
	PersonaPrompt     string

	GeminiAPIKey     string
	GoogleSpeechSTT  bool // uses application default credentials
	ElevenLabsAPIKey string
	MockCapabilities bool // wire canned adapters for offline runs
}

// Load reads configuration from the environment, applying defaults for
// anything unset. It never fails; bad numeric values fall back to defaults.
func Load() Config {
	return Config{
		Port:      getString("PORT", "8765"),
		StaticDir: getString("STATIC_DIR", "frontend"),

		AudioSampleRate:    getInt("AUDIO_SAMPLE_RATE", 16000),
		AudioBufferSeconds: getInt("AUDIO_BUFFER_SECONDS", 5),
		AudioLanguage:      getString("AUDIO_LANGUAGE", "en-US"),

		CapabilityTimeout: time.Duration(getInt("CAPABILITY_TIMEOUT_SECONDS", 30)) * time.Second,
		PersonaPrompt:     getString("PERSONA_PROMPT", defaultPersona),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GoogleSpeechSTT:  getBool("GOOGLE_SPEECH_STT", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != ""),
		ElevenLabsAPIKey: os.Getenv("ELEVEN_LABS_API_KEY"),
		MockCapabilities: getBool("MOCK_CAPABILITIES", false),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
