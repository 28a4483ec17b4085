package protocol

import "time"

// TTSRequest asks the synthesis service to speak text.
type TTSRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Voice     string `json:"voice,omitempty"`
	Target    string `json:"target,omitempty"`
	// Phonetic marks Text as phonetic input that skips transcription.
	Phonetic bool `json:"phonetic,omitempty"`
}

// AudioChunk carries a slice of rendered PCM. Chunks of one session share
// a format and are numbered from zero; the last one is Final.
type AudioChunk struct {
	SessionID  string `json:"session_id"`
	Target     string `json:"target,omitempty"`
	Sequence   int    `json:"sequence"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitDepth   int    `json:"bit_depth"`
	PCM        []byte `json:"pcm"`
	Final      bool   `json:"final"`
}

// TTSStatus reports the end of a synthesis session.
type TTSStatus struct {
	SessionID string    `json:"session_id"`
	Target    string    `json:"target,omitempty"`
	Completed bool      `json:"completed"`
	Error     string    `json:"error,omitempty"`
	Chunks    int       `json:"chunks"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	SubjectTTSRequest = "tts.request"
	SubjectTTSAudio   = "tts.audio.out"
	SubjectTTSDone    = "tts.done"
)
