package logger

// LogEntry is a single event. Exactly one of the event fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	Parse        *Parse        `json:"parse,omitempty"`
	SessionEnd   *SessionEnd   `json:"session_end,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	setOn(le *LogEntry)
}

// SessionStart is logged when a read-eval loop starts.
type SessionStart struct {
	// Source is where lines come from: "terminal", "file", "ssh".
	Source     string `json:"source"`
	User       string `json:"user,omitempty"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}

func (e *SessionStart) setOn(le *LogEntry) { le.SessionStart = e }

// Parse is logged once per non-empty input line.
type Parse struct {
	Line        string `json:"line"`
	Success     bool   `json:"success"`
	ErrorClass  string `json:"error_class,omitempty"`
	Error       string `json:"error,omitempty"`
	NodeCount   int    `json:"node_count,omitempty"`
	HereDocs    int    `json:"heredocs,omitempty"`
	CommandWord string `json:"command_word,omitempty"`
}

func (e *Parse) setOn(le *LogEntry) { le.Parse = e }

// SessionEnd is logged when the input of a session is exhausted.
type SessionEnd struct {
	Commands int `json:"commands"`
	Failures int `json:"failures"`
}

func (e *SessionEnd) setOn(le *LogEntry) { le.SessionEnd = e }
