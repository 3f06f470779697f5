package logger

import (
	"encoding/json"
	"sort"
)

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		Parse: ParseReport{
			Errors: NewPathCounter("class", "error"),
		},
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Sessions SessionReport `json:"session_report"`
	Parse    ParseReport   `json:"parse_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch {
	case le.SessionStart != nil:
		r.Sessions.start(le.SessionStart)
	case le.Parse != nil:
		r.Parse.update(le.Parse)
	case le.SessionEnd != nil:
		r.Sessions.end(le.SessionEnd)
	default:
		r.InvalidEntries.Increment("empty")
	}
}

type SessionReport struct {
	Count int `json:"count"`
	// Number of sessions per line source.
	Sources StrCounter `json:"sources"`
	// Number of sessions per user, SSH sessions only.
	Users StrCounter `json:"users"`
	// Sessions that ran until their input ended.
	Completed int `json:"completed"`
}

func (r *SessionReport) start(e *SessionStart) {
	r.Count++
	r.Sources.Increment(e.Source)
	if e.User != "" {
		r.Users.Increment(e.User)
	}
}

func (r *SessionReport) end(e *SessionEnd) {
	r.Completed++
}

type ParseReport struct {
	// Number of parsed lines by outcome: success or failure.
	Results StrCounter `json:"results"`
	// Failures by class: lex, syntax, semantic, io.
	ErrorClasses StrCounter   `json:"error_classes"`
	Errors       *PathCounter `json:"errors"`
	// First word of every successfully parsed command.
	CommandWords StrCounter `json:"command_words"`
	HereDocs     int        `json:"heredocs"`
	Nodes        int        `json:"nodes"`
}

func (r *ParseReport) update(e *Parse) {
	if !e.Success {
		r.Results.Increment("failure")
		r.ErrorClasses.Increment(e.ErrorClass)
		if r.Errors != nil {
			r.Errors.Increment(e.ErrorClass, e.Error)
		}
		return
	}

	r.Results.Increment("success")
	if e.CommandWord != "" {
		r.CommandWords.Increment(e.CommandWord)
	}
	r.HereDocs += e.HereDocs
	r.Nodes += e.NodeCount
}

// SessionHistory collects the lines entered in each session.
type SessionHistory struct {
	// Map of sessionID -> session
	sessions map[string]*Session
}

type Session struct {
	Source     string `json:"source"`
	User       string `json:"user,omitempty"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	LogEntries int    `json:"log_entries"`

	Lines    []string `json:"lines"`
	Failures []string `json:"failures,omitempty"`
}

func (s *Session) Update(le *LogEntry) {
	s.LogEntries++

	switch {
	case le.SessionStart != nil:
		s.Source = le.SessionStart.Source
		s.User = le.SessionStart.User
		s.RemoteAddr = le.SessionStart.RemoteAddr
	case le.Parse != nil:
		s.Lines = append(s.Lines, le.Parse.Line)
		if !le.Parse.Success {
			s.Failures = append(s.Failures, le.Parse.Error)
		}
	}
}

func (h *SessionHistory) init() {
	if h.sessions == nil {
		h.sessions = make(map[string]*Session)
	}
}

// Get returns the session with the given ID, or nil.
func (h *SessionHistory) Get(sessionID string) *Session {
	h.init()
	return h.sessions[sessionID]
}

// MarshalJSON implements a custom JSON marshaler.
func (h *SessionHistory) MarshalJSON() ([]byte, error) {
	h.init()

	return json.Marshal(h.sessions)
}

func (h *SessionHistory) Update(le *LogEntry) {
	h.init()

	if le.SessionID == "" {
		return
	}
	session, ok := h.sessions[le.SessionID]
	if !ok {
		session = &Session{}
		h.sessions[le.SessionID] = session
	}

	session.Update(le)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings, one value per column.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler. Entries are sorted by
// descending count.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
