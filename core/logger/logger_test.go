package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2021, 8, 1, 12, 0, 0, 0, time.UTC)
}

func TestJsonLinesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewJsonLinesLogRecorder(&buf)
	log.Now = fixedClock

	session := log.NewSession()
	_, err := uuid.Parse(session.SessionID())
	require.NoError(t, err, "session IDs are UUIDs")

	require.NoError(t, session.Record(&SessionStart{Source: "ssh", User: "root", RemoteAddr: "10.0.0.1:2222"}))
	require.NoError(t, session.Record(&Parse{Line: "ls | wc", Success: true, NodeCount: 3, CommandWord: "ls"}))
	require.NoError(t, session.Record(&Parse{Line: "a |", ErrorClass: "syntax", Error: "dangling operator | at end of line"}))
	require.NoError(t, session.Record(&SessionEnd{Commands: 1, Failures: 1}))
	require.NoError(t, log.Sessionless().Record(&SessionStart{Source: "file"}))

	assert.Equal(t, 5, strings.Count(buf.String(), "\n"))

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(&buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 5)

	assert.Equal(t, fixedClock().UnixMicro(), entries[0].TimestampMicros)
	assert.Equal(t, session.SessionID(), entries[0].SessionID)
	assert.Equal(t, "root", entries[0].SessionStart.User)
	assert.Nil(t, entries[0].Parse)
	assert.Equal(t, "ls | wc", entries[1].Parse.Line)
	assert.Equal(t, 1, entries[3].SessionEnd.Failures)
	assert.Empty(t, entries[4].SessionID)
}

func TestReadJSONLinesLogError(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader(`{"parse": `), func(*LogEntry) {})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	assert.NoError(t, NopLogger().NewSession().Record(&SessionEnd{}))
}

func TestReport(t *testing.T) {
	entries := []*LogEntry{
		{SessionID: "a", SessionStart: &SessionStart{Source: "ssh", User: "root"}},
		{SessionID: "a", Parse: &Parse{Line: "ls", Success: true, NodeCount: 1, CommandWord: "ls"}},
		{SessionID: "a", Parse: &Parse{Line: "ls -l", Success: true, NodeCount: 1, CommandWord: "ls"}},
		{SessionID: "a", Parse: &Parse{Line: "cat << EOF", Success: true, NodeCount: 1, HereDocs: 1, CommandWord: "cat"}},
		{SessionID: "a", Parse: &Parse{Line: "(a", ErrorClass: "lex", Error: "uneven parens"}},
		{SessionID: "a", SessionEnd: &SessionEnd{Commands: 3, Failures: 1}},
		{SessionID: "b", SessionStart: &SessionStart{Source: "terminal"}},
		{SessionID: "b", Parse: &Parse{Line: "(b", ErrorClass: "lex", Error: "uneven parens"}},
		{SessionID: "b", Parse: &Parse{Line: "a > x > y", ErrorClass: "semantic", Error: "multiple output redirects"}},
		{},
	}

	report := NewReport()
	var history SessionHistory
	for _, le := range entries {
		report.Update(le)
		history.Update(le)
	}

	assert.Equal(t, 10, report.LogEntries)
	assert.Equal(t, 1, report.InvalidEntries.Get("empty"))
	assert.Equal(t, 2, report.Sessions.Count)
	assert.Equal(t, 1, report.Sessions.Completed)
	assert.Equal(t, 1, report.Sessions.Users.Get("root"))
	assert.Equal(t, 3, report.Parse.Results.Get("success"))
	assert.Equal(t, 3, report.Parse.Results.Get("failure"))
	assert.Equal(t, 2, report.Parse.ErrorClasses.Get("lex"))
	assert.Equal(t, 2, report.Parse.Errors.Get("lex", "uneven parens"))
	assert.Equal(t, 2, report.Parse.CommandWords.Get("ls"))
	assert.Equal(t, 1, report.Parse.HereDocs)
	assert.Equal(t, 3, report.Parse.Nodes)

	require.NotNil(t, history.Get("a"))
	assert.Equal(t, []string{"ls", "ls -l", "cat << EOF", "(a"}, history.Get("a").Lines)
	assert.Equal(t, []string{"uneven parens"}, history.Get("a").Failures)
	assert.Equal(t, "terminal", history.Get("b").Source)
	assert.Nil(t, history.Get("missing"))

	t.Run("marshal", func(t *testing.T) {
		out, err := json.Marshal(report)
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(out, &raw))
		parse := raw["parse_report"].(map[string]interface{})
		errs := parse["errors"].([]interface{})
		require.Len(t, errs, 2)

		first := errs[0].(map[string]interface{})
		assert.Equal(t, float64(2), first["count"])
		assert.Equal(t, map[string]interface{}{"class": "lex", "error": "uneven parens"}, first["event"])
	})
}

func TestPathCounterWrongColumns(t *testing.T) {
	ctr := NewPathCounter("a", "b")
	assert.Panics(t, func() { ctr.Increment("only one") })
}
