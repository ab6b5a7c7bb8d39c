package logs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"issuereel/internal/logging"
)

// Entry is one decoded record from the JSON log.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	RunID     string
	Stage     string
	EventType string
	Raw       string
}

// ParseEntry decodes a JSON log line. Lines that are not JSON objects return
// false and keep only Raw.
func ParseEntry(line string) (Entry, bool) {
	entry := Entry{Raw: line}
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return entry, false
	}
	entry.Level = stringField(fields, "level")
	entry.Message = stringField(fields, "msg")
	entry.Component = stringField(fields, logging.FieldComponent)
	entry.RunID = stringField(fields, logging.FieldRunID)
	entry.Stage = stringField(fields, logging.FieldStage)
	entry.EventType = stringField(fields, logging.FieldEventType)
	if ts, err := time.Parse(time.RFC3339, stringField(fields, "ts")); err == nil {
		entry.Time = ts
	}
	return entry, true
}

// Matches reports whether the entry belongs to runID. An empty runID matches
// everything.
func (e Entry) Matches(runID string) bool {
	return runID == "" || e.RunID == runID
}

// String renders a compact one-line form for terminals.
func (e Entry) String() string {
	if e.Message == "" && e.Level == "" {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05 "))
	}
	fmt.Fprintf(&b, "%-5s ", strings.ToUpper(e.Level))
	if e.Stage != "" {
		fmt.Fprintf(&b, "[%s] ", e.Stage)
	}
	if e.Component != "" {
		b.WriteString(e.Component + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

func stringField(fields map[string]any, key string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}
	return ""
}
