package transcript

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWriterPersistsRecordAtomically(t *testing.T) {
	memFS := NewMem()
	writer := NewWriter(memFS, "/audit")

	record := Record{
		TurnID:    "turn-1",
		SessionID: "session-1",
		Query:     "mortgage question",
		StartedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 8, 1, 10, 0, 30, 0, time.UTC),
		Outcome:   "published",
		Revisions: 1,
		Events: []Event{
			{Stage: "need_profiler", Output: json.RawMessage(`{"product_type":"mortgage"}`)},
			{Stage: "compliance_checker", Decision: "publish"},
		},
	}
	if err := writer.Write(record); err != nil {
		t.Fatalf("Write: %v", err)
	}

	stored, err := memFS.ReadFile("/audit/turn-1.json")
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	var decoded Record
	if err := json.Unmarshal(stored, &decoded); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if decoded.TurnID != "turn-1" || decoded.Outcome != "published" || decoded.Revisions != 1 {
		t.Fatalf("transcript does not round-trip: %+v", decoded)
	}
	if len(decoded.Events) != 2 {
		t.Fatalf("expected two events, got %d", len(decoded.Events))
	}

	if _, err := memFS.ReadFile("/audit/turn-1.json.tmp"); err == nil {
		t.Fatalf("temp file must not survive a successful write")
	}
}

func TestNilWriterIsDisabled(t *testing.T) {
	writer := NewWriter(NewMem(), "")
	if writer != nil {
		t.Fatalf("empty directory must disable the writer")
	}
	if err := writer.Write(Record{TurnID: "x"}); err != nil {
		t.Fatalf("nil writer must be a no-op, got %v", err)
	}
}
