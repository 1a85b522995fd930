package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/slotcache"
)

func TestLoggerGroupsFields(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo})
	lg := New(stdslog.New(h))

	lg.Debug("filtered", slotcache.Fields{"cache": "factors"})
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered: %s", buf.String())
	}

	lg.Warn("slot store failed", slotcache.Fields{"cache": "factors", "gen": 4})
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec["level"] != "WARN" || rec["msg"] != "slot store failed" {
		t.Fatalf("record: %v", rec)
	}
	group, ok := rec["slotcache"].(map[string]any)
	if !ok || group["cache"] != "factors" || group["gen"] != float64(4) {
		t.Fatalf("group: %v", rec["slotcache"])
	}
}

func TestFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	lg := Logger{L: stdslog.New(stdslog.NewTextHandler(&buf, nil))}

	for i := 0; i < 5; i++ {
		buf.Reset()
		lg.Info("published entry", slotcache.Fields{"gen": 7, "cache": "factors", "key": 12, "op": "store"})
		line := buf.String()
		want := "cache=factors gen=7 key=12 op=store"
		if !strings.Contains(line, want) {
			t.Fatalf("fields out of order:\n%s", line)
		}
	}
}
