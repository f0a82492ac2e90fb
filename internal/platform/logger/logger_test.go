package logger

import "testing"

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"api_key", "abc",
		"note", "Lecture 1",
		"body", "sk-0123456789abcdefghijklmn",
		"dangling",
	})
	want := []interface{}{"api_key", "[REDACTED]", "note", "Lecture 1", "body", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kv[%d]=%v want=%v", i, got[i], want[i])
		}
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "k", 1)
	l.Sync()
}
