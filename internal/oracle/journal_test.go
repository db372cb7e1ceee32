package oracle

import (
	"testing"
	"time"

	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/storage"
)

func TestUpdateField_CreatesEntry(t *testing.T) {
	j := NewJournal(storage.NewMemory())

	e, err := j.UpdateField("2024-03-01", docs.FieldSignal, "quiet morning")
	if err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if e.Signal != "quiet morning" || e.Friction != "" {
		t.Errorf("entry = %+v", e)
	}

	j.UpdateField("2024-03-01", docs.FieldAlignment, "walked")
	got, err := j.Entry("2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if got != (docs.OracleEntry{Signal: "quiet morning", Alignment: "walked"}) {
		t.Errorf("stored = %+v", got)
	}
}

func TestEntry_InvalidDate(t *testing.T) {
	j := NewJournal(nil)
	if _, err := j.Entry("yesterday"); err == nil {
		t.Error("expected error")
	}
	if _, err := j.UpdateField("2024-02-30", docs.FieldSignal, "x"); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestRecent(t *testing.T) {
	kv := storage.NewMemory()
	j := NewJournal(kv)
	today := time.Date(2024, 3, 3, 12, 0, 0, 0, time.Local)

	j.UpdateField("2024-03-03", docs.FieldSignal, "today")
	j.UpdateField("2024-03-01", docs.FieldFriction, "two days ago")
	j.UpdateField("2024-02-29", docs.FieldSignal, "   ")
	j.UpdateField("2024-02-20", docs.FieldSignal, "too old")
	kv.Set(docs.OraclePrefix+"2024-03-02", "{corrupt")

	got := j.Recent(today, TimelineDays)
	if len(got) != 2 {
		t.Fatalf("recent = %+v", got)
	}
	if got[0].Date != "2024-03-03" || got[1].Date != "2024-03-01" {
		t.Errorf("order = %s, %s", got[0].Date, got[1].Date)
	}
}

func TestDailyPrompt(t *testing.T) {
	// 2024 + 2 (March, zero-based) + 1 = 2027, 2027 % 5 = 2
	got := DailyPrompt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if got != stillnessPrompts[2] {
		t.Errorf("prompt = %q", got)
	}
	if DailyPrompt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)) != got {
		t.Error("prompt should be stable within a day")
	}
}

func TestShiftDay(t *testing.T) {
	cases := []struct {
		in    string
		delta int
		want  string
	}{
		{"2024-03-01", -1, "2024-02-29"},
		{"2023-12-31", 1, "2024-01-01"},
		{"2024-03-10", 0, "2024-03-10"},
	}
	for _, c := range cases {
		got, err := ShiftDay(c.in, c.delta)
		if err != nil || got != c.want {
			t.Errorf("ShiftDay(%s, %d) = %q, %v; want %q", c.in, c.delta, got, err, c.want)
		}
	}
	if _, err := ShiftDay("nope", 1); err == nil {
		t.Error("expected error")
	}
}

func TestDateLabel(t *testing.T) {
	if got := DateLabel("2024-03-01"); got != "Fri, Mar 1, 2024" {
		t.Errorf("label = %q", got)
	}
}
