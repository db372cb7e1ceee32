package synthesis

import (
	"strings"
	"testing"
	"time"

	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/storage"
)

var today = time.Date(2024, 3, 1, 18, 0, 0, 0, time.Local)

func TestBuild_NothingToShow(t *testing.T) {
	kv := storage.NewMemory()
	if _, ok := Build(kv, today); ok {
		t.Error("empty store should render nothing")
	}

	// Whitespace-only oracle and an active profile without systems.
	docs.SaveOracle(kv, docs.OracleKey(today), docs.OracleEntry{Signal: "  ", Friction: "\n"})
	docs.SaveSystems(kv, docs.SystemsState{
		ActiveProfileID: "empty",
		Profiles:        []docs.Profile{{ID: "empty", Name: "Empty", Systems: []docs.SystemItem{}}},
	})
	if _, ok := Build(kv, today); ok {
		t.Error("whitespace oracle and zero systems should render nothing")
	}
}

func TestBuild_NeverWrites(t *testing.T) {
	kv := storage.NewMemory()
	Build(kv, today)
	keys, _ := kv.Keys("")
	if len(keys) != 0 {
		t.Errorf("Build wrote keys: %v", keys)
	}
}

func TestBuild_OracleOnly(t *testing.T) {
	kv := storage.NewMemory()
	docs.SaveOracle(kv, docs.OracleKey(today), docs.OracleEntry{Alignment: "kept boundaries"})
	v, ok := Build(kv, today)
	if !ok {
		t.Fatal("expected a view")
	}
	if v.Oracle == nil || v.Oracle.Alignment != "kept boundaries" {
		t.Errorf("oracle = %+v", v.Oracle)
	}
	if v.SystemCount != 0 {
		t.Errorf("systems = %d", v.SystemCount)
	}
}

func TestBuild_CorruptSystemsIsAbsent(t *testing.T) {
	kv := storage.NewMemory()
	kv.Set(docs.SystemsKey, "{not json")
	if _, ok := Build(kv, today); ok {
		t.Error("corrupt systems and no oracle should render nothing")
	}
}

func TestBuild_CountsAndPressurePoints(t *testing.T) {
	kv := storage.NewMemory()
	systems := []docs.SystemItem{
		{ID: "a", Name: "A", Status: docs.SystemOK},
		{ID: "b", Name: "B", Status: docs.SystemWatch, Notes: "slow"},
		{ID: "c", Name: "C", Status: docs.SystemIssue},
		{ID: "d", Name: "D", Status: docs.SystemWatch},
		{ID: "e", Name: "E", Status: docs.SystemOffline},
		{ID: "f", Name: "F", Status: docs.SystemIssue},
		{ID: "g", Name: "G", Status: docs.SystemIssue},
		{ID: "h", Name: "H", Status: docs.SystemWatch},
	}
	docs.SaveSystems(kv, docs.SystemsState{
		ActiveProfileID: "p",
		Profiles: []docs.Profile{
			{ID: "other", Name: "Other", Systems: []docs.SystemItem{}},
			{ID: "p", Name: "Prod", Systems: systems},
		},
	})

	v, ok := Build(kv, today)
	if !ok {
		t.Fatal("expected a view")
	}
	if v.ProfileName != "Prod" {
		t.Errorf("profile = %q", v.ProfileName)
	}

	wantOrder := []docs.SystemStatus{docs.SystemIssue, docs.SystemWatch, docs.SystemOffline, docs.SystemOK}
	wantCounts := []int{3, 3, 1, 1}
	if len(v.Counts) != len(wantOrder) {
		t.Fatalf("counts = %+v", v.Counts)
	}
	for i, c := range v.Counts {
		if c.Status != wantOrder[i] || c.Count != wantCounts[i] {
			t.Errorf("counts[%d] = %+v", i, c)
		}
	}

	var ids []string
	for _, s := range v.PressurePoints {
		ids = append(ids, s.ID)
	}
	if strings.Join(ids, "") != "bcdf" {
		t.Errorf("pressure points = %v, want insertion order b c d f", ids)
	}
	if v.Remaining != 2 {
		t.Errorf("remaining = %d", v.Remaining)
	}
}

func TestRender(t *testing.T) {
	v := View{
		DateLabel:   "Fri, Mar 1, 2024",
		Oracle:      &docs.OracleEntry{Signal: "clear"},
		ProfileName: "General",
		SystemCount: 2,
		Counts: []StatusCount{
			{Status: docs.SystemIssue, Label: "Issue", Count: 1},
			{Status: docs.SystemOK, Label: "OK", Count: 1},
		},
		PressurePoints: []docs.SystemItem{{ID: "x", Name: "Email", Status: docs.SystemIssue, Notes: "bouncing"}},
		Remaining:      3,
	}
	var b strings.Builder
	if err := Render(&b, v); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"Daily synthesis · Fri, Mar 1, 2024",
		"Active profile: General",
		"Signal: clear",
		"Issue: 1  OK: 1",
		"- Email (Issue): bouncing",
		"…and 3 more.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Friction") {
		t.Error("empty fields should be omitted")
	}
}
