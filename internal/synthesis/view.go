// Package synthesis merges today's oracle entry with the active systems
// profile into a read-only daily digest. It never writes to the store.
package synthesis

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kalambet/solaces/internal/docs"
)

// MaxPressurePoints is how many issue/watch systems the digest lists.
const MaxPressurePoints = 4

// StatusCount is the number of systems in one status.
type StatusCount struct {
	Status docs.SystemStatus `json:"status"`
	Label  string            `json:"label"`
	Count  int               `json:"count"`
}

// View is the computed digest.
type View struct {
	Date           string            `json:"date"`
	DateLabel      string            `json:"dateLabel"`
	Oracle         *docs.OracleEntry `json:"oracle,omitempty"`
	ProfileName    string            `json:"profileName,omitempty"`
	SystemCount    int               `json:"systemCount"`
	Counts         []StatusCount     `json:"counts"`
	PressurePoints []docs.SystemItem `json:"pressurePoints"`
	Remaining      int               `json:"remaining"`
}

// Build computes the digest for the calendar day of now. It reports false
// when there is nothing to show: no oracle content today and no systems in
// the active profile.
func Build(kv docs.KV, now time.Time) (View, bool) {
	v := View{
		Date:           now.Format(docs.DateLayout),
		DateLabel:      now.Format("Mon, Jan 2, 2006"),
		Counts:         []StatusCount{},
		PressurePoints: []docs.SystemItem{},
	}

	if e := docs.LoadOracle(kv, docs.OracleKey(now)); e.HasContent() {
		v.Oracle = &e
	}

	var systems []docs.SystemItem
	if state, ok := docs.LookupSystems(kv); ok {
		if p, ok := state.Active(); ok {
			v.ProfileName = p.Name
			systems = p.Systems
		}
	}

	if v.Oracle == nil && len(systems) == 0 {
		return View{}, false
	}

	v.SystemCount = len(systems)
	counts := make(map[docs.SystemStatus]int)
	var critical []docs.SystemItem
	for _, s := range systems {
		counts[s.Status]++
		if s.Status == docs.SystemIssue || s.Status == docs.SystemWatch {
			critical = append(critical, s)
		}
	}
	for _, st := range docs.StatusImportance {
		if n := counts[st]; n > 0 {
			v.Counts = append(v.Counts, StatusCount{Status: st, Label: st.Label(), Count: n})
		}
	}
	if len(critical) > MaxPressurePoints {
		v.Remaining = len(critical) - MaxPressurePoints
		critical = critical[:MaxPressurePoints]
	}
	v.PressurePoints = append(v.PressurePoints, critical...)
	return v, true
}

// Render writes v as a plain-text digest.
func Render(w io.Writer, v View) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Daily synthesis · %s\n", v.DateLabel)
	if v.ProfileName != "" {
		fmt.Fprintf(&b, "Active profile: %s\n", v.ProfileName)
	}

	b.WriteString("\nOracle snapshot\n")
	if v.Oracle == nil {
		b.WriteString("  No Oracle entry saved for today yet.\n")
	} else {
		writeField(&b, "Signal", v.Oracle.Signal)
		writeField(&b, "Friction", v.Oracle.Friction)
		writeField(&b, "Alignment", v.Oracle.Alignment)
	}

	b.WriteString("\nSystems summary\n")
	if v.SystemCount == 0 {
		b.WriteString("  No systems tracked yet in the active profile.\n")
	} else {
		parts := make([]string, len(v.Counts))
		for i, c := range v.Counts {
			parts[i] = fmt.Sprintf("%s: %d", c.Label, c.Count)
		}
		fmt.Fprintf(&b, "  %s\n", strings.Join(parts, "  "))

		if len(v.PressurePoints) == 0 {
			b.WriteString("  No systems marked as Issue/Watch in this profile.\n")
		} else {
			b.WriteString("  Pressure points:\n")
			for _, s := range v.PressurePoints {
				fmt.Fprintf(&b, "  - %s (%s)", s.Name, s.Status.Label())
				if s.Notes != "" {
					fmt.Fprintf(&b, ": %s", s.Notes)
				}
				b.WriteString("\n")
			}
			if v.Remaining > 0 {
				fmt.Fprintf(&b, "  …and %d more.\n", v.Remaining)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeField(b *strings.Builder, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", name, value)
}
