package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"sort"

	"github.com/dmitrijs2005/fitplan/internal/client/api"
	"github.com/fatih/color"
)

const dateLayout = "2006-01-02 15:04"

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	dim    = color.New(color.Faint)
)

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format+"\n", a...)
}

func warn(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "⚠ "+format+"\n", a...)
}

func header(w io.Writer, s string) {
	bold.Fprintln(w, s)
}

func faint(w io.Writer, format string, a ...any) {
	dim.Fprintf(w, format, a...)
}

func printError(w io.Writer, err error) {
	red.Fprintf(w, "✗ %v\n", err)
}

// isTransportError reports whether err came from the network rather than
// from a server response.
func isTransportError(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr)
}

func weeksOf(plan map[string]any) []any {
	weeks, _ := plan["weeks"].([]any)
	return weeks
}

// renderPlan prints plans shaped as {"weeks":[{"week":n,"sessions":[...]}]}
// as a schedule and anything else as indented JSON.
func renderPlan(w io.Writer, p api.Plan) {
	header(w, "Plan "+p.PlanID)
	faint(w, "goal %s, created %s\n", p.GoalID, p.CreatedAt.Local().Format(dateLayout))

	weeks := weeksOf(p.Plan)
	if len(weeks) == 0 {
		b, _ := json.MarshalIndent(p.Plan, "", "  ")
		fmt.Fprintln(w, string(b))
		return
	}

	for i, raw := range weeks {
		week, _ := raw.(map[string]any)
		n := week["week"]
		if n == nil {
			n = i + 1
		}
		cyan.Fprintf(w, "\nWeek %v\n", n)

		sessions, _ := week["sessions"].([]any)
		for _, rs := range sessions {
			s, _ := rs.(map[string]any)
			fmt.Fprintf(w, "  %-10v %v", s["day"], s["exercise"])
			if sets, ok := s["sets"]; ok {
				fmt.Fprintf(w, "  %vx%v", sets, s["reps"])
			} else if reps, ok := s["reps"]; ok {
				fmt.Fprintf(w, "  %v", reps)
			}
			fmt.Fprintln(w)
			if notes, ok := s["notes"]; ok {
				faint(w, "             %v\n", notes)
			}
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
