// Package ui renders search progress and results to the terminal.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/defidude/revanity/pkg/identity"
	"github.com/defidude/revanity/pkg/search"
)

var (
	headline = color.New(color.FgCyan, color.Bold)
	accent   = color.New(color.FgCyan)
	good     = color.New(color.FgGreen, color.Bold)
	warn     = color.New(color.FgYellow)
	bad      = color.New(color.FgRed)
	dim      = color.New(color.Faint)
)

// PrintBanner shows the program name and version.
func PrintBanner(version string) {
	headline.Printf("revanity v%s", version)
	dim.Println("  Reticulum/LXMF vanity address generator")
}

// PrintSearchInfo displays the search configuration and its difficulty
// estimate before the search starts.
func PrintSearchInfo(o *search.Orchestrator) {
	spec := o.Spec()
	diff := o.Difficulty()

	fmt.Printf("  Pattern:     %s=%s\n", spec.Mode, accent.Sprintf("%q", spec.Pattern))
	fmt.Printf("  Destination: %s\n", o.Destination())
	fmt.Printf("  Workers:     %d\n", o.Workers())
	if diff.Known {
		fmt.Printf("  Expected:    ~%s attempts\n", humanize.Comma(clampInt64(diff.ExpectedAttempts)))
	}
	fmt.Printf("  Difficulty:  %s\n\n", diff.Description)
}

// PrintProgress writes a single-line progress update to stderr,
// overwriting the previous one.
func PrintProgress(stats search.Stats) {
	fmt.Fprintf(os.Stderr, "\r  Checked: %s  |  Rate: %s/sec  |  Elapsed: %s  ",
		humanize.Comma(clampInt64(stats.TotalChecked)),
		FormatRate(stats.Rate),
		FormatDuration(stats.Elapsed))
}

// ClearProgress ends the progress line.
func ClearProgress() {
	fmt.Fprintln(os.Stderr)
}

// PrintResult displays one match with its statistics and export info.
func PrintResult(res search.Result, exp *identity.Exported) {
	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	good.Println("  MATCH FOUND")
	if lxmf, ok := exp.DestHashes[identity.LXMFDelivery]; ok {
		fmt.Printf("  LXMF Address:   %s\n", accent.Sprint(lxmf))
	}
	if node, ok := exp.DestHashes[identity.NomadNetworkNode]; ok {
		fmt.Printf("  NomadNet Node:  %s\n", node)
	}
	fmt.Printf("  Identity Hash:  %s\n", exp.IdentityHashHex)
	fmt.Printf("  Time:           %s\n", FormatDuration(res.Elapsed))
	fmt.Printf("  Keys Checked:   %s\n", humanize.Comma(clampInt64(res.TotalChecked)))
	fmt.Printf("  Rate:           %s/sec\n", FormatRate(res.Rate))
	fmt.Println(rule)
}

// PrintVerification reports the self-verification outcome for a result.
func PrintVerification(v *identity.Verification) {
	fmt.Println("\n  Verification:")
	fmt.Printf("    Identity hash: %s\n", passFail(v.IdentityHashMatch))
	fmt.Printf("    Dest hash:     %s\n", passFail(v.DestHashMatch))
}

// PrintCancelled reports an interrupted search.
func PrintCancelled(stats search.Stats) {
	warn.Print("\n  Cancelled")
	fmt.Printf(" | %s attempts | %s\n",
		humanize.Comma(clampInt64(stats.TotalChecked)),
		FormatDuration(stats.Elapsed))
}

// PrintError writes an error message to stderr.
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", bad.Sprint("Error:"), err)
}

func passFail(ok bool) string {
	if ok {
		return good.Sprint("PASS")
	}
	return bad.Sprint("FAIL")
}

// FormatDuration renders a duration at a precision suited to its size.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 1:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case secs < 60:
		return fmt.Sprintf("%.1fs", secs)
	case secs < 3600:
		return fmt.Sprintf("%.1fm", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%.1fh", secs/3600)
	default:
		return fmt.Sprintf("%.1fd", secs/86400)
	}
}

// FormatRate renders a keys-per-second rate with a magnitude suffix.
func FormatRate(rate float64) string {
	switch {
	case rate < 1000:
		return fmt.Sprintf("%.0f", rate)
	case rate < 1_000_000:
		return fmt.Sprintf("%.1fK", rate/1000)
	default:
		return fmt.Sprintf("%.2fM", rate/1_000_000)
	}
}

func clampInt64(v uint64) int64 {
	const maxInt64 = 1<<63 - 1
	if v > maxInt64 {
		return maxInt64
	}
	return int64(v)
}
