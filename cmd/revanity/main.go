// Command revanity searches for Reticulum identities whose LXMF/NomadNet
// destination hash matches a vanity pattern.
//
// Usage:
//
//	revanity --prefix dead
//	revanity --suffix cafe --workers 8
//	revanity --contains beef --dest nomadnetwork.node
//	revanity --regex "^(dead|beef)" --output my_identity
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/defidude/revanity/internal/ui"
	"github.com/defidude/revanity/pkg/identity"
	"github.com/defidude/revanity/pkg/matcher"
	"github.com/defidude/revanity/pkg/search"
)

const version = "1.0.0"

type options struct {
	prefix   string
	suffix   string
	contains string
	regex    string
	dest     string
	workers  int
	output   string
	noVerify bool
	dryRun   bool
	quiet    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	fs := flag.NewFlagSet("revanity", flag.ContinueOnError)
	fs.StringVar(&opts.prefix, "prefix", "", "find address starting with this hex string")
	fs.StringVar(&opts.suffix, "suffix", "", "find address ending with this hex string")
	fs.StringVar(&opts.contains, "contains", "", "find address containing this hex string anywhere")
	fs.StringVar(&opts.regex, "regex", "", "find address matching this regex pattern")
	fs.StringVar(&opts.dest, "dest", identity.LXMFDelivery, "destination type, e.g. lxmf.delivery")
	fs.IntVar(&opts.workers, "workers", 0, "number of search workers (0 = auto)")
	fs.StringVar(&opts.output, "output", "", "output file path prefix (default: the destination hash)")
	fs.BoolVar(&opts.noVerify, "no-verify", false, "skip re-derivation verification")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "show difficulty estimate without searching")
	fs.BoolVar(&opts.quiet, "quiet", false, "minimal output (just the result address)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	mode, pattern, err := selectPattern(&opts)
	if err != nil {
		ui.PrintError(err)
		return 2
	}

	orch, err := search.New(search.Config{
		Pattern:     pattern,
		Mode:        mode,
		Destination: opts.dest,
		Workers:     opts.workers,
	})
	if err != nil {
		ui.PrintError(err)
		return 1
	}

	if !opts.quiet {
		ui.PrintBanner(version)
		ui.PrintSearchInfo(orch)
	}
	if opts.dryRun {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onProgress := func(stats search.Stats) {
		if !opts.quiet {
			ui.PrintProgress(stats)
		}
	}
	results, err := orch.Run(ctx, search.DefaultProgressInterval, onProgress)
	if err != nil {
		ui.PrintError(err)
		return 1
	}
	if !opts.quiet {
		ui.ClearProgress()
	}

	if len(results) == 0 {
		ui.PrintError(fmt.Errorf("no results found (search was interrupted)"))
		return 1
	}

	for _, res := range results {
		if code := emit(res, &opts); code != 0 {
			return code
		}
	}
	return 0
}

// selectPattern maps the mutually exclusive pattern flags to a mode.
func selectPattern(opts *options) (matcher.Mode, string, error) {
	set := 0
	mode, pattern := matcher.Prefix, ""
	if opts.prefix != "" {
		mode, pattern = matcher.Prefix, opts.prefix
		set++
	}
	if opts.suffix != "" {
		mode, pattern = matcher.Suffix, opts.suffix
		set++
	}
	if opts.contains != "" {
		mode, pattern = matcher.Contains, opts.contains
		set++
	}
	if opts.regex != "" {
		mode, pattern = matcher.Regex, opts.regex
		set++
	}
	if set == 0 {
		return 0, "", fmt.Errorf("one of --prefix, --suffix, --contains or --regex is required")
	}
	if set > 1 {
		return 0, "", fmt.Errorf("--prefix, --suffix, --contains and --regex are mutually exclusive")
	}
	return mode, pattern, nil
}

// emit prints, saves and verifies one search result.
func emit(res search.Result, opts *options) int {
	exp := identity.Export(res.Identity, res.Destination)

	if !opts.quiet {
		ui.PrintResult(res, exp)
	}

	outPrefix := opts.output
	if outPrefix == "" {
		outPrefix = res.DestHashHex
	}
	identityPath, err := exp.SaveIdentityFile(outPrefix + ".identity")
	if err != nil {
		ui.PrintError(err)
		return 1
	}
	infoPath, err := exp.SaveInfoFile(outPrefix + ".txt")
	if err != nil {
		ui.PrintError(err)
		return 1
	}
	if !opts.quiet {
		fmt.Printf("\n  Saved identity: %s\n", identityPath)
		fmt.Printf("  Saved info:     %s\n", infoPath)
	}

	if !opts.noVerify {
		v, err := identity.Verify(exp.PrivateKeyRaw, res.Destination, res.IdentityHashHex, res.DestHashHex)
		if err != nil {
			ui.PrintError(err)
			return 1
		}
		if !opts.quiet {
			ui.PrintVerification(v)
		}
		if !v.IdentityHashMatch || !v.DestHashMatch {
			ui.PrintError(fmt.Errorf("verification failed for %s", res.DestHashHex))
			return 1
		}
	}

	if opts.quiet {
		fmt.Println(res.DestHashHex)
	}
	return 0
}
