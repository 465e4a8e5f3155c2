package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/goliatone/go-mdpublish"
	"github.com/goliatone/go-mdpublish/cmd/mdpublish/internal/bootstrap"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

var version = "dev"

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mdpublish", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var post, list, status, dumpDir, logLevel string
	fs.StringVar(&post, "post", "", "Path to a Markdown file to publish")
	fs.StringVar(&post, "p", "", "Shorthand for --post")
	fs.StringVar(&list, "list", "", "Path to a file listing absolute Markdown paths, one per line")
	fs.StringVar(&list, "l", "", "Shorthand for --list")
	fs.StringVar(&status, "status", "", "Publish status: public, unlisted or draft (default public)")
	fs.StringVar(&status, "s", "", "Shorthand for --status")
	authorBlock := fs.Bool("author-block", false, "Append the configured author block to every post")
	dryRun := fs.Bool("dry-run", false, "Build and validate payloads without contacting the API")
	fs.StringVar(&dumpDir, "dump-dir", "", "Write each payload as JSON into this directory")
	skipImages := fs.Bool("skip-images", false, "Do not upload local images")
	fs.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	configFile := fs.String("config", "", "Dotenv file to load instead of config/token.config and .env")
	noColor := fs.Bool("no-color", false, "Disable coloured output")
	showVersion := fs.Bool("version", false, "Print the version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "mdpublish %s\n", version)
		return exitOK
	}

	out := newPrinter(stdout, !*noColor)
	post, list = strings.TrimSpace(post), strings.TrimSpace(list)
	if (post == "") == (list == "") {
		out.fail("exactly one of --post or --list is required")
		fs.Usage()
		return exitUsage
	}

	opts := bootstrap.Options{
		Status:    status,
		DumpDir:   dumpDir,
		LogLevel:  logLevel,
		LogWriter: stderr,
		LogColor:  !*noColor && isTerminal(stderr),
	}
	if *configFile != "" {
		opts.ConfigFiles = []string{*configFile}
	}
	visited := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })
	if visited["author-block"] {
		opts.AuthorBlock = authorBlock
	}
	if visited["dry-run"] {
		opts.DryRun = dryRun
	}
	if visited["skip-images"] {
		opts.SkipImages = skipImages
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		out.fail(err.Error())
		return exitUsage
	}

	var result mdpublish.BatchResult
	if post != "" {
		result, err = module.Publisher.PublishFile(ctx, post)
	} else {
		result, err = module.Publisher.PublishList(ctx, list)
	}

	out.summary(result)
	switch {
	case err == nil:
		return exitOK
	case mdpublish.IsUsageError(err):
		out.fail(err.Error())
		return exitUsage
	default:
		return exitFailed
	}
}

type printer struct {
	w    io.Writer
	ok   *color.Color
	bad  *color.Color
	warn *color.Color
}

func newPrinter(w io.Writer, colored bool) *printer {
	p := &printer{
		w:    w,
		ok:   color.New(color.FgHiGreen),
		bad:  color.New(color.FgHiRed),
		warn: color.New(color.FgHiYellow),
	}
	for _, c := range []*color.Color{p.ok, p.bad, p.warn} {
		if colored && isTerminal(w) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) fail(message string) {
	p.bad.Fprintf(p.w, "error: %s\n", message)
}

func (p *printer) summary(result mdpublish.BatchResult) {
	for _, skipped := range result.Skipped {
		p.warn.Fprintf(p.w, "skipped line %d: %s (%s)\n", skipped.Line, skipped.Value, skipped.Reason)
	}
	for _, file := range result.Files {
		switch {
		case !file.OK():
			p.bad.Fprintf(p.w, "FAIL %s: %v\n", file.Path, file.Err)
		case file.Post != nil:
			p.ok.Fprintf(p.w, "OK   %s -> %s\n", file.Path, file.Post.URL)
		default:
			line := fmt.Sprintf("DRY  %s", file.Path)
			if file.Request != nil {
				line += fmt.Sprintf(" %q [%s]", file.Request.Title, file.Request.PublishStatus)
			}
			if file.DumpPath != "" {
				line += " -> " + file.DumpPath
			}
			p.ok.Fprintln(p.w, line)
		}
		for _, image := range file.Images {
			if image.Err != nil {
				p.warn.Fprintf(p.w, "     image %s not uploaded: %v\n", image.Path, image.Err)
			}
		}
		if file.StatusIgnored && file.Request != nil {
			p.warn.Fprintf(p.w, "     unrecognised status in front matter, used %s\n", file.Request.PublishStatus)
		}
	}
	if len(result.Files) > 0 {
		fmt.Fprintf(p.w, "%d of %d succeeded\n", result.Succeeded(), len(result.Files))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
