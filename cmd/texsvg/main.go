package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/texsvg/config"
	"github.com/wippyai/texsvg/engine"
	"github.com/wippyai/texsvg/mathdoc"
	"github.com/wippyai/texsvg/runtime"
	"github.com/wippyai/texsvg/server"
	"github.com/wippyai/texsvg/svgdoc"
)

type cliFlags struct {
	configFile  string
	bundlePath  string
	tex         string
	inline      bool
	out         string
	standalone  bool
	demoDir     string
	markdown    string
	mathml      bool
	serve       bool
	addr        string
	interactive bool
	schema      bool
	verbose     bool
	stack       string
	heap        string
}

func main() {
	var f cliFlags
	flag.StringVar(&f.configFile, "config", "", "JSON configuration file")
	flag.StringVar(&f.bundlePath, "bundle", "", "Path to the MathJax bundle (default $"+config.EnvBundle+")")
	flag.StringVar(&f.tex, "tex", "", "TeX to render; - reads stdin")
	flag.BoolVar(&f.inline, "inline", false, "Render in inline mode")
	flag.StringVar(&f.out, "out", "", "Write output to file instead of stdout")
	flag.BoolVar(&f.standalone, "standalone", false, "Write a standalone .svg document instead of the markup container")
	flag.StringVar(&f.demoDir, "demo", "", "Render the formula catalogue into directory")
	flag.StringVar(&f.markdown, "md", "", "Convert a markdown file with $...$ math to HTML")
	flag.BoolVar(&f.mathml, "mathml", false, "With -md, emit MathML instead of SVG")
	flag.BoolVar(&f.serve, "serve", false, "Run the HTTP render service")
	flag.StringVar(&f.addr, "addr", "", "Listen address for -serve (default "+config.DefaultAddr+")")
	flag.BoolVar(&f.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&f.schema, "schema", false, "Print the configuration JSON schema and exit")
	flag.BoolVar(&f.verbose, "v", false, "Verbose logging")
	flag.StringVar(&f.stack, "stack", "", "Interpreter stack ceiling, e.g. 4MiB")
	flag.StringVar(&f.heap, "heap", "", "Interpreter heap ceiling, e.g. 128MiB")
	flag.Parse()

	if err := run(f, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: texsvg -tex <tex> [-inline] [-out file.svg] [-standalone]")
	fmt.Fprintln(os.Stderr, "       texsvg -demo <dir>")
	fmt.Fprintln(os.Stderr, "       texsvg -md <file.md> [-mathml] [-out file.html]")
	fmt.Fprintln(os.Stderr, "       texsvg -serve [-addr :8089]")
	fmt.Fprintln(os.Stderr, "       texsvg -i  (interactive mode)")
	fmt.Fprintln(os.Stderr, "       texsvg -schema")
	flag.PrintDefaults()
}

func run(f cliFlags, stdin io.Reader, stdout io.Writer) error {
	if f.schema {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%s\n", data)
		return err
	}

	o, err := f.overrides()
	if err != nil {
		return err
	}
	cfg, err := config.Load(o)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Debug, f.serve)
	if err != nil {
		return err
	}
	defer log.Sync()
	engine.SetLogger(log.Named("engine"))
	runtime.SetLogger(log.Named("runtime"))
	server.SetLogger(log.Named("server"))

	switch {
	case f.markdown != "" && f.mathml:
		return convertMarkdown(f, nil, stdout)
	case f.interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		return runInteractive(cfg)
	case f.markdown == "" && !f.serve && f.demoDir == "" && f.tex == "":
		usage()
		return fmt.Errorf("nothing to do")
	}

	start := time.Now()
	r, err := cfg.NewRenderer()
	if err != nil {
		return err
	}
	defer r.Close()
	log.Debug("bundle loaded",
		zap.String("bundle", r.Bundle().Name),
		zap.Duration("init_time", time.Since(start)))

	switch {
	case f.serve:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		srv := server.New(r,
			server.WithLogger(log.Named("server")),
			server.WithAllowedOrigins(cfg.AllowedOrigins...))
		return srv.ListenAndServe(ctx, cfg.Addr)

	case f.demoDir != "":
		fmt.Fprintf(stdout, "texsvg demo: %s\n", r.Bundle().Name)
		fmt.Fprintf(stdout, "init: %dms\n", time.Since(start).Milliseconds())
		st, err := runDemo(r, f.demoDir, stdout)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\n%d formulas, %d failed, %dms\n", st.total, st.failed, st.elapsed.Milliseconds())
		if st.failed > 0 {
			return fmt.Errorf("%d formulas failed", st.failed)
		}
		return nil

	case f.markdown != "":
		return convertMarkdown(f, r, stdout)
	}

	tex := f.tex
	if tex == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		tex = string(data)
	}
	mode := runtime.Display
	if f.inline {
		mode = runtime.Inline
	}

	out, err := r.Render(tex, mode)
	if err != nil {
		return err
	}
	if f.standalone {
		if out, err = svgdoc.Standalone(out); err != nil {
			return err
		}
	}
	return writeOutput(f.out, stdout, []byte(out))
}

func (f cliFlags) overrides() (config.Overrides, error) {
	o := config.Overrides{
		File:       f.configFile,
		BundlePath: f.bundlePath,
		Addr:       f.addr,
		Debug:      f.verbose,
	}
	if f.stack != "" {
		n, err := config.ParseBytes(f.stack)
		if err != nil {
			return o, fmt.Errorf("-stack: %w", err)
		}
		o.StackLimitBytes = n
	}
	if f.heap != "" {
		n, err := config.ParseBytes(f.heap)
		if err != nil {
			return o, fmt.Errorf("-heap: %w", err)
		}
		o.HeapLimitBytes = n
	}
	return o, nil
}

// newLogger returns a development logger when verbose, a production logger
// for the service and a no-op logger otherwise.
func newLogger(verbose, serve bool) (*zap.Logger, error) {
	switch {
	case verbose:
		return zap.NewDevelopment()
	case serve:
		return zap.NewProduction()
	default:
		return zap.NewNop(), nil
	}
}

// convertMarkdown renders the markdown file through r, or as MathML when r
// is nil.
func convertMarkdown(f cliFlags, r *runtime.Renderer, stdout io.Writer) error {
	src, err := os.ReadFile(f.markdown)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}

	w := stdout
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		w = file
	}

	if r == nil {
		return mathdoc.FormatMathML(src, w)
	}
	return mathdoc.Convert(src, w, r, mathdoc.WithErrorHandler(func(tex string, display bool, err error) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}))
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintf(stdout, "%s\n", data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
