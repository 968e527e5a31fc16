package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
	"github.com/reoring/recskema/i18n"
	"github.com/reoring/recskema/user"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "recskema CLI\n\nUsage:\n  recskema validate -spec spec.yaml [-variant v1,v2] [-in file.json|-] [-shape wire|native] [-include a,b] [-exclude c] [-by-alias] [-lang en|ja] [-v]\n  recskema schema -spec spec.yaml [-variant v1,v2]\n  recskema user [-in file.json|-] [-admins Arjan] [-shape wire|native] [-lang en|ja] [-v]\n\nExit codes: 0 valid, 1 invalid input, 2 usage or I/O error.")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "validate":
		return validateCmd(args[1:], stdin, stdout, stderr)
	case "schema":
		return schemaCmd(args[1:], stdout, stderr)
	case "user":
		return userCmd(args[1:], stdin, stdout, stderr)
	default:
		usage(stderr)
		return exitUsage
	}
}

type outputFlags struct {
	in      string
	shape   string
	include string
	exclude string
	byAlias bool
	reveal  bool
	lang    string
	verbose bool
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.in, "in", "-", "input JSON object file (- for stdin)")
	fs.StringVar(&o.shape, "shape", "wire", "output shape: wire or native")
	fs.StringVar(&o.include, "include", "", "comma-separated fields to include")
	fs.StringVar(&o.exclude, "exclude", "", "comma-separated fields to exclude")
	fs.BoolVar(&o.byAlias, "by-alias", false, "key output by alias")
	fs.BoolVar(&o.reveal, "reveal-secrets", false, "render secret values")
	fs.StringVar(&o.lang, "lang", "en", "message language (en, ja)")
	fs.BoolVar(&o.verbose, "v", false, "debug logging to stderr")
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(level).With().Timestamp().Logger()
}

func validateCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var specPath, variants string
	var of outputFlags
	fs.StringVar(&specPath, "spec", "", "YAML record spec")
	fs.StringVar(&variants, "variant", "", "comma-separated variants to enable")
	of.register(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if specPath == "" {
		fs.Usage()
		return exitUsage
	}
	log := newLogger(stderr, of.verbose)
	s, err := loadSchema(specPath, variants)
	if err != nil {
		log.Error().Err(err).Str("spec", specPath).Msg("load spec")
		return exitUsage
	}
	return validateAndPrint(s, of, log, stdin, stdout)
}

func userCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var admins string
	var of outputFlags
	fs.StringVar(&admins, "admins", "", "comma-separated names allowed to hold the Admin role")
	of.register(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	log := newLogger(stderr, of.verbose)
	return validateAndPrint(user.Schema(splitCSV(admins)...), of, log, stdin, stdout)
}

func schemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var specPath, variants string
	fs.StringVar(&specPath, "spec", "", "YAML record spec")
	fs.StringVar(&variants, "variant", "", "comma-separated variants to enable")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if specPath == "" {
		fs.Usage()
		return exitUsage
	}
	log := newLogger(stderr, false)
	s, err := loadSchema(specPath, variants)
	if err != nil {
		log.Error().Err(err).Str("spec", specPath).Msg("load spec")
		return exitUsage
	}
	sch, err := s.JSONSchema()
	if err != nil {
		log.Error().Err(err).Msg("export schema")
		return exitUsage
	}
	return writeJSON(stdout, sch, log)
}

func loadSchema(path, variants string) (*g.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sp, err := g.LoadSpecYAML(b)
	if err != nil {
		return nil, err
	}
	return g.BuildSchema(sp, splitCSV(variants)...)
}

func validateAndPrint(s *g.Schema, of outputFlags, log zerolog.Logger, stdin io.Reader, stdout io.Writer) int {
	shape, ok := recskema.ParseShape(of.shape)
	if !ok {
		log.Error().Str("shape", of.shape).Msg("unknown shape")
		return exitUsage
	}
	i18n.SetLanguage(of.lang)
	ctx := recskema.WithLogger(context.Background(), log)

	var r io.Reader = stdin
	if of.in != "-" {
		f, err := os.Open(of.in)
		if err != nil {
			log.Error().Err(err).Msg("open input")
			return exitUsage
		}
		defer f.Close()
		r = f
	}
	raw, err := recskema.DecodeObject(r)
	if err != nil {
		return writeReport(stdout, err, log)
	}
	inst, err := s.Validate(ctx, raw)
	if err != nil {
		return writeReport(stdout, err, log)
	}
	out, err := s.Dump(ctx, inst, g.DumpOpt{
		Shape:         shape,
		Include:       splitCSV(of.include),
		Exclude:       splitCSV(of.exclude),
		ByAlias:       of.byAlias,
		RevealSecrets: of.reveal,
	})
	if err != nil {
		log.Error().Err(err).Msg("serialize")
		return exitUsage
	}
	return writeJSON(stdout, out, log)
}

func writeReport(w io.Writer, err error, log zerolog.Logger) int {
	rep := recskema.NewReport(err)
	if code := writeJSON(w, rep, log); code != exitOK {
		return code
	}
	if rep.Status == recskema.StatusInvalid {
		return exitInvalid
	}
	return exitUsage
}

func writeJSON(w io.Writer, v any, log zerolog.Logger) int {
	b, err := j.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encode output")
		return exitUsage
	}
	var buf bytes.Buffer
	if err := j.Indent(&buf, b, "", "  "); err != nil {
		log.Error().Err(err).Msg("indent output")
		return exitUsage
	}
	buf.WriteByte('\n')
	_, _ = w.Write(buf.Bytes())
	return exitOK
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
