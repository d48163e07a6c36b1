package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/schemadef"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	case "jsonschema":
		jsonschemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "gokata CLI\n\nUsage:\n  gokata check -schema schema.json [flags] [file ...]\n  gokata jsonschema -schema schema.json\n\ncheck validates each input document (stdin when no files are given) against\nthe compiled schema document and prints one JSON report per document.\njsonschema prints the JSON Schema projection of the compiled document.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath string
	var format string
	var unknown string
	var union string
	var applyDefaults bool
	var dup string
	var failFast bool
	var maxDepth int
	var maxBytes int64
	fs.StringVar(&schemaPath, "schema", "", "path to the schema document (.json, .yaml or .yml)")
	fs.StringVar(&format, "format", "", "input format: json or yaml (default: by file extension, json for stdin)")
	fs.StringVar(&unknown, "unknown", "", "override unknown-key policy for all objects: strict or strip")
	fs.StringVar(&union, "union", "", "union mode for nodes without one: first_match or exclusive")
	fs.BoolVar(&applyDefaults, "apply-defaults", false, "fill missing optional fields from document defaults")
	fs.StringVar(&dup, "dup", "ignore", "duplicate key handling: ignore, warn or error")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first issue per document")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fs.Int64Var(&maxBytes, "max-bytes", 0, "maximum input size in bytes (0 = unlimited)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	schema, diag := compileSchema(schemaPath, unknown, union, applyDefaults)
	for _, w := range diag.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	opt := gokata.ParseOpt{
		Strictness: gokata.Strictness{OnDuplicateKey: dupSeverity(dup)},
		MaxDepth:   maxDepth,
		MaxBytes:   maxBytes,
		FailFast:   failFast,
	}

	failed := false
	if files := fs.Args(); len(files) > 0 {
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				fatalf("reading %s: %v", f, err)
			}
			if !checkOne(schema, f, data, pickFormat(format, f), opt) {
				failed = true
			}
		}
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("reading stdin: %v", err)
		}
		if !checkOne(schema, "stdin", data, pickFormat(format, ""), opt) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func jsonschemaCmd(args []string) {
	fs := flag.NewFlagSet("jsonschema", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "path to the schema document (.json, .yaml or .yml)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	schema, diag := compileSchema(schemaPath, "", "", false)
	for _, w := range diag.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	js, err := schema.JSONSchema()
	if err != nil {
		fatalf("projecting JSON Schema: %v", err)
	}
	out, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		fatalf("encoding JSON Schema: %v", err)
	}
	fmt.Println(string(out))
}

func compileSchema(path, unknown, union string, applyDefaults bool) (gokata.Schema[any], schemadef.Diag) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	var opts schemadef.Options
	switch unknown {
	case "":
	case "strict":
		opts.Unknown = schemadef.UnknownStrict
	case "strip":
		opts.Unknown = schemadef.UnknownStrip
	default:
		fatalf("unknown policy %q (want strict or strip)", unknown)
	}
	switch union {
	case "", "first_match":
	case "exclusive":
		opts.Union = schemadef.UnionExclusive
	default:
		fatalf("union mode %q (want first_match or exclusive)", union)
	}
	if applyDefaults {
		opts.Defaults = schemadef.DefaultApply
	}
	var (
		s    gokata.Schema[any]
		diag schemadef.Diag
	)
	if isYAMLPath(path) {
		s, diag, err = schemadef.CompileYAML(data, opts)
	} else {
		s, diag, err = schemadef.Compile(data, opts)
	}
	if err != nil {
		fatalf("compiling schema: %v", err)
	}
	return s, diag
}

type checkReport struct {
	File   string      `json:"file"`
	OK     bool        `json:"ok"`
	Issues []issueView `json:"issues,omitempty"`
}

type issueView struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func checkOne(s gokata.Schema[any], name string, data []byte, format string, opt gokata.ParseOpt) bool {
	var src gokata.Source
	switch format {
	case "json":
		src = gokata.JSONBytes(data)
	case "yaml":
		src = gokata.YAMLBytes(data)
	default:
		fatalf("format %q (want json or yaml)", format)
	}
	res := gokata.SafeParseFrom(context.Background(), s, src, opt)
	rep := checkReport{File: name, OK: res.Ok()}
	for _, it := range res.Issues {
		rep.Issues = append(rep.Issues, issueView{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint})
	}
	out, err := json.Marshal(rep)
	if err != nil {
		fatalf("encoding report: %v", err)
	}
	fmt.Println(string(out))
	return res.Ok()
}

func pickFormat(flagVal, file string) string {
	if flagVal != "" {
		return strings.ToLower(flagVal)
	}
	if isYAMLPath(file) {
		return "yaml"
	}
	return "json"
}

func isYAMLPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func dupSeverity(s string) gokata.Severity {
	switch s {
	case "error":
		return gokata.Error
	case "warn":
		return gokata.Warn
	case "ignore", "":
		return gokata.Ignore
	default:
		fatalf("dup policy %q (want ignore, warn or error)", s)
		return gokata.Ignore
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
