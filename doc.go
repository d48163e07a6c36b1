package gokata

// Package gokata provides:
//
// - Schema-based matching and transformation of untrusted input (Parse/Validate/Decode/Encode)
// - Ordered-candidate unions that resolve which of several shapes an input takes
// - A stable error model via Issues (JSON Pointer, code, message), aggregated across fields
// - Strict and safe entry points (MustParse / SafeParse) sharing a single core
// - Source-level input handling (JSON/YAML) with duplicate-key/depth/size enforcement
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the builder DSL under dsl/, codecs under codec/, and the CLI under cmd/gokata.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := buildSchema()
//	v, err := gokata.ParseFrom(ctx, s, gokata.JSONBytes(data))
//	r := gokata.SafeParse(ctx, s, raw)
//	if !r.Ok() { report(r.Issues) }
