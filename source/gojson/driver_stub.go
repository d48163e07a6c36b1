//go:build !gojson

package gojson

import (
	"io"

	gokata "github.com/reoring/gokata"
	jsonsrc "github.com/reoring/gokata/source/json"
)

// Driver returns a stub driver description when the gojson tag is not enabled.
// It delegates to the encoding/json-based source directly to avoid recursion.
func Driver() gokata.JSONDriver { return stub{} }

type stub struct{}

func (stub) NewReader(r io.Reader) gokata.Source {
	return gokata.SourceFromEngine(jsonsrc.NewReader(r), gokata.NumberJSONNumber)
}
func (stub) NewBytes(b []byte) gokata.Source {
	return gokata.SourceFromEngine(jsonsrc.NewBytes(b), gokata.NumberJSONNumber)
}
func (stub) Name() string { return "encoding/json (gojson stub)" }
