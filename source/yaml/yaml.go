// Package yaml adapts YAML documents to the engine token stream. Documents
// are parsed into a yaml.v3 node tree and replayed as tokens, so the same
// enforcement (duplicate keys, depth) applies to YAML and JSON alike.
// yaml.Unmarshal into a map would silently lose duplicate keys; the node tree
// keeps them.
package yaml

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/gokata/internal/engine"
)

// NewBytes parses a YAML document into an engine.TokenSource.
// Parse failures are deferred to the first NextToken call.
func NewBytes(b []byte) eng.TokenSource {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return &yamlSource{err: err}
	}
	return fromDocument(&doc)
}

// NewReader consumes r fully and parses it as a YAML document.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &yamlSource{err: err}
	}
	return NewBytes(b)
}

type yamlSource struct {
	toks []eng.Token
	idx  int
	err  error
}

func (s *yamlSource) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.idx >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.idx]
	s.idx++
	return t, nil
}

// Location always reports -1: yaml.v3 exposes line/column, not byte offsets,
// so MaxBytes enforcement does not apply to YAML sources.
func (s *yamlSource) Location() int64 { return -1 }

func fromDocument(doc *yaml.Node) eng.TokenSource {
	root := doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return &yamlSource{toks: []eng.Token{{Kind: eng.KindNull, Offset: -1}}}
		}
		root = doc.Content[0]
	}
	w := &walker{inFlight: map[*yaml.Node]bool{}}
	if err := w.emit(root); err != nil {
		return &yamlSource{err: err}
	}
	return &yamlSource{toks: w.toks}
}

type walker struct {
	toks     []eng.Token
	inFlight map[*yaml.Node]bool
}

func (w *walker) push(t eng.Token) {
	t.Offset = -1
	w.toks = append(w.toks, t)
}

func (w *walker) emit(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			w.push(eng.Token{Kind: eng.KindNull})
			return nil
		}
		return w.emit(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return fmt.Errorf("yaml: dangling alias %q", n.Value)
		}
		if w.inFlight[n.Alias] {
			return fmt.Errorf("yaml: cyclic alias %q", n.Value)
		}
		return w.emit(n.Alias)
	case yaml.MappingNode:
		w.inFlight[n] = true
		defer delete(w.inFlight, n)
		w.push(eng.Token{Kind: eng.KindBeginObject})
		if err := w.emitPairs(n); err != nil {
			return err
		}
		w.push(eng.Token{Kind: eng.KindEndObject})
		return nil
	case yaml.SequenceNode:
		w.inFlight[n] = true
		defer delete(w.inFlight, n)
		w.push(eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := w.emit(c); err != nil {
				return err
			}
		}
		w.push(eng.Token{Kind: eng.KindEndArray})
		return nil
	case yaml.ScalarNode:
		return w.emitScalar(n)
	default:
		return fmt.Errorf("yaml: unsupported node kind %d", n.Kind)
	}
}

// emitPairs walks a mapping's key/value pairs. Merge keys ("<<") are spliced
// inline; keys duplicated between a merge and the mapping itself surface
// through the duplicate-key policy like any other duplicate.
func (w *walker) emitPairs(n *yaml.Node) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Tag == "!!merge" {
			if err := w.splice(val); err != nil {
				return err
			}
			continue
		}
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("yaml: unsupported non-scalar mapping key at line %d", key.Line)
		}
		w.push(eng.Token{Kind: eng.KindKey, String: key.Value})
		if err := w.emit(val); err != nil {
			return err
		}
	}
	return nil
}

// splice expands a merge value (a mapping, an alias to one, or a sequence of
// either) into the current mapping's pair stream.
func (w *walker) splice(val *yaml.Node) error {
	switch val.Kind {
	case yaml.AliasNode:
		if val.Alias == nil {
			return fmt.Errorf("yaml: dangling alias %q", val.Value)
		}
		if w.inFlight[val.Alias] {
			return fmt.Errorf("yaml: cyclic alias %q", val.Value)
		}
		return w.splice(val.Alias)
	case yaml.MappingNode:
		return w.emitPairs(val)
	case yaml.SequenceNode:
		for _, c := range val.Content {
			if err := w.splice(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("yaml: merge value must be a mapping, at line %d", val.Line)
	}
}

func (w *walker) emitScalar(n *yaml.Node) error {
	switch n.Tag {
	case "!!null":
		w.push(eng.Token{Kind: eng.KindNull})
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		w.push(eng.Token{Kind: eng.KindBool, Bool: b})
		return nil
	case "!!int":
		text, err := intText(n)
		if err != nil {
			return err
		}
		w.push(eng.Token{Kind: eng.KindNumber, Number: text})
		return nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("yaml: non-finite number at line %d", n.Line)
		}
		w.push(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64)})
		return nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their raw text.
		w.push(eng.Token{Kind: eng.KindString, String: n.Value})
		return nil
	}
}

// intText canonicalizes YAML integers (including hex/octal forms) to the
// decimal text the number mode layer expects.
func intText(n *yaml.Node) (string, error) {
	var iv int64
	if err := n.Decode(&iv); err == nil {
		return strconv.FormatInt(iv, 10), nil
	}
	var uv uint64
	if err := n.Decode(&uv); err == nil {
		return strconv.FormatUint(uv, 10), nil
	}
	return "", fmt.Errorf("yaml: integer out of range at line %d", n.Line)
}
