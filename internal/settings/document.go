package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"

	"misettings/internal/fileutil"
)

// document is a decoded JSON object. Numbers stay json.Number so values the
// store does not touch are written back exactly as they were read.
type document map[string]any

func readDocument(path string) (document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(path, err)
		}
		return nil, &ConfigError{Kind: ErrNotFound, Path: path, Err: fmt.Errorf("read: %w", err)}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed(path, "", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed(path, "", errors.New("trailing data after JSON object"))
	}
	if doc == nil {
		return nil, malformed(path, "", errors.New("document is null"))
	}
	return doc, nil
}

func writeDocument(path string, doc document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return writeFailed(path, fmt.Errorf("encode: %w", err))
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return writeFailed(path, err)
	}
	return nil
}

func (d document) lookup(keyPath string) (any, bool) {
	var node any = map[string]any(d)
	for _, key := range strings.Split(keyPath, ".") {
		obj, ok := asObject(node)
		if !ok {
			return nil, false
		}
		node, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// set writes value at keyPath, creating missing intermediate objects. It
// refuses to replace a non-object intermediate.
func (d document) set(keyPath string, value any) error {
	keys := strings.Split(keyPath, ".")
	obj := map[string]any(d)
	for i, key := range keys[:len(keys)-1] {
		next, exists := obj[key]
		if !exists || next == nil {
			child := map[string]any{}
			obj[key] = child
			obj = child
			continue
		}
		child, ok := asObject(next)
		if !ok {
			return fmt.Errorf("%s is not an object", strings.Join(keys[:i+1], "."))
		}
		obj = child
	}
	obj[keys[len(keys)-1]] = value
	return nil
}

func asObject(node any) (map[string]any, bool) {
	switch v := node.(type) {
	case map[string]any:
		return v, true
	case document:
		return v, true
	default:
		return nil, false
	}
}

func (d document) stringAt(path, keyPath string) (string, error) {
	raw, ok := d.lookup(keyPath)
	if !ok {
		return "", malformed(path, keyPath, errors.New("missing key"))
	}
	s, ok := raw.(string)
	if !ok {
		return "", malformed(path, keyPath, fmt.Errorf("want string, got %T", raw))
	}
	return s, nil
}

func (d document) boolAt(path, keyPath string) (bool, error) {
	raw, ok := d.lookup(keyPath)
	if !ok {
		return false, malformed(path, keyPath, errors.New("missing key"))
	}
	b, ok := raw.(bool)
	if !ok {
		return false, malformed(path, keyPath, fmt.Errorf("want bool, got %T", raw))
	}
	return b, nil
}

func (d document) floatAt(path, keyPath string) (float64, error) {
	raw, ok := d.lookup(keyPath)
	if !ok {
		return 0, malformed(path, keyPath, errors.New("missing key"))
	}
	num, ok := raw.(json.Number)
	if !ok {
		return 0, malformed(path, keyPath, fmt.Errorf("want number, got %T", raw))
	}
	f, err := num.Float64()
	if err != nil {
		return 0, malformed(path, keyPath, err)
	}
	return f, nil
}

// intAt accepts integral floats such as 2.0 because hand-edited files carry
// them.
func (d document) intAt(path, keyPath string) (int, bool, error) {
	raw, ok := d.lookup(keyPath)
	if !ok {
		return 0, false, nil
	}
	num, ok := raw.(json.Number)
	if !ok {
		return 0, true, malformed(path, keyPath, fmt.Errorf("want integer, got %T", raw))
	}
	if i, err := num.Int64(); err == nil {
		return int(i), true, nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, true, malformed(path, keyPath, fmt.Errorf("want integer, got %s", num))
	}
	return int(f), true, nil
}

func (d document) requireInt(path, keyPath string) (int, error) {
	v, present, err := d.intAt(path, keyPath)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, malformed(path, keyPath, errors.New("missing key"))
	}
	return v, nil
}
