// Package config reads the text-based key/value input format: scalar
// "Key Value" lines at the top level, plus list-block sections
// delimited by a marker line ("&NAME") through a matching "&END".
//
// No ecosystem parser covers this syntax, so the reader is hand-rolled
// over bufio.Scanner in the teacher's own style (see ParsePDB in
// internal/parser), rather than reached for a generic config library
// that wouldn't understand the block-list convention.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// document is the raw parse result: scalar key/value pairs at the top
// level, plus named blocks holding their body lines verbatim for the
// semantic layer (Options) to interpret.
type document struct {
	values map[string]string
	blocks map[string][]string
}

// parseDocument reads r line by line, splitting top-level lines into a
// key and the remainder of the line as its value, and collecting every
// line between a "&NAME" marker and its "&END" into a named block.
func parseDocument(r io.Reader) (*document, error) {
	doc := &document{values: make(map[string]string), blocks: make(map[string][]string)}

	scanner := bufio.NewScanner(r)
	var openBlock string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if openBlock != "" {
			if line == "&END" {
				openBlock = ""
				continue
			}
			doc.blocks[openBlock] = append(doc.blocks[openBlock], line)
			continue
		}

		if strings.HasPrefix(line, "&") {
			if line == "&END" {
				return nil, fmt.Errorf("config: line %d: &END with no open block", lineNo)
			}
			openBlock = strings.TrimPrefix(line, "&")
			if _, exists := doc.blocks[openBlock]; !exists {
				doc.blocks[openBlock] = nil
			}
			continue
		}

		key, value, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected \"Key Value\", got %q", lineNo, line)
		}
		doc.values[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if openBlock != "" {
		return nil, fmt.Errorf("config: block %q never closed with &END", openBlock)
	}
	return doc, nil
}

// has reports whether key was present at the top level.
func (d *document) has(key string) bool {
	_, ok := d.values[key]
	return ok
}
