package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSON = errors.New("no JSON array or object found")

const fence = "```"

// ExtractEnvelopes pulls the envelope array out of a model reply. Models wrap
// JSON in code fences or add a sentence around it, and sometimes return a
// single envelope object instead of an array; that object is wrapped.
//
// A fenced block wins over text outside it. Otherwise the array and object
// candidates are tried in the order they appear and the first that is valid
// JSON is returned; when neither is, the first candidate is returned so the
// parser can report it.
func ExtractEnvelopes(content string) ([]byte, error) {
	if block, ok := fencedBlock(content); ok {
		content = block
	}

	arr := enclosed(content, "[", "]")
	obj := enclosed(content, "{", "}")
	if obj != "" {
		obj = "[" + obj + "]"
	}

	candidates := []string{arr, obj}
	if obj != "" && (arr == "" || strings.Index(content, "{") < strings.Index(content, "[")) {
		candidates = []string{obj, arr}
	}

	var first string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if json.Valid([]byte(c)) {
			return []byte(c), nil
		}
		if first == "" {
			first = c
		}
	}
	if first == "" {
		return nil, errNoJSON
	}
	return []byte(first), nil
}

// fencedBlock returns the body of the first ``` block, without its language
// tag.
func fencedBlock(content string) (string, bool) {
	start := strings.Index(content, fence)
	if start == -1 {
		return "", false
	}
	rest := content[start+len(fence):]
	end := strings.Index(rest, fence)
	if end == -1 {
		return "", false
	}
	block := rest[:end]
	if nl := strings.Index(block, "\n"); nl != -1 && !strings.ContainsAny(block[:nl], "[{") {
		block = block[nl+1:]
	}
	return strings.TrimSpace(block), true
}

// enclosed slices content from the first open to the last close delimiter.
func enclosed(content, open, close string) string {
	start := strings.Index(content, open)
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content, close)
	if end < start {
		return ""
	}
	return content[start : end+len(close)]
}
