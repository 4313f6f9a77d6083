package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amishk599/careerpath/internal/model"
)

// Parse failure reasons.
const (
	ReasonEmpty       = "empty_response"
	ReasonUnparseable = "unparseable_response"
)

// Normalized is the outcome of Normalize: either JSON or a parse failure.
type Normalized struct {
	JSON    json.RawMessage
	Failure *model.ParseFailure
}

// OK reports whether the text was turned into JSON.
func (n Normalized) OK() bool {
	return n.Failure == nil
}

// Normalize extracts a JSON payload from free-form model text. The first
// strategy that yields valid JSON wins:
//
//  1. strip surrounding markdown code fences
//  2. parse the stripped text as-is
//  3. parse the span from the first '{' to the last '}'
//  4. drop a leading "Response:" label and parse again
//
// It never panics and never returns an empty result without a Failure.
func Normalize(raw string) Normalized {
	text := stripCodeFences(strings.TrimSpace(raw))
	if text == "" {
		return Normalized{Failure: &model.ParseFailure{Reason: ReasonEmpty, Raw: raw}}
	}

	if json.Valid([]byte(text)) {
		return Normalized{JSON: json.RawMessage(text)}
	}

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if candidate := text[start : end+1]; json.Valid([]byte(candidate)) {
			return Normalized{JSON: json.RawMessage(candidate)}
		}
	}

	if unlabeled, ok := stripResponseLabel(text); ok {
		unlabeled = stripCodeFences(unlabeled)
		if json.Valid([]byte(unlabeled)) {
			return Normalized{JSON: json.RawMessage(unlabeled)}
		}
	}

	return Normalized{Failure: &model.ParseFailure{Reason: ReasonUnparseable, Raw: raw}}
}

// Decode normalizes raw and unmarshals it into T. A payload that is valid JSON
// but does not fit T, including a bare null, is reported as unparseable.
func Decode[T any](raw string) (T, *model.ParseFailure) {
	var out T
	n := Normalize(raw)
	if !n.OK() {
		return out, n.Failure
	}
	if isNull(n.JSON) {
		return out, &model.ParseFailure{Reason: ReasonUnparseable, Raw: raw}
	}
	if err := json.Unmarshal(n.JSON, &out); err != nil {
		return out, &model.ParseFailure{Reason: ReasonUnparseable, Raw: raw}
	}
	return out, nil
}

func isNull(data json.RawMessage) bool {
	return strings.TrimSpace(string(data)) == "null"
}

// stripCodeFences removes a leading ``` or ```json line and a trailing ```.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(strings.TrimPrefix(text, "```json"), "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

const responseLabel = "response:"

func stripResponseLabel(text string) (string, bool) {
	if len(text) < len(responseLabel) || !strings.EqualFold(text[:len(responseLabel)], responseLabel) {
		return text, false
	}
	return strings.TrimSpace(text[len(responseLabel):]), true
}

// describe renders a parse failure for logs without dumping megabytes of text.
func describe(f *model.ParseFailure) string {
	return fmt.Sprintf("%s: %q", f.Reason, truncate(f.Raw, 2000))
}
