package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema is the contract a provider response must satisfy: a known
// action tag, an optional params object, and a reason string.
const responseSchema = `{
  "type": "object",
  "required": ["action"],
  "properties": {
    "action": {
      "type": "string",
      "enum": ["MOVE","LOOK","CONTROL","COMBAT","FLEE","MINE","EAT","CRAFT",
               "BUILD","FARM","TRADE","CHAT","IDLE","MOUNT","DISMOUNT",
               "SLEEP","WAKE","USE","DROP"]
    },
    "params": {"type": "object"},
    "reason": {"type": "string"},
    "interrupt_on": {"type": "array", "items": {"type": "string"}}
  }
}`

var compiledSchema = jsonschema.MustCompileString("decision.schema.json", responseSchema)

// ParseResponse tolerantly parses provider output into a Response. It first
// tries the whole text as JSON, then falls back to the first brace-delimited
// block (models often wrap JSON in prose or markdown fences). The result is
// validated against the decision schema.
func ParseResponse(text string) (*Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyResponse
	}

	candidate := text
	if !json.Valid([]byte(candidate)) {
		extracted, ok := extractJSONBlock(text)
		if !ok {
			return nil, fmt.Errorf("no JSON object in response")
		}
		candidate = extracted
	}

	var generic any
	if err := json.Unmarshal([]byte(candidate), &generic); err != nil {
		return nil, fmt.Errorf("parse decision: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("decision schema: %w", err)
	}

	var resp Response
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		return nil, fmt.Errorf("decode decision: %w", err)
	}
	return &resp, nil
}

// extractJSONBlock returns the first balanced brace-delimited block in text.
func extractJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
