package llm

import (
	"strings"
	"testing"
)

func TestParseResponsePlainJSON(t *testing.T) {
	resp, err := ParseResponse(`{"action": "COMBAT", "params": {"target": "zombie"}, "reason": "threat nearby"}`)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Action != "COMBAT" {
		t.Errorf("action = %q, want COMBAT", resp.Action)
	}
	if resp.Reason != "threat nearby" {
		t.Errorf("reason = %q", resp.Reason)
	}
	if !strings.Contains(string(resp.Params), "zombie") {
		t.Errorf("params = %s, want target zombie", resp.Params)
	}
}

func TestParseResponseEmbeddedJSON(t *testing.T) {
	text := "Sure! Based on the situation, here's my decision:\n```json\n" +
		`{"action": "FLEE", "params": {"sprint": true}, "reason": "low health"}` +
		"\n```\nLet me know if you need anything else."
	resp, err := ParseResponse(text)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Action != "FLEE" {
		t.Errorf("action = %q, want FLEE", resp.Action)
	}
}

func TestParseResponseNestedBraces(t *testing.T) {
	text := `prefix {"action": "MINE", "params": {"block": "iron_ore", "meta": {"depth": 12}}, "reason": "ore spotted"} suffix`
	resp, err := ParseResponse(text)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Action != "MINE" {
		t.Errorf("action = %q, want MINE", resp.Action)
	}
}

func TestParseResponseBracesInsideStrings(t *testing.T) {
	text := `{"action": "CHAT", "params": {"message": "use {braces} freely"}, "reason": "reply"}`
	resp, err := ParseResponse(text)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Action != "CHAT" {
		t.Errorf("action = %q, want CHAT", resp.Action)
	}
}

func TestParseResponseRejectsUnknownAction(t *testing.T) {
	if _, err := ParseResponse(`{"action": "TELEPORT", "reason": "shortcut"}`); err == nil {
		t.Error("expected schema error for unknown action")
	}
}

func TestParseResponseRejectsNonJSON(t *testing.T) {
	if _, err := ParseResponse("I think you should run away from the zombie."); err == nil {
		t.Error("expected error for prose with no JSON")
	}
	if _, err := ParseResponse(""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestParseResponseInterruptOn(t *testing.T) {
	resp, err := ParseResponse(`{"action": "IDLE", "reason": "resting", "interrupt_on": ["threat_detected", "health_damage"]}`)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(resp.InterruptOn) != 2 || resp.InterruptOn[0] != "threat_detected" {
		t.Errorf("interrupt_on = %v", resp.InterruptOn)
	}
}

func TestExtractJSONBlockUnbalanced(t *testing.T) {
	if _, ok := extractJSONBlock(`{"action": "IDLE"`); ok {
		t.Error("expected failure for unbalanced braces")
	}
	if _, ok := extractJSONBlock("no braces here"); ok {
		t.Error("expected failure when no object present")
	}
}
