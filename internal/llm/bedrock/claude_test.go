package bedrock

import (
	"encoding/json"
	"testing"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
)

func TestEncodeRequest(t *testing.T) {
	body, err := encodeRequest(llm.LLMRequest{Prompt: "grade this", MaxTokens: 600, Temperature: 0})
	if err != nil {
		t.Fatalf("encodeRequest failed: %v", err)
	}

	var payload claudeMessageRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Payload is not valid JSON: %v", err)
	}
	if payload.AnthropicVersion != anthropicVersion {
		t.Errorf("Expected version %s, got %s", anthropicVersion, payload.AnthropicVersion)
	}
	if payload.MaxTokens != 600 {
		t.Errorf("Expected max_tokens 600, got %d", payload.MaxTokens)
	}
	if len(payload.Messages) != 1 || payload.Messages[0].Role != "user" || payload.Messages[0].Content != "grade this" {
		t.Errorf("Unexpected messages %+v", payload.Messages)
	}
}

func TestDecodeResponse(t *testing.T) {
	body := []byte(`{"content":[{"type":"thinking","text":"hmm"},{"type":"text","text":"{\"completeness\":"},{"type":"text","text":"{}}"}],"stop_reason":"end_turn"}`)

	resp, err := decodeResponse(body)
	if err != nil {
		t.Fatalf("decodeResponse failed: %v", err)
	}
	if resp.Content != `{"completeness":{}}` {
		t.Errorf("Unexpected content %q", resp.Content)
	}
	if resp.StopReason != "end_turn" {
		t.Errorf("Expected stop reason end_turn, got %s", resp.StopReason)
	}
}

func TestDecodeResponse_Invalid(t *testing.T) {
	if _, err := decodeResponse([]byte("not json")); err == nil {
		t.Error("Expected error for invalid body")
	}
}
