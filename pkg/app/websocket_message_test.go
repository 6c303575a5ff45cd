package app

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// 单元测试: action|payload 消息拆分
func TestParseRawMessage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantOK   bool
		wantType string
		wantData string
	}{
		{"action with json payload", `EntryModify|{"id":1}`, true, "EntryModify", `{"id":1}`},
		{"empty payload", "JournalView|", true, "JournalView", ""},
		{"payload containing separator", `RecordingStop|{"note":"a|b"}`, true, "RecordingStop", `{"note":"a|b"}`},
		{"authorization token payload", "Authorization|raw-token-string", true, "Authorization", "raw-token-string"},
		{"no separator", "EntryModify", false, "", ""},
		{"leading separator", "|payload", false, "", ""},
		{"empty string", "", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := ParseRawMessage(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseRawMessage(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if msg.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", msg.Type, tt.wantType)
			}
			if string(msg.Data) != tt.wantData {
				t.Errorf("Data = %q, want %q", string(msg.Data), tt.wantData)
			}
		})
	}
}

// 验证 action|payload 组帧在任意负载下可逆

func TestProperty_RawMessageFramingRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// 任意 action 与任意负载组帧后解析应还原
	properties.Property("frame then parse restores action and payload", prop.ForAll(
		func(action string, payload string) bool {
			raw := action + "|" + payload
			msg, ok := ParseRawMessage(raw)
			if !ok {
				return false
			}
			return msg.Type == action && string(msg.Data) == payload
		},
		gen.RegexMatch(`[A-Za-z]{1,24}`),
		gen.AnyString(),
	))

	// 不含分隔符的消息必须被拒绝
	properties.Property("message without separator is rejected", prop.ForAll(
		func(raw string) bool {
			if strings.Contains(raw, "|") {
				return true
			}
			_, ok := ParseRawMessage(raw)
			return !ok
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
