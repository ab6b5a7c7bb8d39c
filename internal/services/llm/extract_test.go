package llm

import "testing"

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"prose", "Sure! Here it is:\n{\"a\":{\"b\":2}}\nHope that helps {", `{"a":{"b":2}}`, true},
		{"fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"brace in string", `{"code":"func() { return }","n":1} trailing`, `{"code":"func() { return }","n":1}`, true},
		{"escaped quote", `{"s":"say \"}\" now"}`, `{"s":"say \"}\" now"}`, true},
		{"unbalanced prefix", `{ broken ... {"ok":true}`, `{"ok":true}`, true},
		{"none", "no structure here", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.content)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ExtractJSONObject(%q) = %q, %v; want %q, %v", tc.content, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON("Result: {\"ok\":true} done", &parsed); err != nil || !parsed.OK {
		t.Fatalf("DecodeLLMJSON = %v, %+v", err, parsed)
	}
	if err := DecodeLLMJSON("   ", &parsed); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
