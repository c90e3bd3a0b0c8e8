package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	if got := cfg.GetLLM().Provider; got != "openai" {
		t.Fatalf("llm.provider default = %q, want openai", got)
	}

	triage := cfg.GetTriage()
	if triage.MaxResults != 10 {
		t.Fatalf("triage.max_results default = %d, want 10", triage.MaxResults)
	}
	if triage.MaxSnippetSize != 1024 {
		t.Fatalf("triage.max_snippet_size default = %d, want 1024", triage.MaxSnippetSize)
	}

	gmail := cfg.GetGmail()
	if gmail.CredentialsFile != "credentials.json" || gmail.TokenFile != "token.json" {
		t.Fatalf("gmail defaults = %+v", gmail)
	}

	openai := cfg.GetOpenAI()
	if openai.MaxTokens != 20 {
		t.Fatalf("openai.max_tokens default = %d, want 20", openai.MaxTokens)
	}
	if openai.Temperature != 0 {
		t.Fatalf("openai.temperature default = %f, want 0", openai.Temperature)
	}

	if got := cfg.GetServer().ListenAddress; got == "" {
		t.Fatalf("server.listen_address default missing")
	}
}

func TestFlagOverridesThroughViper(t *testing.T) {
	v := NewEmptyViper()
	v.Set("llm.provider", "gemini")
	v.Set("gemini.api_key", "k")
	cfg := NewFromViper(v)

	if got := cfg.GetLLM().Provider; got != "gemini" {
		t.Fatalf("llm.provider = %q, want gemini", got)
	}
	if got := cfg.GetGemini().APIKey; got != "k" {
		t.Fatalf("gemini.api_key = %q, want k", got)
	}
}
