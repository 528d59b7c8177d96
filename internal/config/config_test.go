package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.NATSSubject != "publications.summarize" {
		t.Errorf("NATSSubject = %q, want publications.summarize", cfg.NATSSubject)
	}
	if cfg.SummaryMaxInputChars != 3000 {
		t.Errorf("SummaryMaxInputChars = %d, want 3000", cfg.SummaryMaxInputChars)
	}
	if cfg.SummaryTemperature != 0.5 {
		t.Errorf("SummaryTemperature = %v, want 0.5", cfg.SummaryTemperature)
	}
	if cfg.SummaryReadTimeoutSeconds != 600 {
		t.Errorf("SummaryReadTimeoutSeconds = %d, want 600", cfg.SummaryReadTimeoutSeconds)
	}
	if cfg.MaxUploadBytes != 64<<20 {
		t.Errorf("MaxUploadBytes = %d, want 64MiB", cfg.MaxUploadBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("OLLAMA_MODEL", "mistral")
	t.Setenv("SUMMARY_MAX_INPUT_CHARS", "1500")
	t.Setenv("SUMMARY_TEMPERATURE", "0.2")

	cfg := Load()
	if cfg.APIPort != "9999" {
		t.Errorf("APIPort = %q, want override", cfg.APIPort)
	}
	if cfg.OllamaModel != "mistral" {
		t.Errorf("OllamaModel = %q, want override", cfg.OllamaModel)
	}
	if cfg.SummaryMaxInputChars != 1500 {
		t.Errorf("SummaryMaxInputChars = %d, want 1500", cfg.SummaryMaxInputChars)
	}
	if cfg.SummaryTemperature != 0.2 {
		t.Errorf("SummaryTemperature = %v, want 0.2", cfg.SummaryTemperature)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SUMMARY_MAX_INPUT_CHARS", "not-a-number")

	if cfg := Load(); cfg.SummaryMaxInputChars != 3000 {
		t.Errorf("SummaryMaxInputChars = %d, want fallback 3000", cfg.SummaryMaxInputChars)
	}
}
