package config

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// GmailConfig represents the configuration for the Gmail connection
type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
}

// TriageConfig represents the configuration for the triage pipeline
type TriageConfig struct {
	MaxResults     int64
	MaxSnippetSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
}

// ServerConfig represents the configuration for the web front end
type ServerConfig struct {
	ListenAddress string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGmail returns the Gmail configuration
func (c *Config) GetGmail() GmailConfig {
	return GmailConfig{
		CredentialsFile: c.GetString("gmail.credentials_file"),
		TokenFile:       c.GetString("gmail.token_file"),
	}
}

// GetTriage returns the triage pipeline configuration
func (c *Config) GetTriage() TriageConfig {
	return TriageConfig{
		MaxResults:     c.GetInt64("triage.max_results"),
		MaxSnippetSize: c.GetInt("triage.max_snippet_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
	}
}

// GetServer returns the web server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}
