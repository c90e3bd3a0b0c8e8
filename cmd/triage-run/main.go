package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mikey/mail-triage/internal/adapters/gmailbox"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/logging"
	"github.com/mikey/mail-triage/internal/utils"
	"go.uber.org/zap"
)

// defaultInstruction narrows triage to the two-folder set for one-shot runs.
const defaultInstruction = "Organize my emails only into two folders: Work and Social."

var (
	// LLM provider flags
	provider    = flag.String("provider", "openai", "LLM provider (openai, gemini, bedrock)")
	maxTokens   = flag.Int("max-tokens", 20, "Maximum tokens for the completion")
	temperature = flag.Float64("temperature", 0.0, "Temperature for the completion")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gmail flags
	credentialsFile = flag.String("credentials", "credentials.json", "Path to the Gmail client secret file")
	tokenFile       = flag.String("token", "token.json", "Path to the cached OAuth token file")
	maxResults      = flag.Int64("max-results", 10, "Maximum unread messages per run")

	// Output flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	completer, err := factory.NewCompleterFactory(cfg, logger).CreateCompleter()
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}
	defer func() {
		if closer, ok := completer.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close completion client", zap.Error(err))
			}
		}
	}()

	textProcessor := utils.NewTextProcessor(logger)
	classifier := core.NewClassifier(completer, textProcessor, cfg.GetTriage().MaxSnippetSize, logger)
	opener := gmailbox.NewFactory(cfg, logger).Opener()
	svc := core.NewTriageService(opener, classifier, logger, cfg.GetTriage().MaxResults)

	fmt.Println("Running mail triage...")
	report, err := svc.Run(context.Background(), defaultInstruction)
	if err != nil {
		logger.Fatal("Triage run failed", zap.Error(err))
	}

	fmt.Println(report)
}

// createConfigFromFlags builds a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)

	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.model_name", *openaiModelName)
	v.Set("openai.max_tokens", *maxTokens)
	v.Set("openai.temperature", *temperature)

	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModelName)
	v.Set("gemini.max_tokens", *maxTokens)
	v.Set("gemini.temperature", *temperature)

	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModelID)
	v.Set("bedrock.max_tokens", *maxTokens)
	v.Set("bedrock.temperature", *temperature)

	v.Set("gmail.credentials_file", *credentialsFile)
	v.Set("gmail.token_file", *tokenFile)
	v.Set("triage.max_results", *maxResults)

	return config.NewFromViper(v)
}
