package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/foiabuddy/internal/config"
	"github.com/ShayCichocki/foiabuddy/internal/llm"
)

// newClient builds the LLM client from configuration.
func newClient(cfg *config.Config) (llm.Client, error) {
	if cfg.Anthropic.APIKey == "" && !cfg.Anthropic.UseAWSBedrock {
		return nil, fmt.Errorf("%s", "no Anthropic API key configured\n\n"+
			"Set ANTHROPIC_API_KEY, or add anthropic.api_key to " +
			config.GetUserConfigPath() + ",\n" +
			"or enable anthropic.use_aws_bedrock for AWS credentials")
	}

	return llm.NewAnthropicClient(llm.AnthropicConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
}
