package main

import (
	"github.com/rs/zerolog"

	"github.com/gyeh/caselog/internal/oracle"
	"github.com/gyeh/caselog/internal/schema"
)

// newOracleClient builds the oracle client from env-backed config. With
// --no-ai or without an API key the client reports disabled and every
// caller degrades to rules-only behavior.
func newOracleClient(log zerolog.Logger) *oracle.Client {
	key := cfg.OpenAIAPIKey
	if cfg.NoAI {
		key = ""
	}
	client := oracle.New(oracle.Config{
		APIKey:  key,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, log)
	if !client.Enabled() {
		log.Info().Msg("oracle disabled, running rules-only")
	}
	return client
}

// semanticMapper wires the semantic column classifier, or nil when the
// oracle is disabled.
func semanticMapper(client *oracle.Client) schema.Classifier {
	if !client.Enabled() {
		return nil
	}
	return &schema.SemanticMapper{Oracle: client}
}
