// Package ai rewrites content items with a generative text model.
//
// A Generator sends a GenerationConfig to a provider and returns a
// provider-neutral GenerationResponse. Two providers are available:
//
//   - GeminiGenerator: the Gemini generateContent API (GEMINI_API_KEY)
//   - AnthropicGenerator: the Anthropic Messages API (ANTHROPIC_API_KEY)
//
// The Rewriter builds on a Generator to summarize text, enrich items with
// ai_summary, ai_tags or ai_analysis metadata, and compose podcast-style
// content from a list of items.
//
// A missing API key is reported as ErrMissingAPIKey before any network call.
package ai
