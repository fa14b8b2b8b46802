// Package gemini implements [citydesk.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between citydesk's
// domain types and the Gemini API types. The client is constructed from the
// resolved [config.Credentials], so it serves both the Gemini API and
// Vertex AI backends.
package gemini

const (
	defaultModel     = "gemini-3.1-pro-preview"
	defaultMaxTokens = 8192
)
