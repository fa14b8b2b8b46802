// Package config resolves process configuration: the Gemini access
// credentials from environment values, and the agent declaration file.
//
// Resolution happens once, in main. The results are plain immutable values
// passed by parameter to whatever needs them; nothing in this package or
// below reads the environment ad hoc.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/citydesk/citydesk"
	"google.golang.org/genai"
)

// Environment keys recognized by Resolve.
const (
	EnvUseVertex       = "GOOGLE_GENAI_USE_VERTEXAI"
	EnvAPIKey          = "GOOGLE_API_KEY"
	EnvProject         = "GOOGLE_CLOUD_PROJECT"
	EnvLocation        = "GOOGLE_CLOUD_LOCATION"
	EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Mode identifies which of the two mutually exclusive access configurations
// is active.
type Mode string

const (
	ModeAPIKey Mode = "api_key"
	ModeVertex Mode = "vertex"
)

// Credentials is the resolved access configuration. Exactly one mode is
// active; the zero value is invalid. Construct with [APIKey], [Vertex], or
// [Resolve].
type Credentials struct {
	mode            Mode
	apiKey          string
	project         string
	location        string
	credentialsFile string
}

// APIKey returns credentials for the Gemini API with an API key.
func APIKey(key string) Credentials {
	return Credentials{mode: ModeAPIKey, apiKey: key}
}

// Vertex returns credentials for Vertex AI. credentialsFile may be empty;
// when set it names the service-account file the SDK discovers through
// application default credentials.
func Vertex(project, location, credentialsFile string) Credentials {
	return Credentials{
		mode:            ModeVertex,
		project:         project,
		location:        location,
		credentialsFile: credentialsFile,
	}
}

// Mode returns the active access mode.
func (c Credentials) Mode() Mode { return c.mode }

// Key returns the API key. Empty unless Mode is ModeAPIKey.
func (c Credentials) Key() string { return c.apiKey }

// Project returns the Vertex project ID. Empty unless Mode is ModeVertex.
func (c Credentials) Project() string { return c.project }

// Location returns the Vertex location. Empty unless Mode is ModeVertex.
func (c Credentials) Location() string { return c.location }

// CredentialsFile returns the optional service-account file path.
func (c Credentials) CredentialsFile() string { return c.credentialsFile }

// ClientConfig maps the credentials onto the genai SDK client configuration.
func (c Credentials) ClientConfig() (*genai.ClientConfig, error) {
	switch c.mode {
	case ModeAPIKey:
		return &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		}, nil
	case ModeVertex:
		return &genai.ClientConfig{
			Project:  c.project,
			Location: c.location,
			Backend:  genai.BackendVertexAI,
		}, nil
	default:
		return nil, fmt.Errorf("credentials not resolved: %w", citydesk.ErrConfiguration)
	}
}

// Resolve determines exactly one access mode from environment values.
// lookup is typically os.Getenv; tests pass a map lookup. Any combination
// that does not identify exactly one mode is a configuration error — the
// resolver never guesses a default.
func Resolve(lookup func(string) string) (Credentials, error) {
	var (
		flagRaw  = strings.TrimSpace(lookup(EnvUseVertex))
		apiKey   = strings.TrimSpace(lookup(EnvAPIKey))
		project  = strings.TrimSpace(lookup(EnvProject))
		location = strings.TrimSpace(lookup(EnvLocation))
		credFile = strings.TrimSpace(lookup(EnvCredentialsFile))
	)

	if flagRaw == "" {
		return Credentials{}, fmt.Errorf("%s is not set: %w", EnvUseVertex, citydesk.ErrConfiguration)
	}
	useVertex, err := strconv.ParseBool(flagRaw)
	if err != nil {
		return Credentials{}, fmt.Errorf("%s=%q is not a boolean: %w", EnvUseVertex, flagRaw, citydesk.ErrConfiguration)
	}

	hasKey := apiKey != ""
	hasVertexFields := project != "" || location != ""
	if hasKey && hasVertexFields {
		return Credentials{}, fmt.Errorf(
			"ambiguous credentials: %s and %s/%s are both set: %w",
			EnvAPIKey, EnvProject, EnvLocation, citydesk.ErrConfiguration)
	}

	if !useVertex {
		if !hasKey {
			return Credentials{}, fmt.Errorf("%s is not set: %w", EnvAPIKey, citydesk.ErrConfiguration)
		}
		return APIKey(apiKey), nil
	}

	var missing []string
	if project == "" {
		missing = append(missing, EnvProject)
	}
	if location == "" {
		missing = append(missing, EnvLocation)
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%s not set: %w", strings.Join(missing, ", "), citydesk.ErrConfiguration)
	}
	return Vertex(project, location, credFile), nil
}

// FromEnv resolves credentials from the process environment.
func FromEnv() (Credentials, error) {
	return Resolve(os.Getenv)
}
