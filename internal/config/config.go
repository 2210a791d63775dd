package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Persona holds the product-configuration knobs that used to be hard-coded
// in two near-identical page variants: the chat preprompt, the title
// summarization preprompt, the seeded greeting, and the title word cap.
type Persona struct {
	AssistantName  string `yaml:"assistant_name"`
	Preprompt      string `yaml:"preprompt"`
	TitlePreprompt string `yaml:"title_preprompt"`
	Greeting       string `yaml:"greeting"`
	InitialTitle   string `yaml:"initial_title"`
	TitleWordCap   int    `yaml:"title_word_cap"`
}

type Config struct {
	// Server
	Port string
	Env  string

	// Anthropic
	AnthropicAPIKey string
	ClaudeModel     string
	ClaudeMaxTokens int

	// Storage
	UploadDir string

	// Frontend
	FrontendURL string

	Persona Persona
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Env:  getEnvOrDefault("ENV", "development"),
		// Deliberately not required at startup: a missing key surfaces as the
		// [Missing API key] sentinel on the proxy route instead of a crash.
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:     getEnvOrDefault("CLAUDE_MODEL", "claude-3-haiku-20240307"),
		ClaudeMaxTokens: getEnvAsIntOrDefault("CLAUDE_MAX_TOKENS", 1000),
		UploadDir:       getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		Persona:         DefaultPersona(),
	}

	if path := os.Getenv("PERSONA_FILE"); path != "" {
		persona, err := LoadPersona(path)
		if err != nil {
			panic(fmt.Sprintf("failed to load persona file %s: %v", path, err))
		}
		cfg.Persona = persona
	}

	return cfg
}

// DefaultPersona mirrors the original product copy.
func DefaultPersona() Persona {
	return Persona{
		AssistantName: "Summit AI",
		Preprompt:     "You are Summit AI, a helpful and friendly assistant for the annual summit.",
		TitlePreprompt: `Summarize the user's first question into a session topic in 5 words maximum, 1 line. ` +
			`If more than 5 words, end with "...".`,
		Greeting: "Hi there! I'm Summit AI — your internal guide for the annual summit. " +
			"Whether you're prepping for the event, exploring contacts, or need context on key topics, " +
			"I'm here to help. Just let me know what you're working on!",
		InitialTitle: "New Chat",
		TitleWordCap: 5,
	}
}

// LoadPersona reads a persona YAML file. Fields left empty in the file keep
// their defaults so a deployment can override just the preprompt.
func LoadPersona(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, err
	}

	persona := DefaultPersona()
	if err := yaml.Unmarshal(data, &persona); err != nil {
		return Persona{}, fmt.Errorf("invalid persona YAML: %w", err)
	}

	if persona.TitleWordCap <= 0 {
		persona.TitleWordCap = DefaultPersona().TitleWordCap
	}

	return persona, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
