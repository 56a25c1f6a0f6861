package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	BackendChromem  = "chromem"
	BackendPostgres = "postgres"
)

// LLMConfig describes one model endpoint, used for both embedding and inference.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type RAGConfig struct {
	ChunkSize     int     `yaml:"chunk_size"`
	ChunkOverlap  int     `yaml:"chunk_overlap"`
	TopK          int     `yaml:"top_k"`
	MinSimilarity float32 `yaml:"min_similarity"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend"`
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	Compress      bool   `yaml:"compress"`
	SnapshotFile  string `yaml:"snapshot_file"`
	EncryptionKey string `yaml:"encryption_key"`
}

type DatabaseConfig struct {
	DSN       string `yaml:"dsn"`
	Table     string `yaml:"table"`
	Dimension int    `yaml:"dimension"`
	Debug     bool   `yaml:"debug"`
}

type PersonaConfig struct {
	Name string `yaml:"name"`
}

// FallbackConfig holds the canned replies for empty retrieval and backend failures.
// Empty fields keep the built-in wording.
type FallbackConfig struct {
	First    string `yaml:"first"`
	Second   string `yaml:"second"`
	Repeated string `yaml:"repeated"`
	Failure  string `yaml:"failure"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	FeedbackLog string        `yaml:"feedback_log"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

type Config struct {
	EmbedLLM     LLMConfig      `yaml:"embed_llm"`
	InferenceLLM LLMConfig      `yaml:"inference_llm"`
	RAG          RAGConfig      `yaml:"rag"`
	Store        StoreConfig    `yaml:"store"`
	Database     DatabaseConfig `yaml:"database"`
	Persona      PersonaConfig  `yaml:"persona"`
	Fallbacks    FallbackConfig `yaml:"fallbacks"`
	Server       ServerConfig   `yaml:"server"`
	KnowledgeDir string         `yaml:"knowledge_dir"`
	RulesFile    string         `yaml:"rules_file"`
	LogLevel     string         `yaml:"log_level"`
}

// LoadConfig reads the YAML file at path, overlays secrets from the environment
// (and a .env file when present) and fills defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := presetDefaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config populated with defaults only.
func Default() *Config {
	cfg := presetDefaults()
	applyDefaults(&cfg)
	return &cfg
}

func (c *Config) Validate() error {
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap (%d) must be smaller than rag.chunk_size (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	switch c.Store.Backend {
	case BackendChromem:
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("store.backend %q requires database.dsn", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	for _, llm := range []LLMConfig{c.EmbedLLM, c.InferenceLLM} {
		if llm.Provider != ProviderOpenAI && llm.Provider != ProviderOllama {
			return fmt.Errorf("unknown llm provider: %s", llm.Provider)
		}
	}
	if k := len(c.Store.EncryptionKey); k != 0 && k != 32 {
		return fmt.Errorf("store.encryption_key must be 32 bytes, got %d", k)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.EmbedLLM.Key == "" {
			cfg.EmbedLLM.Key = key
		}
		if cfg.InferenceLLM.Key == "" {
			cfg.InferenceLLM.Key = key
		}
	}
	if dsn := os.Getenv("RESUME_CHAT_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if key := os.Getenv("RESUME_CHAT_ENCRYPTION_KEY"); key != "" {
		cfg.Store.EncryptionKey = key
	}
}

// presetDefaults holds the defaults for which zero is a valid setting. They are
// filled in before parsing so an explicit 0 in the file survives.
func presetDefaults() Config {
	var cfg Config
	cfg.InferenceLLM.Temperature = 0.1
	cfg.RAG.ChunkOverlap = 50
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = ProviderOpenAI
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = defaultModel(cfg.EmbedLLM.Provider, "text-embedding-ada-002", "nomic-embed-text")
	}
	if cfg.InferenceLLM.Provider == "" {
		cfg.InferenceLLM.Provider = ProviderOpenAI
	}
	if cfg.InferenceLLM.Model == "" {
		cfg.InferenceLLM.Model = defaultModel(cfg.InferenceLLM.Provider, "gpt-3.5-turbo", "llama3")
	}

	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = 4
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendChromem
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./sha_vector_store"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "resume"
	}

	if cfg.Database.Table == "" {
		cfg.Database.Table = "resume_chunks"
	}
	if cfg.Database.Dimension == 0 {
		cfg.Database.Dimension = 1536
	}

	if cfg.Persona.Name == "" {
		cfg.Persona.Name = "Bharat"
	}
	if cfg.KnowledgeDir == "" {
		cfg.KnowledgeDir = "./knowledge_base"
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
	if cfg.Server.FeedbackLog == "" {
		cfg.Server.FeedbackLog = "feedback.log"
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = 30 * time.Minute
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func defaultModel(provider, openAIModel, ollamaModel string) string {
	if provider == ProviderOllama {
		return ollamaModel
	}
	return openAIModel
}
