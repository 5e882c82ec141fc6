package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/mira/internal/ai/gemini"
	"github.com/spigell/mira/internal/ai/openai"
	"github.com/spigell/mira/internal/jobdesc"
	"github.com/spigell/mira/internal/logger"
	"github.com/spigell/mira/internal/scoring"
)

const (
	app = "mira"
)

type Config struct {
	Paths          PathsConfig     `mapstructure:"paths"`
	Weights        scoring.Weights `mapstructure:"weights"`
	JobDescription jobdesc.Source  `mapstructure:"job-description"`
	AI             AIConfig        `mapstructure:"ai"`
	Report         ReportConfig    `mapstructure:"report"`
}

type PathsConfig struct {
	Candidates      string `mapstructure:"candidates" validate:"required"`
	Experts         string `mapstructure:"experts" validate:"required"`
	CandidatesTable string `mapstructure:"candidates-table" validate:"required"`
	Report          string `mapstructure:"report" validate:"required"`
}

type AIConfig struct {
	Provider     string          `mapstructure:"provider" validate:"omitempty,oneof=ollama openai gemini"`
	Timeout      time.Duration   `mapstructure:"timeout" validate:"gte=0"`
	MaxLogLength int             `mapstructure:"max-log-length" validate:"gte=0"`
	OpenAI       OpenAIConfig    `mapstructure:"openai"`
	Ollama       OllamaConfig    `mapstructure:"ollama"`
	Gemini       GeminiConfig    `mapstructure:"gemini"`
	Embedding    EmbeddingConfig `mapstructure:"embedding"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	BaseURL        string `mapstructure:"base-url" validate:"omitempty,url"`
}

type OllamaConfig struct {
	BaseURL        string `mapstructure:"base-url" validate:"omitempty,url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries" validate:"gte=0"`
}

// EmbeddingConfig selects the embedding backend. It is independent of the
// completion provider and defaults to the local Ollama server.
type EmbeddingConfig struct {
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=ollama openai gemini"`
}

type ReportConfig struct {
	SortByFinalScore bool   `mapstructure:"sort-by-final-score"`
	PostgresDSN      string `mapstructure:"postgres-dsn"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "mira scores expert resumes against a pool of candidate resumes and a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is mira.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.candidates", "resume/candidates")
	v.SetDefault("paths.experts", "resume/experts")
	v.SetDefault("paths.candidates-table", "resume/candidates_combined.csv")
	v.SetDefault("paths.report", "resume/expert_relevancy_scores.csv")

	v.SetDefault("weights.similarity", scoring.DefaultWeights.Similarity)
	v.SetDefault("weights.candidates", scoring.DefaultWeights.Candidates)
	v.SetDefault("weights.jd", scoring.DefaultWeights.JD)

	v.SetDefault("job-description.text", "")
	v.SetDefault("job-description.file", "")
	v.SetDefault("job-description.url", "")

	v.SetDefault("ai.provider", "ollama")
	v.SetDefault("ai.timeout", time.Duration(0))
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.ollama.base-url", openai.DefaultOllamaURL)
	v.SetDefault("ai.ollama.model", openai.DefaultOllamaModel)
	v.SetDefault("ai.ollama.embedding-model", openai.DefaultOllamaEmbeddingModel)
	v.SetDefault("ai.openai.api-key", "")
	v.SetDefault("ai.openai.api-key-file", "")
	v.SetDefault("ai.openai.base-url", "")
	v.SetDefault("ai.openai.model", openai.DefaultModel)
	v.SetDefault("ai.openai.embedding-model", openai.DefaultEmbeddingModel)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.embedding-model", gemini.DefaultEmbeddingModel)
	v.SetDefault("ai.gemini.max-retries", 0)
	v.SetDefault("ai.embedding.provider", "ollama")

	v.SetDefault("report.sort-by-final-score", false)
	v.SetDefault("report.postgres-dsn", "")

	// MIRA_AI_PROVIDER overrides ai.provider and so on.
	v.SetEnvPrefix(app)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// A missing .env is fine; secrets may come from the environment or config.
	_ = godotenv.Load()

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig reads the given file, or mira.yaml from the working directory
// when it exists. Only an explicitly passed file is required.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}

	return nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}
