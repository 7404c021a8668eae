package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "talentscout"
)

type Config struct {
	AI     *AIConfig     `mapstructure:"ai"`
	Export *ExportConfig `mapstructure:"export"`
}

type AIConfig struct {
	Provider     string          `mapstructure:"provider"`
	Timeout      time.Duration   `mapstructure:"timeout"`
	Temperature  float64         `mapstructure:"temperature"`
	MaxLogLength int             `mapstructure:"max-log-length"`
	Gemini       *ProviderConfig `mapstructure:"gemini"`
	Anthropic    *ProviderConfig `mapstructure:"anthropic"`
}

type ProviderConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type ExportConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout is a chat assistant that screens job candidates and runs a short technical interview",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", 60*time.Second)
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("export.dir", ".")
	viper.SetDefault("export.formats", []string{"json"})

	if err := viper.BindEnv("ai.provider", "TALENTSCOUT_AI_PROVIDER"); err != nil {
		log.Fatalf("binding TALENTSCOUT_AI_PROVIDER environment variable: %v", err)
	}
}

func initConfig() {
	// Config needed only for chat command now. If there is no config, we can skip initialization
	if chatCmd.CalledAs() == "" {
		return
	}

	// API keys may live in a .env file next to the binary.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// We can't proceed if the config file parsed with error.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
