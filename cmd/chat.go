package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/anthropic"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/dialogue"
	"github.com/spigell/talentscout/internal/export"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/screening"
	"github.com/spigell/talentscout/internal/secrets"
)

const (
	commandInfo     = "/info"
	commandProgress = "/progress"
	commandQuit     = "/quit"
)

var chatPrompt = promptui.Prompt{
	Label: "You",
	Validate: func(input string) error {
		if strings.TrimSpace(input) == "" {
			return errors.New("please type a message")
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive screening session",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("export-dir", "", "directory for interview exports (default is current directory)")
	chatCmd.Flags().StringSlice("format", nil, "export formats: json, xlsx (default json)")

	viper.BindPFlag("export.dir", chatCmd.Flags().Lookup("export-dir"))
	viper.BindPFlag("export.formats", chatCmd.Flags().Lookup("format"))
}

// chat runs one screening session in the terminal. The transcript goes to
// stdout and the logs to stderr.
func chat(cmd *cobra.Command) {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), "stderr")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "creating a logger: %s\n", err)
		return
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.AI == nil {
		log.Fatal("ai configuration is required")
	}

	formats, err := exportFormats(config.Export)
	if err != nil {
		log.Fatal("parsing export formats", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		log.Fatal("configuring the language model backend", zap.Error(err))
	}

	aiLog := logger.WithCommonFields(log, config.AI.Provider, generator.Model())
	maxLog := config.AI.MaxLogLength

	engine := dialogue.NewEngine(dialogue.Deps{
		Extractor: screening.NewExtractor(generator, aiLog, maxLog),
		Relevance: screening.NewRelevanceFilter(generator, aiLog, maxLog),
		Updates:   screening.NewUpdateDetector(generator, aiLog, maxLog),
		Questions: screening.NewQuestionGenerator(generator, aiLog, maxLog),
		Logger:    log,
	})

	session := dialogue.NewSession()
	log.Info("starting the screening session",
		zap.String("version", version),
		zap.String(logger.FieldSessionID, session.ID()),
	)

	out := cmd.OutOrStdout()
	printAssistant(out, dialogue.Greeting())

	for {
		input, err := chatPrompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info("exiting", zap.String("reason", "input closed"))
				return
			}
			log.Fatal("reading a message", zap.Error(err))
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case commandQuit:
			log.Info("exiting", zap.String("reason", "quit requested"), zap.Int("stage", int(session.Stage())))
			return
		case commandInfo:
			fmt.Fprintf(out, "\n%s\n\n", dialogue.CandidateInfo(session.Profile()))
			continue
		case commandProgress:
			fmt.Fprintf(out, "\n%s\nInterview Progress: %d%%\n\n", dialogue.StageOverview(session), dialogue.Progress(session))
			continue
		}

		reply, err := engine.Handle(ctx, session, input)
		if err != nil {
			if errors.Is(err, dialogue.ErrEmptyMessage) {
				continue
			}
			log.Fatal("handling a message", zap.Error(err))
		}

		printAssistant(out, reply)
		fmt.Fprintf(out, "Interview Progress: %d%%\n\n", dialogue.Progress(session))

		if session.Stage() == dialogue.StageComplete {
			saveInterview(session, config.Export, formats, log)
			return
		}
	}
}

func printAssistant(out io.Writer, message string) {
	fmt.Fprintf(out, "\nAssistant:\n%s\n\n", message)
}

func saveInterview(session *dialogue.Session, cfg *ExportConfig, formats []export.Format, log *zap.Logger) {
	record, err := dialogue.Export(session, time.Now())
	if err != nil {
		log.Error("building the interview record", zap.Error(err))
		return
	}

	dir := ""
	if cfg != nil {
		dir = cfg.Dir
	}

	paths, err := export.WriteAll(dir, record, formats)
	for _, path := range paths {
		log.Info("interview saved", zap.String("filename", path))
	}
	if err != nil {
		log.Error("saving the interview", zap.Error(err))
	}
}

func exportFormats(cfg *ExportConfig) ([]export.Format, error) {
	if cfg == nil || len(cfg.Formats) == 0 {
		return []export.Format{export.FormatJSON}, nil
	}

	formats := make([]export.Format, 0, len(cfg.Formats))
	for _, raw := range cfg.Formats {
		format, err := export.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}
	return formats, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", ai.ProviderGemini:
		p := providerConfig(cfg.Gemini)
		apiKey, err := secrets.Load(secrets.Source{
			Name:    "gemini api key",
			Value:   p.APIKey,
			File:    p.APIKeyFile,
			Env:     "GEMINI_API_KEY",
			FileEnv: "GEMINI_API_KEY_FILE",
		})
		if err != nil {
			return nil, err
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
			Model:       p.Model,
			Temperature: float32(cfg.Temperature),
			Timeout:     cfg.Timeout,
		}, logger.WithCommonFields(log, ai.ProviderGemini, p.Model))
		if err != nil {
			return nil, err
		}
		return generator, nil
	case ai.ProviderAnthropic:
		p := providerConfig(cfg.Anthropic)
		apiKey, err := secrets.Load(secrets.Source{
			Name:    "anthropic api key",
			Value:   p.APIKey,
			File:    p.APIKeyFile,
			Env:     "ANTHROPIC_API_KEY",
			FileEnv: "ANTHROPIC_API_KEY_FILE",
		})
		if err != nil {
			return nil, err
		}

		generator, err := anthropic.NewGenerator(apiKey, anthropic.Options{
			Model:       p.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger.WithCommonFields(log, ai.ProviderAnthropic, p.Model))
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func providerConfig(p *ProviderConfig) ProviderConfig {
	if p == nil {
		return ProviderConfig{}
	}
	return *p
}
