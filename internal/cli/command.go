package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wordgarden/internal"
	"codeberg.org/snonux/wordgarden/internal/vocab"
)

// Runner executes what the commands ask for
type Runner interface {
	Home(cmd *cobra.Command) error
	Learn(cmd *cobra.Command, theme string) error
	Quiz(cmd *cobra.Command, theme string) error
	Themes(cmd *cobra.Command) error
	Say(cmd *cobra.Command, text string) error
	ListModels(cmd *cobra.Command) error
	Cache(cmd *cobra.Command, action string) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, run Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordgarden",
		Short: "Chinese vocabulary flashcards and quizzes for kids",
		Long: `wordgarden generates small themed sets of simplified Chinese words
for young children and lets them browse flashcards with spoken
pronunciation or play a multiple-choice quiz.

Examples:
  wordgarden                  # Interactive home screen (default)
  wordgarden learn animals    # Flashcards for the "animals" theme
  wordgarden quiz fruits      # Quiz for the "fruits" theme
  wordgarden say 你好          # Speak some text`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ListModels {
				return run.ListModels(cmd)
			}
			return run.Home(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:       "learn <theme>",
			Short:     "Browse flashcards for a theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: vocab.ThemeIDs(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run.Learn(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:       "quiz <theme>",
			Short:     "Play a quiz for a theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: vocab.ThemeIDs(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run.Quiz(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "themes",
			Short: "List the available themes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run.Themes(cmd)
			},
		},
		&cobra.Command{
			Use:   "say <text>",
			Short: "Speak Chinese text once",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run.Say(cmd, strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:       "cache [stats|clear|archive]",
			Short:     "Inspect, clear or archive the speech cache",
			Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{"stats", "clear", "archive"},
			RunE: func(cmd *cobra.Command, args []string) error {
				action := "stats"
				if len(args) == 1 {
					action = args[0]
				}
				return run.Cache(cmd, action)
			},
		},
	)

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordgarden.yaml)")
	pf.StringVar(&flags.LogMode, "log-mode", flags.LogMode, "Log format: development or production")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Word list flags
	pf.StringVar(&flags.ContentProvider, "content-provider", flags.ContentProvider, "Word list generator: gemini or openai")
	pf.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for word lists")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for word lists")
	pf.IntVar(&flags.WordCount, "words", flags.WordCount, "Number of words per theme")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Deadline for one word list request")

	// Speech flags
	pf.StringVar(&flags.SpeechProvider, "speech-provider", flags.SpeechProvider, "Speech provider: gemini, openai or espeak")
	pf.StringVar(&flags.GeminiTTSModel, "gemini-tts-model", flags.GeminiTTSModel, "Gemini speech model")
	pf.StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini prebuilt voice, e.g. Puck, Kore, Leda")
	pf.StringVar(&flags.OpenAITTSModel, "openai-tts-model", flags.OpenAITTSModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, coral, nova, shimmer, ...")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	pf.StringVar(&flags.ESpeakVoice, "espeak-voice", flags.ESpeakVoice, "espeak-ng voice for the offline provider, e.g. cmn, cmn+f3")
	pf.BoolVar(&flags.SpeechFallback, "speech-fallback", flags.SpeechFallback, "Fall back to the other speech provider when its key is set")
	pf.BoolVar(&flags.SpeechCache, "speech-cache", flags.SpeechCache, "Cache synthesized speech on disk")
	pf.StringVar(&flags.CachePath, "cache-path", defaultCachePath(), "Speech cache database")

	// Playback and quiz flags
	pf.StringVar(&flags.Device, "device", flags.Device, "Audio output: auto, none, pw-play, paplay, aplay or ffplay")
	pf.DurationVar(&flags.Dwell, "dwell", flags.Dwell, "How long a quiz answer stays revealed")

	// Root-only flags
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available Gemini and OpenAI models for the configured API keys")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func defaultCachePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "wordgarden", "speech.db")
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("content.provider", pf.Lookup("content-provider"))
	viper.BindPFlag("content.gemini_model", pf.Lookup("gemini-model"))
	viper.BindPFlag("content.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("content.word_count", pf.Lookup("words"))
	viper.BindPFlag("content.timeout", pf.Lookup("timeout"))
	viper.BindPFlag("speech.provider", pf.Lookup("speech-provider"))
	viper.BindPFlag("speech.gemini_model", pf.Lookup("gemini-tts-model"))
	viper.BindPFlag("speech.gemini_voice", pf.Lookup("gemini-voice"))
	viper.BindPFlag("speech.openai_model", pf.Lookup("openai-tts-model"))
	viper.BindPFlag("speech.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("speech.openai_speed", pf.Lookup("openai-speed"))
	viper.BindPFlag("speech.espeak_voice", pf.Lookup("espeak-voice"))
	viper.BindPFlag("speech.fallback", pf.Lookup("speech-fallback"))
	viper.BindPFlag("speech.cache", pf.Lookup("speech-cache"))
	viper.BindPFlag("speech.cache_path", pf.Lookup("cache-path"))
	viper.BindPFlag("playback.device", pf.Lookup("device"))
	viper.BindPFlag("quiz.dwell", pf.Lookup("dwell"))
	viper.BindPFlag("log.mode", pf.Lookup("log-mode"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordgarden" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordgarden")
	}

	// Environment variables
	viper.SetEnvPrefix("WORDGARDEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("content.gemini_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("content.openai_key")
}
