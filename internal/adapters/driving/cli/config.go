package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stereosearch/stereo/internal/adapters/driven/embedding"
	"github.com/stereosearch/stereo/internal/core/domain"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage settings",
		Long: `View and change the stereo configuration.

Settings live in ~/.stereo/config.toml. API keys can also come from the
environment (OPENAI_API_KEY, QDRANT_API_KEY) or a local .env file, which
overrides the file.`,
		RunE: runConfigShow(app),
	}

	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	cmd.AddCommand(newConfigSetKeyCmd(app))

	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE:  runConfigShow(app),
	}
}

func runConfigShow(app *App) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		store, err := app.ConfigStore()
		if err != nil {
			return err
		}
		settings, err := store.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		cmd.Println("Current Settings")
		cmd.Println("================")
		cmd.Println()

		cmd.Println("[Provider]")
		cmd.Printf("  Provider: %s\n", settings.Provider)
		switch settings.Provider {
		case domain.ProviderOpenAI:
			if settings.OpenAIAPIKey != "" {
				cmd.Printf("  API Key: %s\n", maskAPIKey(settings.OpenAIAPIKey))
			} else {
				cmd.Printf("  API Key: (not set)\n")
			}
		case domain.ProviderOllama:
			cmd.Printf("  Base URL: %s\n", settings.OllamaURL)
		}
		cmd.Println()

		cmd.Println("[Spaces]")
		cmd.Printf("  NLP model:  %s (%d dimensions)\n", settings.NLP.Model, settings.NLP.Dimensions)
		cmd.Printf("  Code model: %s (%d dimensions)\n", settings.Code.Model, settings.Code.Dimensions)
		cmd.Println()

		cmd.Println("[Fusion]")
		cmd.Printf("  Weights: nlp %.1f, code %.1f\n", settings.NLPWeight, settings.CodeWeight)
		cmd.Printf("  Over-fetch: %.1fx\n", settings.OverFetch)
		cmd.Printf("  Default limit: %d\n", settings.Limit)
		cmd.Println()

		cmd.Println("[Index]")
		cmd.Printf("  Collection: %s\n", settings.Collection)
		cmd.Printf("  Chunk size: %d bytes\n", settings.ChunkSize)
		cmd.Println()

		cmd.Println("[Qdrant]")
		cmd.Printf("  URL: %s\n", settings.QdrantURL)
		if settings.QdrantAPIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.QdrantAPIKey))
		}
		cmd.Println()

		if err := settings.Validate(); err != nil {
			cmd.Printf("Warning: %v\n", err)
			cmd.Println("Run 'stereo config set' to fix configuration issues.")
		} else {
			cmd.Println("Configuration is valid.")
		}
		cmd.Printf("Config file: %s\n", store.Path())

		return nil
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Long: `Set one configuration value and save the file.

Keys:
  provider      embedding backend, openai or ollama
  collection    vector store collection name
  chunk-size    chunk window size in bytes
  nlp-model     embedding model for the nlp space
  code-model    embedding model for the code space
  dimensions    vector size for both spaces
  nlp-weight    fusion weight for the nlp score
  code-weight   fusion weight for the code score
  limit         default search result count
  qdrant-url    Qdrant endpoint
  ollama-url    Ollama endpoint`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.ConfigStore()
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			if err := applySetting(&settings, args[0], args[1]); err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}
			if err := store.Save(settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			cmd.Printf("Set %s to %s.\n", args[0], args[1])
			return nil
		},
	}
}

func applySetting(settings *domain.Settings, key, value string) error {
	switch key {
	case "provider":
		settings.Provider = domain.Provider(value)
	case "collection":
		settings.Collection = value
	case "chunk-size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("chunk-size must be an integer: %w", err)
		}
		settings.ChunkSize = n
	case "nlp-model":
		settings.NLP.Model = value
	case "code-model":
		settings.Code.Model = value
	case "dimensions":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("dimensions must be an integer: %w", err)
		}
		settings.NLP.Dimensions = n
		settings.Code.Dimensions = n
	case "nlp-weight":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("nlp-weight must be a number: %w", err)
		}
		settings.NLPWeight = f
	case "code-weight":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("code-weight must be a number: %w", err)
		}
		settings.CodeWeight = f
	case "limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("limit must be an integer: %w", err)
		}
		settings.Limit = n
	case "qdrant-url":
		settings.QdrantURL = value
	case "ollama-url":
		settings.OllamaURL = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func newConfigSetKeyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [openai|qdrant]",
		Short: "Set an API key without echoing it",
		Long: `Prompts for an API key with terminal echo disabled and saves it to the
config file. Defaults to the openai key; pass qdrant for Qdrant Cloud.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "openai"
			if len(args) > 0 {
				target = args[0]
			}
			if target != "openai" && target != "qdrant" {
				return fmt.Errorf("unknown key target %q, expected openai or qdrant", target)
			}

			store, err := app.ConfigStore()
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			cmd.Print("Enter API key: ")
			key := readPassword()
			cmd.Println()
			if key == "" {
				return errors.New("API key must not be empty")
			}

			switch target {
			case "openai":
				settings.OpenAIAPIKey = key
			case "qdrant":
				settings.QdrantAPIKey = key
			}

			if err := store.Save(settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			cmd.Printf("Saved %s API key (%s).\n", target, maskAPIKey(key))

			// Ping the provider so a bad key surfaces now, not mid-index.
			if target == "openai" && settings.Provider == domain.ProviderOpenAI {
				cmd.Print("Validating configuration... ")
				if err := embedding.Validate(settings); err != nil {
					cmd.Printf("FAILED: %v\n", err)
					return fmt.Errorf("embedding configuration validation failed: %w", err)
				}
				cmd.Println("OK")
			}

			return nil
		},
	}
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo first
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
