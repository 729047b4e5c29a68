package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ReleaseVersion = "0.1.0"
	envPrefix      = "KALIYO"
)

type Config struct {
	Bind             string
	Port             int
	TurnDuration     time.Duration
	NextTurnDelay    time.Duration
	MaxPlayers       int
	MinPlayers       int
	DefaultScoreGoal int
	MinScoreGoal     int
	ChatRate         float64
	ChatBurst        int
	WordsFile        string
	AllowedOrigins   []string
	EnvFile          string
	Verbose          bool
	LogJSON          bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.TurnDuration < time.Second {
		return fmt.Errorf("turn duration must be at least 1s: %s", c.TurnDuration)
	}
	if c.NextTurnDelay < 0 {
		return fmt.Errorf("next turn delay must not be negative: %s", c.NextTurnDelay)
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2: %d", c.MinPlayers)
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("max players (%d) must not be below min players (%d)", c.MaxPlayers, c.MinPlayers)
	}
	if c.MinScoreGoal < 1 {
		return fmt.Errorf("min score goal must be positive: %d", c.MinScoreGoal)
	}
	if c.DefaultScoreGoal < c.MinScoreGoal {
		return fmt.Errorf("default score goal (%d) must not be below min score goal (%d)", c.DefaultScoreGoal, c.MinScoreGoal)
	}
	if c.ChatRate <= 0 || c.ChatBurst < 1 {
		return errors.New("chat rate and burst must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. A missing file is fine.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// NewCommand builds the root command. run is invoked with a validated config.
func NewCommand(cfg *Config, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "kaliyo",
		Short:         "Real-time draw-and-guess party game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       ReleaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadEnvFile(cfg.EnvFile); err != nil {
				return err
			}
			if err := applyEnv(cmd.Flags(), v); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()

	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	flags.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: KALIYO_BIND)")
	flags.IntVarP(&cfg.Port, "port", "p", 3001, "port to listen on (env: KALIYO_PORT)")
	flags.DurationVar(&cfg.TurnDuration, "turn-duration", internal.TurnDuration, "length of one drawing turn (env: KALIYO_TURN_DURATION)")
	flags.DurationVar(&cfg.NextTurnDelay, "next-turn-delay", internal.NextTurnDelay, "pause after a correct guess before the next turn (env: KALIYO_NEXT_TURN_DELAY)")
	flags.IntVar(&cfg.MaxPlayers, "max-players", internal.MaxPlayersPerRoom, "players allowed per room (env: KALIYO_MAX_PLAYERS)")
	flags.IntVar(&cfg.MinPlayers, "min-players", internal.MinPlayersToStart, "players needed to start and keep a game going (env: KALIYO_MIN_PLAYERS)")
	flags.IntVar(&cfg.DefaultScoreGoal, "default-score-goal", internal.DefaultScoreGoal, "team score goal when none is given (env: KALIYO_DEFAULT_SCORE_GOAL)")
	flags.IntVar(&cfg.MinScoreGoal, "min-score-goal", internal.MinScoreGoal, "lowest score goal a host may choose (env: KALIYO_MIN_SCORE_GOAL)")
	flags.Float64Var(&cfg.ChatRate, "chat-rate", 2, "guesses and chat messages per second per connection (env: KALIYO_CHAT_RATE)")
	flags.IntVar(&cfg.ChatBurst, "chat-burst", 5, "burst allowance for guesses and chat (env: KALIYO_CHAT_BURST)")
	flags.StringVar(&cfg.WordsFile, "words", "", "csv file of display,transliteration prompts; built-in letters when empty (env: KALIYO_WORDS)")
	flags.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", []string{"*"}, "origins allowed for CORS and websocket upgrades (env: KALIYO_ALLOWED_ORIGINS)")
	flags.StringVar(&cfg.EnvFile, "env-file", ".env", "dotenv file loaded before reading KALIYO_* variables")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log debug output (env: KALIYO_VERBOSE)")
	flags.BoolVar(&cfg.LogJSON, "log-json", false, "log JSON lines instead of console output (env: KALIYO_LOG_JSON)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("kaliyo v{{.Version}}\n")

	return cmd
}

// applyEnv copies KALIYO_* values onto flags the command line left unset.
func applyEnv(flags *pflag.FlagSet, v *viper.Viper) error {
	var firstErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "help" || f.Name == "version" {
			return
		}
		_ = v.BindPFlag(f.Name, f)
		if _, ok := os.LookupEnv(envKey(f.Name)); !ok {
			return
		}
		if err := flags.Set(f.Name, v.GetString(f.Name)); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("invalid value for %s: %w", f.Name, err)
		}
	})
	return firstErr
}

func envKey(flag string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
