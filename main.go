package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"yourturn/internal/config"
)

const releaseVersion = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags)

	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg := &config.Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("YOURTURN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "yourturn",
		Short:         "A team trivia party game with a shared burning fuse.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: YOURTURN_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: YOURTURN_PORT)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "postgres connection string for the question bank; omit to use the built-in catalog (env: YOURTURN_DATABASE_URL)")
	fs.IntVar(&cfg.WinningScore, "winning-score", 5, "round wins needed to take the game (env: YOURTURN_WINNING_SCORE)")
	fs.Float64Var(&cfg.TimerSpeed, "timer-speed", 0.2, "fuse movement in points per second (env: YOURTURN_TIMER_SPEED)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display additional output (env: YOURTURN_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("yourturn v{{.Version}}\n")

	return cmd
}
