// Package cmd contains all CLI commands for pinyincheck.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/pinyincheck/internal/config"
	"github.com/f3rmion/pinyincheck/internal/dict"
	"github.com/f3rmion/pinyincheck/internal/logger"
	"github.com/f3rmion/pinyincheck/internal/pinyin"
	"github.com/f3rmion/pinyincheck/internal/report"
	"github.com/f3rmion/pinyincheck/internal/verify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// errFailed is returned when at least one pair did not verify; the details
// have already been printed.
var errFailed = errors.New("verification failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pinyincheck",
	Short: "Check that pinyin transcriptions match their hanzi",
	Long: `pinyincheck verifies, syllable by syllable, that a tone-marked pinyin
transcription is a valid reading of a Chinese sentence.

Punctuation in the hanzi is skipped, neutral tones are accepted, and erhua
syllables such as "diǎnr" must be followed by 儿 or 兒.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Errors are printed here, except errFailed whose report is already out.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pinyincheck/config.yaml)")
	flags.String("strictness", "", "pinyin strictness: strict, strict-separate-curly-quote, loose")
	flags.String("dict", "", "Make Me a Hanzi dictionary.jsonl with extra readings")
	flags.String("format", "", "output format: text, json")
	flags.Int("workers", 0, "number of pairs checked in parallel")
	flags.Bool("verbose", false, "verbose output")

	for _, name := range []string{"strictness", "format", "workers", "verbose"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.BindPFlag("dictionary", flags.Lookup("dict"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_file", cfgFile)
	} else if dir, err := config.GetConfigDir(); err == nil {
		viper.Set("config_file", filepath.Join(dir, config.FileName))
	}

	viper.SetEnvPrefix("PINYINCHECK")
	viper.AutomaticEnv()
}

// loadSettings reads the config file and applies flag and env overrides.
func loadSettings() (*config.Config, error) {
	cfg := config.Default()
	if path := viper.GetString("config_file"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if viper.IsSet("strictness") {
		cfg.Strictness = viper.GetString("strictness")
	}
	if viper.IsSet("dictionary") {
		cfg.Dictionary = viper.GetString("dictionary")
	}
	if viper.IsSet("format") {
		cfg.Format = viper.GetString("format")
	}
	if viper.IsSet("workers") {
		cfg.Workers = viper.GetInt("workers")
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: os.Stderr})
	return cfg, nil
}

// buildOracle layers the optional dictionary and overrides over go-pinyin.
// The dictionary is returned for lookups and may be nil.
func buildOracle(cfg *config.Config) (dict.Oracle, *dict.Dictionary, error) {
	log := logger.Named("dict")

	var oracle dict.Oracle = dict.NewGoPinyin()
	var d *dict.Dictionary
	if cfg.Dictionary != "" {
		d = dict.NewDictionary()
		if err := d.LoadFromFile(cfg.Dictionary); err != nil {
			return nil, nil, err
		}
		log.Debug().Str("path", cfg.Dictionary).Int("entries", d.Size()).Msg("loaded dictionary")
		oracle = dict.Merge{oracle, d}
	}

	if len(cfg.Overrides.Readings) > 0 {
		ov, err := dict.NewOverrides(dict.Mode(cfg.Overrides.Mode), cfg.Overrides.Readings)
		if err != nil {
			return nil, nil, fmt.Errorf("loading overrides: %w", err)
		}
		log.Debug().Int("characters", ov.Len()).Str("mode", cfg.Overrides.Mode).Msg("applied overrides")
		oracle = ov.Wrap(oracle)
	}

	return oracle, d, nil
}

// buildVerifier creates the verifier described by cfg.
func buildVerifier(cfg *config.Config) (*verify.Verifier, error) {
	strictness, err := pinyin.ParseStrictness(cfg.Strictness)
	if err != nil {
		return nil, err
	}
	oracle, _, err := buildOracle(cfg)
	if err != nil {
		return nil, err
	}
	tok := pinyin.NewTokenizer(strictness)
	logger.Named("verify").Debug().Stringer("strictness", tok.Strictness()).Msg("built verifier")
	return verify.New(tok, oracle), nil
}

// checkEntries runs a batch, prints the report and returns errFailed if any
// pair failed.
func checkEntries(cmd *cobra.Command, cfg *config.Config, entries []report.Entry) ([]report.Result, error) {
	v, err := buildVerifier(cfg)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := report.Run(ctx, v, entries, cfg.Workers)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	if cfg.Format == "json" {
		err = report.WriteJSON(out, results)
	} else {
		err = report.Render(out, results, report.Options{ShowOK: viper.GetBool("verbose")})
	}
	if err != nil {
		return nil, err
	}

	if report.Summarize(results).Failed() {
		return results, errFailed
	}
	return results, nil
}
