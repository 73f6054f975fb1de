package cmd

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/f3rmion/pinyincheck/internal/dict"
	"github.com/f3rmion/pinyincheck/internal/pinyin"
	"github.com/f3rmion/pinyincheck/internal/verify"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <hanzi>",
	Short: "Show the candidate pronunciations of each character",
	Long: `Show, for each character, the readings a pinyin syllable may match:
every tone-marked reading and its toneless form.

Example:
  pinyincheck lookup 妈马
  pinyincheck lookup 的 --dict data/dictionary.jsonl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	oracle, d, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, char := range strings.Join(args, "") {
		if unicode.IsSpace(char) {
			continue
		}
		fmt.Fprintf(out, "Character: %c\n", char)

		readings, ok := oracle.Pronunciations(char)
		if !ok {
			fmt.Fprintln(out, "  Not a Chinese character (skipped when matching)")
			fmt.Fprintln(out)
			continue
		}

		for _, r := range readings {
			fmt.Fprintf(out, "  Reading: %s (tone %d, plain %s)\n", r.Toned, pinyin.ToneOf(r.Toned), r.Plain)
		}
		fmt.Fprintf(out, "  Candidates: %s\n", strings.Join(verify.Candidates(readings), " "))
		if char == '儿' || char == '兒' {
			fmt.Fprintln(out, "  Also completes a preceding erhua syllable")
		}
		printEntry(cmd, d, char)
		fmt.Fprintln(out)
	}

	return nil
}

func printEntry(cmd *cobra.Command, d *dict.Dictionary, char rune) {
	if d == nil {
		return
	}
	entry := d.Lookup(char)
	if entry == nil {
		return
	}

	out := cmd.OutOrStdout()
	if entry.Definition != "" {
		fmt.Fprintf(out, "  Meaning: %s\n", entry.Definition)
	}
	if s := dict.FormatDecomposition(entry.Decomposition); s != "" {
		fmt.Fprintf(out, "  Structure: %s\n", s)
	}
	if entry.Radical != "" {
		fmt.Fprintf(out, "  Radical: %s\n", entry.Radical)
	}
}
