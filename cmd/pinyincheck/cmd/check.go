package cmd

import (
	"github.com/f3rmion/pinyincheck/internal/report"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <pinyin> <hanzi>",
	Short: "Check a single pinyin/hanzi pair",
	Long: `Check that a pinyin transcription matches a Chinese sentence.

Examples:
  pinyincheck check "Nǐ qù nǎli?" "你去哪里？"
  pinyincheck check "yīdiǎnr" "一点儿" --verbose`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	entries := []report.Entry{{Source: "input", Pinyin: args[0], Hanzi: args[1]}}
	_, err = checkEntries(cmd, cfg, entries)
	return err
}
