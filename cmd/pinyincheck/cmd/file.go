package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/f3rmion/pinyincheck/internal/dataset"
	"github.com/f3rmion/pinyincheck/internal/logger"
	"github.com/f3rmion/pinyincheck/internal/report"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Check every pair in a YAML or TSV file",
	Long: `Check pinyin/hanzi pairs stored in a file.

Supported formats:
  .yaml, .yml   pairs: [{id, pinyin, hanzi}]
  .tsv, .txt    pinyin<TAB>hanzi[<TAB>id], # starts a comment

Example:
  pinyincheck file sentences.tsv --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	path := args[0]
	pairs, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("loading pairs: %w", err)
	}
	logger.Named("file").Debug().Str("path", path).Int("pairs", len(pairs)).Msg("loaded pairs")

	base := filepath.Base(path)
	entries := make([]report.Entry, len(pairs))
	for i, p := range pairs {
		source := fmt.Sprintf("%s#%d", base, i+1)
		switch {
		case p.ID != "":
			source = fmt.Sprintf("%s:%s", base, p.ID)
		case p.Line > 0:
			source = fmt.Sprintf("%s:%d", base, p.Line)
		}
		entries[i] = report.Entry{Source: source, Pinyin: p.Pinyin, Hanzi: p.Hanzi}
	}

	_, err = checkEntries(cmd, cfg, entries)
	return err
}
