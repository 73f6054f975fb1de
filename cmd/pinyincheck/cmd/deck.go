package cmd

import (
	"errors"
	"fmt"

	"github.com/f3rmion/pinyincheck/internal/anki"
	"github.com/f3rmion/pinyincheck/internal/logger"
	"github.com/f3rmion/pinyincheck/internal/report"
	"github.com/spf13/cobra"
)

// resultField is the note field that --write fills with the check result.
const resultField = "PinyinCheck"

var deckCmd = &cobra.Command{
	Use:   "deck <file.apkg>",
	Short: "Check the sentence pairs of an Anki deck",
	Long: `Read an Anki .apkg file and check the pinyin field of every note
against its hanzi field. Fields are auto-detected unless given.

With --write, a copy of the deck is saved with a PinyinCheck field holding
each note's result, and failing notes are tagged.

Examples:
  pinyincheck deck sentences.apkg
  pinyincheck deck sentences.apkg --pinyin-field Reading --hanzi-field Sentence
  pinyincheck deck sentences.apkg --write checked.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runDeck,
}

var (
	deckPinyinField string
	deckHanziField  string
	deckWrite       string
	deckTag         string
)

func init() {
	rootCmd.AddCommand(deckCmd)

	deckCmd.Flags().StringVar(&deckPinyinField, "pinyin-field", "", "Field holding the pinyin (auto-detect if not specified)")
	deckCmd.Flags().StringVar(&deckHanziField, "hanzi-field", "", "Field holding the hanzi (auto-detect if not specified)")
	deckCmd.Flags().StringVarP(&deckWrite, "write", "w", "", "Write a copy of the deck with results to this .apkg file")
	deckCmd.Flags().StringVar(&deckTag, "tag", "pinyin-mismatch", "Tag added to failing notes with --write")
}

func runDeck(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	log := logger.Named("deck")

	pkg, err := anki.OpenPackage(args[0])
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()
	log.Debug().Msg(pkg.Summary())

	pinyinField := firstNonEmpty(deckPinyinField, cfg.Deck.PinyinField)
	hanziField := firstNonEmpty(deckHanziField, cfg.Deck.HanziField)
	if pinyinField == "" || hanziField == "" {
		detectedPinyin, detectedHanzi, err := pkg.DetectFields()
		if err != nil {
			return err
		}
		pinyinField = firstNonEmpty(pinyinField, detectedPinyin)
		hanziField = firstNonEmpty(hanziField, detectedHanzi)
		log.Info().Str("pinyin", pinyinField).Str("hanzi", hanziField).Msg("detected fields")
	}

	pairs := pkg.Pairs(pinyinField, hanziField)
	if len(pairs) == 0 {
		return fmt.Errorf("no notes have both %q and %q fields", pinyinField, hanziField)
	}

	entries := make([]report.Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = report.Entry{Source: fmt.Sprintf("note %d", p.NoteID), Pinyin: p.Pinyin, Hanzi: p.Hanzi}
	}

	results, checkErr := checkEntries(cmd, cfg, entries)
	if checkErr != nil && !errors.Is(checkErr, errFailed) {
		return checkErr
	}

	if deckWrite != "" {
		if err := writeResults(pkg, pairs, results, deckWrite); err != nil {
			return err
		}
		log.Info().Str("path", deckWrite).Msg("wrote checked deck")
	}

	return checkErr
}

// writeResults stores each note's result in the result field and saves a copy.
func writeResults(pkg *anki.Package, pairs []anki.Pair, results []report.Result, path string) error {
	pkg.AddField(resultField)

	notes := make(map[int64]*anki.Note, len(pkg.Notes))
	for _, n := range pkg.Notes {
		notes[n.ID] = n
	}

	for i, r := range results {
		note := notes[pairs[i].NoteID]
		if note == nil {
			continue
		}
		value := string(r.Status)
		if r.Err != nil {
			value = r.Err.Error()
		}
		if err := pkg.SetField(note, resultField, value); err != nil {
			return err
		}
		if !r.OK() && deckTag != "" {
			pkg.AddTag(note, deckTag)
		}
	}

	if err := pkg.SaveAs(path); err != nil {
		return fmt.Errorf("saving deck: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
