package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/tsawler/pagelayout/ocr"
)

var langCmd = &cobra.Command{
	Use:   "lang <page.json>",
	Short: "Detect the language of a recognized page",
	Long: `Detects the dominant language of the page text and prints it with the
matching Tesseract language code, which can be used to re-run OCR.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := readPage(args[0])
		if err != nil {
			return err
		}
		fragments, err := page.allFragments()
		if err != nil {
			return err
		}

		tag := ocr.DetectLanguage(fragments)
		if tag == language.Und {
			cmd.Println("und")
			return nil
		}
		code, err := ocr.TesseractLanguages(tag.String())
		if err != nil {
			return err
		}
		cmd.Printf("%s (tesseract: %s)\n", tag, code)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(langCmd)
}
