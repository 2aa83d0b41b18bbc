package pagelayout_test

import (
	"context"
	"fmt"
	"log"

	"github.com/tsawler/pagelayout"
	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/detect"
	"github.com/tsawler/pagelayout/model"
	"github.com/tsawler/pagelayout/ocr"
	"github.com/tsawler/pagelayout/recognize"
)

// These examples verify the documented usage compiles. Those needing files
// or Tesseract have no Output and are not run.

func Example_extractImage() {
	engine, err := ocr.New()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	result, warnings, err := pagelayout.Open("page.png").
		WithOCR(engine).
		Extract(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	for _, w := range warnings {
		fmt.Println("Warning:", w.Message)
	}
	fmt.Printf("rotation %.3f rad, %d regions\n", result.Rotation, len(result.Layouts))
}

func Example_groundingDetector() {
	// A generative detector returns grounding markup; parse it into regions.
	markup := `<|ref|>title<|/ref|><|det|>[[0, 0, 999, 80]]<|/det|>`
	regions, err := detect.GroundingLayouts(markup, 800, 1000)
	if err != nil {
		log.Fatal(err)
	}

	md, _, err := pagelayout.FromRecognized(800, 1000, nil, regions).Markdown(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(md)
}

func Example_fullPipeline() {
	cfg, err := config.Load("pagelayout.yaml")
	if err != nil {
		log.Fatal(err)
	}

	scorer, closeScorer, err := pagelayout.ScorerFromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeScorer()

	engine, err := ocr.NewWithConfig(cfg.OCRConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	md, _, err := pagelayout.Open("page.png").
		WithConfig(cfg).
		WithOCR(engine).
		WithScorer(scorer).
		WithTableRecognizer(recognize.Unavailable{}, model.FormatHTML).
		Markdown(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(md)
}

func Example_recognized() {
	fragments := []model.OCRFragment{
		{Text: "Results", Rank: 0.98, Rect: model.NewRect(40, 30, 220, 60)},
		{Text: "The experiment ran twice.", Rank: 0.95, Rect: model.NewRect(40, 100, 500, 120)},
	}
	regions := []model.Layout{
		model.NewLayout(model.ClassTitle, model.NewRect(30, 20, 600, 70)),
		model.NewLayout(model.ClassPlainText, model.NewRect(30, 90, 600, 200)),
	}

	md := pagelayout.MustResult(pagelayout.FromRecognized(800, 1000, fragments, regions).Markdown(context.Background()))
	fmt.Print(md)
	// Output:
	// # Results
	//
	// The experiment ran twice.
}
