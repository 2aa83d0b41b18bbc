package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pagelayout/model"
)

// pageFile is the on-disk form of a recognized page
type pageFile struct {
	Width     float64        `json:"width" yaml:"width"`
	Height    float64        `json:"height" yaml:"height"`
	Fragments []fragmentFile `json:"fragments" yaml:"fragments"`
	Layouts   []layoutFile   `json:"layouts" yaml:"layouts"`
}

// fragmentFile holds either four points (lt, rt, lb, rb) or an axis-aligned
// box [x0, y0, x1, y1].
type fragmentFile struct {
	Order  int          `json:"order" yaml:"order"`
	Text   string       `json:"text" yaml:"text"`
	Rank   float64      `json:"rank" yaml:"rank"`
	Points [][2]float64 `json:"points,omitempty" yaml:"points,omitempty"`
	Box    []float64    `json:"box,omitempty" yaml:"box,omitempty"`
}

type layoutFile struct {
	Order     int               `json:"order" yaml:"order"`
	Class     model.LayoutClass `json:"class" yaml:"class"`
	Box       []float64         `json:"box,omitempty" yaml:"box,omitempty"`
	Points    [][2]float64      `json:"points,omitempty" yaml:"points,omitempty"`
	Fragments []fragmentFile    `json:"fragments,omitempty" yaml:"fragments,omitempty"`
	Content   string            `json:"content,omitempty" yaml:"content,omitempty"`
	Format    string            `json:"format,omitempty" yaml:"format,omitempty"`
	Latex     string            `json:"latex,omitempty" yaml:"latex,omitempty"`
}

// resultFile is the output of the order command
type resultFile struct {
	ID       string       `json:"id" yaml:"id"`
	Rotation float64      `json:"rotation" yaml:"rotation"`
	Layouts  []layoutFile `json:"layouts" yaml:"layouts"`
}

// readPage decodes a page file; .yaml and .yml are YAML, anything else JSON
func readPage(path string) (*pageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var page pageFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &page)
	default:
		err = json.Unmarshal(data, &page)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &page, nil
}

func toRect(box []float64, points [][2]float64) (model.Rectangle, error) {
	switch {
	case len(points) == 4:
		p := func(i int) model.Point { return model.Point{X: points[i][0], Y: points[i][1]} }
		return model.Rectangle{LT: p(0), RT: p(1), LB: p(2), RB: p(3)}, nil
	case len(box) == 4:
		return model.NewRect(box[0], box[1], box[2], box[3]), nil
	default:
		return model.Rectangle{}, fmt.Errorf("need 4 points or a 4-value box, got %d points and %d values", len(points), len(box))
	}
}

func (f fragmentFile) fragment() (model.OCRFragment, error) {
	rect, err := toRect(f.Box, f.Points)
	if err != nil {
		return model.OCRFragment{}, fmt.Errorf("fragment %q: %w", f.Text, err)
	}
	return model.OCRFragment{Order: f.Order, Text: f.Text, Rank: f.Rank, Rect: rect}, nil
}

func toFragments(files []fragmentFile) ([]model.OCRFragment, error) {
	out := make([]model.OCRFragment, 0, len(files))
	for _, f := range files {
		frag, err := f.fragment()
		if err != nil {
			return nil, err
		}
		out = append(out, frag)
	}
	return out, nil
}

// toModel converts the file into loose fragments and regions
func (p *pageFile) toModel() ([]model.OCRFragment, []model.Layout, error) {
	fragments, err := toFragments(p.Fragments)
	if err != nil {
		return nil, nil, err
	}

	layouts := make([]model.Layout, 0, len(p.Layouts))
	for i, lf := range p.Layouts {
		rect, err := toRect(lf.Box, lf.Points)
		if err != nil {
			return nil, nil, fmt.Errorf("layout %d: %w", i, err)
		}
		l := model.NewLayout(lf.Class, rect)
		owned, err := toFragments(lf.Fragments)
		if err != nil {
			return nil, nil, fmt.Errorf("layout %d: %w", i, err)
		}
		if len(owned) > 0 {
			l.Base().Fragments = owned
		}
		switch v := l.(type) {
		case *model.TableLayout:
			v.Content = lf.Content
			v.Format = parseFormat(lf.Format)
		case *model.FormulaLayout:
			v.Latex = lf.Latex
		}
		layouts = append(layouts, l)
	}
	return fragments, layouts, nil
}

// allFragments returns loose and region-owned fragments
func (p *pageFile) allFragments() ([]model.OCRFragment, error) {
	fragments, layouts, err := p.toModel()
	if err != nil {
		return nil, err
	}
	for _, l := range layouts {
		fragments = append(fragments, l.Base().Fragments...)
	}
	return fragments, nil
}

func parseFormat(s string) model.OutputFormat {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return model.FormatMarkdown
	case "latex":
		return model.FormatLaTeX
	default:
		return model.FormatHTML
	}
}

func fromRect(r model.Rectangle) [][2]float64 {
	return [][2]float64{{r.LT.X, r.LT.Y}, {r.RT.X, r.RT.Y}, {r.LB.X, r.LB.Y}, {r.RB.X, r.RB.Y}}
}

func fromFragments(frags []model.OCRFragment) []fragmentFile {
	out := make([]fragmentFile, len(frags))
	for i, f := range frags {
		out[i] = fragmentFile{Order: f.Order, Text: f.Text, Rank: f.Rank, Points: fromRect(f.Rect)}
	}
	return out
}

func fromLayouts(layouts []model.Layout) []layoutFile {
	out := make([]layoutFile, len(layouts))
	for i, l := range layouts {
		base := l.Base()
		lf := layoutFile{
			Order:     base.Order,
			Class:     l.Class(),
			Points:    fromRect(base.Rect),
			Fragments: fromFragments(base.Fragments),
		}
		switch v := l.(type) {
		case *model.TableLayout:
			lf.Content = v.Content
			if v.Content != "" {
				lf.Format = v.Format.String()
			}
		case *model.FormulaLayout:
			lf.Latex = v.Latex
		}
		out[i] = lf
	}
	return out
}

func fromResult(result *model.ExtractedResult) resultFile {
	return resultFile{
		ID:       result.ID,
		Rotation: result.Rotation,
		Layouts:  fromLayouts(result.Layouts),
	}
}
