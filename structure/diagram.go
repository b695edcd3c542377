package structure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hesusruiz/texmd/texmd"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// DiagramSource describes the decomposition of a document as a D2 diagram, with a box
// for every file and an arrow from each file to the files in its toctree
func DiagramSource(fs *texmd.FileStructure, suffix string) string {
	var b strings.Builder
	b.WriteString("direction: right\n")

	fs.Walk(func(f *texmd.FileStructure, depth int) {
		label := f.Name + suffix
		if len(f.Title) > 0 {
			label += "\n" + f.Title
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(strconv.Quote(label))
		b.WriteString("\n")
	})

	fs.Walk(func(f *texmd.FileStructure, depth int) {
		for _, c := range f.Children {
			b.WriteString(f.Name + " -> " + c.Name + "\n")
		}
	})
	return b.String()
}

// RenderDiagram compiles a D2 diagram and renders it as SVG
func RenderDiagram(ctx context.Context, source string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("creating text ruler: %w", err)
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, source, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, fmt.Errorf("compiling diagram: %w", err)
	}

	body, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering diagram: %w", err)
	}
	return body, nil
}
