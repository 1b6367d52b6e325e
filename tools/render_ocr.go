// Command render_ocr renders a saved layout JSON to a PDF with the built-in
// font renderer. Useful for checking exporter output without a model call.
package main

import (
	"context"
	"fmt"
	"os"

	"resume-editor/internal/canvas"
	"resume-editor/internal/export"
	"resume-editor/internal/model"
)

func main() {
	in := "layout.json"
	out := "edited-resume.pdf"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	if len(os.Args) > 2 {
		out = os.Args[2]
	}

	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read layout: %v\n", err)
		os.Exit(2)
	}
	res, err := model.ParseOCRResult(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse layout: %v\n", err)
		os.Exit(2)
	}

	renderer, err := export.NewFontRenderer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fonts: %v\n", err)
		os.Exit(2)
	}
	c := canvas.New()
	if err := c.Mount(model.PageWidth, model.PageHeight); err != nil {
		fmt.Fprintf(os.Stderr, "mount canvas: %v\n", err)
		os.Exit(2)
	}
	c.Load(res)

	pdf, err := export.New(renderer).Export(context.Background(), c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(2)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write pdf: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s (%d blocks)\n", out, len(res.TextBlocks))
}
