package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"resume-editor/internal/canvas"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var sceneTemplate = template.Must(template.New("scene").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
html, body { margin: 0; padding: 0; }
body { position: relative; overflow: hidden; width: {{.Width}}px; height: {{.Height}}px; background: {{.Background}}; }
.obj { position: absolute; margin: 0; white-space: pre; line-height: {{.LineHeight}}; }
</style></head>
<body>
{{- range .Items}}
<div class="obj" style="left: {{.Left}}px; top: {{.Top}}px; width: {{.Width}}px; min-height: {{.Height}}px; font-family: {{.Style.FontFamily}}; font-size: {{.Style.FontSize}}px; font-weight: {{.Style.FontWeight}}; font-style: {{.Style.FontStyle}}; color: {{.Style.Fill}}; text-align: {{.Style.TextAlign}};">{{.Text}}</div>
{{- end}}
</body></html>`))

// ChromedpRenderer rasterizes scenes in headless Chrome. Each object becomes
// an absolutely positioned block and the page is captured at the device scale
// factor.
type ChromedpRenderer struct {
	ChromePath string
	Timeout    time.Duration
}

func NewChromedpRenderer(chromePath string) *ChromedpRenderer {
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	return &ChromedpRenderer{ChromePath: chromePath, Timeout: 60 * time.Second}
}

// SceneHTML renders the scene document loaded into Chrome.
func SceneHTML(scene canvas.Scene) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		canvas.Scene
		LineHeight float64
	}{scene, canvas.LineHeight}
	if err := sceneTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ChromedpRenderer) Render(ctx context.Context, scene canvas.Scene, multiplier float64) (image.Image, error) {
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("empty scene %vx%v", scene.Width, scene.Height)
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	html, err := SceneHTML(scene)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancelRun := context.WithTimeout(cctx, timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-scene-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return nil, err
	}

	var shot []byte
	err = chromedp.Run(runCtx,
		chromedp.EmulateViewport(
			int64(math.Ceil(scene.Width)),
			int64(math.Ceil(scene.Height)),
			chromedp.EmulateScale(multiplier),
		),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// capture exactly the canvas area, scaled by the device factor
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithClip(&page.Viewport{X: 0, Y: 0, Width: scene.Width, Height: scene.Height, Scale: 1}).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome screenshot: %w", err)
	}
	return png.Decode(bytes.NewReader(shot))
}
