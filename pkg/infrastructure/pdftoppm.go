package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrPDFEncrypted = errors.New("pdf is encrypted")
	ErrPDFNoPages   = errors.New("pdf has no pages")
)

// PdftoppmRenderer rasterizes PDF pages with the poppler command line tools.
type PdftoppmRenderer struct {
	PdftoppmPath string
	PdfinfoPath  string
}

func NewPdftoppmRenderer(pdftoppmPath, pdfinfoPath string) *PdftoppmRenderer {
	if pdftoppmPath == "" {
		pdftoppmPath = "pdftoppm"
	}
	if pdfinfoPath == "" {
		pdfinfoPath = "pdfinfo"
	}
	return &PdftoppmRenderer{PdftoppmPath: pdftoppmPath, PdfinfoPath: pdfinfoPath}
}

// PDFInfo is the subset of pdfinfo output the renderer checks.
type PDFInfo struct {
	Pages     int
	Encrypted bool
}

// RenderPage writes pdf to a temp dir, checks it with pdfinfo and renders the
// requested page to PNG at dpi.
func (r *PdftoppmRenderer) RenderPage(ctx context.Context, pdf []byte, page, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = 144
	}
	if page <= 0 {
		page = 1
	}
	workDir, err := os.MkdirTemp("", "resume-pdf-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)

	pdfPath := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
		return nil, err
	}

	info, err := r.info(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	switch {
	case info.Encrypted:
		return nil, ErrPDFEncrypted
	case info.Pages == 0:
		return nil, ErrPDFNoPages
	case page > info.Pages:
		return nil, fmt.Errorf("page %d out of range (%d pages)", page, info.Pages)
	}

	prefix := filepath.Join(workDir, "page")
	args := []string{
		"-png",
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-singlefile",
		pdfPath,
		prefix,
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.PdftoppmPath, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed on page %d: %w: %s", page, err, strings.TrimSpace(stderr.String()))
	}
	return os.ReadFile(prefix + ".png")
}

func (r *PdftoppmRenderer) info(ctx context.Context, pdfPath string) (PDFInfo, error) {
	cmd := exec.CommandContext(ctx, r.PdfinfoPath, pdfPath)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && bytes.Contains(exitErr.Stderr, []byte("Incorrect password")) {
			return PDFInfo{}, ErrPDFEncrypted
		}
		return PDFInfo{}, fmt.Errorf("pdfinfo failed: %w", err)
	}
	return ParsePDFInfo(output)
}

// ParsePDFInfo reads the Pages and Encrypted fields of pdfinfo output.
func ParsePDFInfo(output []byte) (PDFInfo, error) {
	var (
		info     PDFInfo
		sawPages bool
	)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Pages":
			n, err := strconv.Atoi(value)
			if err != nil {
				return PDFInfo{}, fmt.Errorf("pdfinfo pages %q: %w", value, err)
			}
			info.Pages, sawPages = n, true
		case "Encrypted":
			info.Encrypted = strings.HasPrefix(value, "yes")
		}
	}
	if err := scanner.Err(); err != nil {
		return PDFInfo{}, err
	}
	if !sawPages {
		return PDFInfo{}, errors.New("failed to determine page count from pdfinfo output")
	}
	return info, nil
}
