package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFPrinter prints an HTML file to PDF with headless Chrome
type PDFPrinter struct {
	Timeout time.Duration
	// ExecPath overrides the Chrome binary chromedp would otherwise discover.
	ExecPath string
	logger   *slog.Logger
}

// NewPDFPrinter creates a printer bounded by timeout
func NewPDFPrinter(timeout time.Duration, logger *slog.Logger) *PDFPrinter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFPrinter{Timeout: timeout, logger: logger}
}

// Print renders htmlPath and writes the result to pdfPath
func (p *PDFPrinter) Print(ctx context.Context, htmlPath, pdfPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", htmlPath, err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", true))
	if p.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.ExecPath))
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(abs)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("print %s to PDF: %w", htmlPath, err)
	}

	if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
		return fmt.Errorf("write %s: %w", pdfPath, err)
	}
	p.logger.Info("PDF written",
		slog.String("path", pdfPath),
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return nil
}
