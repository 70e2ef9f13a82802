package ocr

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"

	"github.com/facturascan/facturascan/constants"
	"github.com/facturascan/facturascan/internal/common"
)

// reBoxNoise strips box-drawing junk tesseract emits around table borders.
var reBoxNoise = regexp.MustCompile(`[|_¦]{2,}`)

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	var warns []string
	if e.cfg.Preprocess {
		enhanced, cleanup, err := e.enhanceForOCR(path)
		if err != nil {
			// Preprocessing is an optimization; OCR the original on failure.
			e.logger.Warn("image preprocess failed, using original", "path", path, "error", err)
			warns = append(warns, err.Error())
		} else {
			defer cleanup()
			path = enhanced
		}
	}

	txt, warn, err := e.tesseractOCR(ctx, path)
	warns = append(warns, warn...)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE, Warnings: warns},
			common.NewAppError(common.ErrOCRExtraction, "error al extraer texto de la imagen", err)
	}

	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, err
	}

	return reBoxNoise.ReplaceAllString(string(out), ""), nil, nil
}

// enhanceForOCR applies grayscale, contrast and sharpening so tesseract gets
// a cleaner document. Returns the temp file path and its cleanup func.
func (e *Extractor) enhanceForOCR(path string) (string, func(), error) {
	src, err := imaging.Open(path)
	if err != nil {
		return "", nil, err
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)

	tmpDir, err := os.MkdirTemp("", "fs-pre-*")
	if err != nil {
		return "", nil, err
	}
	out := filepath.Join(tmpDir, "enhanced.png")
	if err := imaging.Save(img, out); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", nil, err
	}
	return out, func() { _ = os.RemoveAll(tmpDir) }, nil
}
