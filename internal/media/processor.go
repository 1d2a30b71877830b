package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"tourapi/internal/config"
)

// Package media normalizes uploaded tour images: validate, decode, resize
// to fit the configured bounding box, and re-encode as webp so storage only
// ever holds one format.

var (
	ErrFileTooLarge      = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

var (
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
	allowedMIMEs = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
)

// File is an uploaded image handle. Open must be callable independently per
// file so sibling uploads can be processed concurrently.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader adapts a parsed multipart file part into a File.
func FromFileHeader(fh *multipart.FileHeader) File {
	return File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// Blob is a processed, ready-to-store image.
type Blob struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Processor turns an uploaded file into a storable blob.
type Processor interface {
	Process(ctx context.Context, f File) (*Blob, error)
}

type webpProcessor struct {
	maxBytes int64
	maxDim   int
	quality  float32
}

// NewProcessor builds the webp re-encoding processor from media config.
func NewProcessor(cfg config.MediaConfig) Processor {
	return &webpProcessor{
		maxBytes: cfg.MaxFileSizeBytes,
		maxDim:   cfg.MaxDimension,
		quality:  cfg.WebpQuality,
	}
}

func (p *webpProcessor) Process(ctx context.Context, f File) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.maxBytes > 0 && f.Size > p.maxBytes {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, f.Filename, f.Size)
	}

	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Filename)
	}
	if f.ContentType != "" && !allowedMIMEs[f.ContentType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.ContentType)
	}

	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", f.Filename, err)
	}
	defer r.Close()

	img, err := p.decode(ext, r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Filename, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.maxDim || bounds.Dy() > p.maxDim {
		img = imaging.Fit(img, p.maxDim, p.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return &Blob{
		Data:        buf.Bytes(),
		ContentType: "image/webp",
		Ext:         ".webp",
	}, nil
}

func (p *webpProcessor) decode(ext string, r io.Reader) (image.Image, error) {
	if ext == ".webp" {
		return webp.Decode(r)
	}
	return imaging.Decode(r, imaging.AutoOrientation(true))
}
