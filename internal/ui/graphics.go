package ui

import (
	"context"
	"image"

	"autoparts/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qeesung/image2ascii/convert"
)

// ImageSource fetches product pictures.
type ImageSource interface {
	ProductImage(ctx context.Context, name string) (image.Image, error)
}

type productImageMsg struct {
	seq   int
	image string
	art   string
	err   error
}

// loadProductImageCmd fetches the picture of p and renders it off the event loop.
func loadProductImageCmd(images ImageSource, p model.Product, seq, width, height int) tea.Cmd {
	if images == nil || p.Image == "" {
		return nil
	}
	return func() tea.Msg {
		img, err := images.ProductImage(context.Background(), p.Image)
		if err != nil {
			return productImageMsg{seq: seq, image: p.Image, err: err}
		}
		return productImageMsg{seq: seq, image: p.Image, art: RenderProductImage(img, width, height)}
	}
}

// RenderProductImage converts a product picture to colored ASCII art.
func RenderProductImage(img image.Image, targetWidth, targetHeight int) string {
	if targetWidth <= 0 || targetHeight <= 0 {
		return ""
	}
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = true
	opts.Ratio = 0.5 // terminal cells are about twice as tall as wide

	return converter.Image2ASCIIString(img, &opts)
}
