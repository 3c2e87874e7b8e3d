package server

import (
	"bytes"
	"fmt"
	"image/color"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Open Graph image geometry.
const (
	ogWidth       = 1200
	ogHeight      = 630
	ogMargin      = 80
	ogMaxTitle    = 90
	ogMaxSubtitle = 140
)

var (
	ogBackground = color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	ogAccent     = color.NRGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
	ogSubtle     = color.NRGBA{R: 0xcb, G: 0xd5, B: 0xe1, A: 0xff}
)

var ogBold = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gobold.TTF)
})

var ogRegular = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

// handleOG renders a 1200x630 PNG card from the title and subtitle params.
func (s *Server) handleOG(w http.ResponseWriter, r *http.Request) {
	title := clip(r.URL.Query().Get("title"), ogMaxTitle)
	if title == "" {
		title = "Atlas"
	}
	subtitle := clip(r.URL.Query().Get("subtitle"), ogMaxSubtitle)

	png, err := RenderOG(title, subtitle)
	if err != nil {
		s.logger.Error("og render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(png)
}

// RenderOG draws an Open Graph card and returns it PNG encoded.
func RenderOG(title, subtitle string) ([]byte, error) {
	bold, err := ogBold()
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := ogRegular()
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	dc := gg.NewContext(ogWidth, ogHeight)
	dc.SetColor(ogBackground)
	dc.Clear()

	dc.SetColor(ogAccent)
	dc.DrawRectangle(ogMargin, ogMargin, 120, 10)
	dc.Fill()

	textWidth := float64(ogWidth - 2*ogMargin)

	dc.SetFontFace(face(bold, 68))
	dc.SetColor(color.White)
	dc.DrawStringWrapped(title, ogMargin, ogMargin+60, 0, 0, textWidth, 1.25, gg.AlignLeft)

	if subtitle != "" {
		dc.SetFontFace(face(regular, 34))
		dc.SetColor(ogSubtle)
		dc.DrawStringWrapped(subtitle, ogMargin, ogHeight-ogMargin-120, 0, 0, textWidth, 1.4, gg.AlignLeft)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
