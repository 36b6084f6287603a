package poster

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// upperHalf paints the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const upperHalf = "▀"

// Scale resizes img to width pixels, keeping the aspect ratio. The height is
// rounded up to an even number so every cell row holds two pixel rows.
func Scale(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || width <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	height := scaledHeight(b.Dx(), b.Dy(), width)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Render draws img with one terminal cell per two vertically adjacent pixels.
func Render(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			cell := lipgloss.NewStyle().
				Foreground(hex(img.RGBAAt(x, y))).
				Background(hex(img.RGBAAt(x, y+1)))
			sb.WriteString(cell.Render(upperHalf))
		}
	}
	return sb.String()
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

var placeholderStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#666666")).
	Foreground(lipgloss.Color("#666666")).
	Italic(true).
	Align(lipgloss.Center, lipgloss.Center)

// Placeholder is shown in place of a poster that could not be loaded. It
// occupies width by height cells, borders included.
func Placeholder(width, height int, label string) string {
	if width < 3 {
		width = 3
	}
	if height < 3 {
		height = 3
	}
	return placeholderStyle.
		Width(width - 2).
		Height(height - 2).
		MaxWidth(width).
		Render(label)
}

func scaledHeight(w, h, width int) int {
	height := (h*width + w - 1) / w
	if height < 2 {
		height = 2
	}
	if height%2 != 0 {
		height++
	}
	return height
}

// CellHeight is the number of terminal rows a 2:3 poster occupies at width
// cells.
func CellHeight(width int) int {
	return scaledHeight(2, 3, width) / 2
}
