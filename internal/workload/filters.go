package workload

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Filter is a named image transformation.
type Filter struct {
	Name  string
	Apply func(img image.Image) image.Image
}

var (
	gaussianKernel = [9]float64{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	}
	sharpenKernel = [9]float64{
		-2, -2, -2,
		-2, 32, -2,
		-2, -2, -2,
	}
	sobelX = [9]float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}
	sobelY = [9]float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}
)

// Filters returns the five filters applied to every image, in output order.
func Filters(brightness float64) []Filter {
	return []Filter{
		{Name: "gray", Apply: Grayscale},
		{Name: "blurred", Apply: Blur},
		{Name: "edges", Apply: Edges},
		{Name: "sharpened", Apply: Sharpen},
		{Name: "brightened", Apply: func(img image.Image) image.Image { return Brighten(img, brightness) }},
	}
}

// Grayscale converts to luminance.
func Grayscale(img image.Image) image.Image {
	return imaging.Grayscale(img)
}

// Blur applies a normalized 3x3 Gaussian kernel.
func Blur(img image.Image) image.Image {
	return imaging.Convolve3x3(img, gaussianKernel, &imaging.ConvolveOptions{Normalize: true})
}

// Sharpen applies the classic 3x3 sharpen kernel (weights sum to 16).
func Sharpen(img image.Image) image.Image {
	return imaging.Convolve3x3(img, sharpenKernel, &imaging.ConvolveOptions{Normalize: true})
}

// Edges computes the Sobel gradient magnitude of the grayscale image,
// clipped to 255.
func Edges(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	gx := imaging.Convolve3x3(gray, sobelX, &imaging.ConvolveOptions{Abs: true})
	gy := imaging.Convolve3x3(gray, sobelY, &imaging.ConvolveOptions{Abs: true})

	out := image.NewNRGBA(gray.Bounds())
	for i := 0; i+3 < len(out.Pix); i += 4 {
		x, y := float64(gx.Pix[i]), float64(gy.Pix[i])
		m := uint8(math.Min(255, math.Sqrt(x*x+y*y)))
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = m, m, m, 255
	}
	return out
}

// Brighten multiplies every color channel by factor, clamping to 255.
func Brighten(img image.Image, factor float64) image.Image {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Round(float64(v)*factor)))
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
}
