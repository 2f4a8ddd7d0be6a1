package hasher

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/rivo/duplo/haar"
)

const (
	// waveletScale is the side the image is resized to. It must be a power
	// of two for the Haar transform.
	waveletScale = 64
	// waveletSide is the side of the low-frequency band the hash bits come from.
	waveletSide = 8
)

// waveletHasher computes a wavelet hash: the low-frequency band of a Haar
// decomposition of the grayscale image, thresholded at its median.
type waveletHasher struct{}

func (waveletHasher) Method() Method {
	return WHash
}

func (waveletHasher) Hash(img image.Image) (Hash, error) {
	if img == nil {
		return 0, errors.New("whash: image is nil")
	}
	if img.Bounds().Empty() {
		return 0, errors.New("whash: image is empty")
	}

	small := imaging.Grayscale(imaging.Resize(img, waveletScale, waveletScale, imaging.Lanczos))
	band := lowBand(haar.Transform(small), waveletSide)

	med := median(band)
	var h uint64
	for i, c := range band {
		if c > med {
			h |= 1 << uint(Bits-1-i)
		}
	}
	return Hash(h), nil
}

// lowBand returns the side x side approximation band of m in row-major
// order. The top-left block of a full separable Haar transform is itself the
// full Haar transform of that band, so undoing it on rows and columns yields
// the band.
func lowBand(m haar.Matrix, side int) []float64 {
	band := make([]float64, side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			// Channel 0 is luminance.
			band[y*side+x] = m.Coefs[y*int(m.Width)+x][0]
		}
	}

	line := make([]float64, side)
	for y := 0; y < side; y++ {
		row := band[y*side : (y+1)*side]
		inverseHaar(row, line)
	}
	col := make([]float64, side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			col[y] = band[y*side+x]
		}
		inverseHaar(col, line)
		for y := 0; y < side; y++ {
			band[y*side+x] = col[y]
		}
	}
	return band
}

// inverseHaar undoes duplo's orthonormal 1D Haar transform in place. len(v)
// must be a power of two; tmp must be at least as long as v.
func inverseHaar(v, tmp []float64) {
	for step := 1; step < len(v); step *= 2 {
		for i := 0; i < step; i++ {
			a, d := v[i], v[i+step]
			tmp[2*i] = (a + d) / math.Sqrt2
			tmp[2*i+1] = (a - d) / math.Sqrt2
		}
		copy(v[:2*step], tmp[:2*step])
	}
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
