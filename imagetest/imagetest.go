// Package imagetest writes small generated images for tests.
package imagetest

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// Size is the side length of generated images.
const Size = 64

// Noise returns a grayscale image of blocky random noise. Different seeds give
// visually unrelated images; blocks keep the structure above hash resolution.
func Noise(seed int64) image.Image {
	r := rand.New(rand.NewSource(seed))
	const block = 8
	img := image.NewGray(image.Rect(0, 0, Size, Size))
	for by := 0; by < Size; by += block {
		for bx := 0; bx < Size; bx += block {
			v := color.Gray{Y: uint8(r.Intn(256))}
			for y := by; y < by+block; y++ {
				for x := bx; x < bx+block; x++ {
					img.SetGray(x, y, v)
				}
			}
		}
	}
	return img
}

// Gradient returns a grayscale ramp from dark to light, left to right when
// horizontal is set and top to bottom otherwise. reverse flips the direction.
func Gradient(horizontal, reverse bool) image.Image {
	img := image.NewGray(image.Rect(0, 0, Size, Size))
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			i := y
			if horizontal {
				i = x
			}
			if reverse {
				i = Size - 1 - i
			}
			img.SetGray(x, y, color.Gray{Y: uint8(i * 4)})
		}
	}
	return img
}

// Flat returns a uniform gray image.
func Flat(v uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, Size, Size))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// WritePNG encodes img as PNG at dir/name, creating parent directories.
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

// WriteNoise writes Noise(seed) to dir/name.
func WriteNoise(t *testing.T, dir, name string, seed int64) string {
	t.Helper()
	return WritePNG(t, dir, name, Noise(seed))
}

// Copy duplicates src byte for byte at dir/name.
func Copy(t *testing.T, src, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read %s: %v", src, err)
	}
	dst := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		t.Fatalf("write %s: %v", dst, err)
	}
	return dst
}

// Files returns the regular files under dir, relative to it, in walk order.
func Files(t *testing.T, dir string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return files
}
