package hasher

import (
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rivo/duplo/haar"
	"github.com/xschemadev/imgdedup/imagetest"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Method
		wantErr bool
	}{
		{"phash", PHash, false},
		{"dhash", DHash, false},
		{"whash", WHash, false},
		{"ahash", AHash, false},
		{"PHash", PHash, false},
		{" ahash ", AHash, false},
		{"md5", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ByName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedMethod) {
					t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h.Method() != tt.want {
				t.Errorf("expected method %s, got %s", tt.want, h.Method())
			}
		})
	}
}

func TestMethodNames(t *testing.T) {
	if got := MethodNames(); got != "phash|dhash|whash|ahash" {
		t.Errorf("unexpected method names: %s", got)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Hash
		want int
	}{
		{0, 0, 0},
		{0, 1, 1},
		{0xffffffffffffffff, 0, 64},
		{0xf0f0f0f0f0f0f0f0, 0x0f0f0f0f0f0f0f0f, 64},
		{0b1011, 0b0110, 3},
	}

	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); got != tt.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := tt.b.Distance(tt.a); got != tt.want {
			t.Errorf("Distance is not symmetric for %s, %s", tt.a, tt.b)
		}
	}
}

func TestParseHash(t *testing.T) {
	h := Hash(0x00ff00ff12345678)
	if h.String() != "00ff00ff12345678" {
		t.Fatalf("unexpected string: %s", h.String())
	}
	parsed, err := ParseHash(h.String())
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if parsed != h {
		t.Errorf("expected %s, got %s", h, parsed)
	}

	for _, bad := range []string{"", "abc", "zzzzzzzzzzzzzzzz", "00ff00ff123456789"} {
		if _, err := ParseHash(bad); err == nil {
			t.Errorf("ParseHash(%q): expected error", bad)
		}
	}
}

func TestHashIdenticalImages(t *testing.T) {
	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			h, err := ByName(string(m))
			if err != nil {
				t.Fatalf("ByName: %v", err)
			}

			a, err := h.Hash(imagetest.Noise(1))
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			b, err := h.Hash(imagetest.Noise(1))
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			if a != b {
				t.Errorf("identical images hashed differently: %s vs %s", a, b)
			}
		})
	}
}

func TestHashUnrelatedImages(t *testing.T) {
	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			h, _ := ByName(string(m))

			a, err := h.Hash(imagetest.Noise(1))
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			b, err := h.Hash(imagetest.Noise(2))
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			if d := a.Distance(b); d <= 10 {
				t.Errorf("unrelated images too close: distance %d", d)
			}
		})
	}
}

func TestHashSurvivesResize(t *testing.T) {
	src := imagetest.Noise(7)
	scaled := imaging.Resize(src, imagetest.Size*2, imagetest.Size*2, imaging.NearestNeighbor)

	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			h, _ := ByName(string(m))

			a, err := h.Hash(src)
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			b, err := h.Hash(scaled)
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			if d := a.Distance(b); d > 10 {
				t.Errorf("resized image drifted too far: distance %d", d)
			}
		})
	}
}

func TestWaveletRejectsEmptyImage(t *testing.T) {
	h, _ := ByName("whash")
	if _, err := h.Hash(nil); err == nil {
		t.Error("expected error for nil image")
	}
	if _, err := h.Hash(image.NewGray(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestWaveletLowBandIsBlockAverage(t *testing.T) {
	img := imagetest.Noise(3).(*image.Gray)
	band := lowBand(haar.Transform(img), waveletSide)

	const block = waveletScale / waveletSide
	luma := (0.299900 + 0.587000 + 0.114000) / 0x100
	for by := 0; by < waveletSide; by++ {
		for bx := 0; bx < waveletSide; bx++ {
			var sum float64
			for y := by * block; y < (by+1)*block; y++ {
				for x := bx * block; x < (bx+1)*block; x++ {
					sum += float64(img.GrayAt(x, y).Y) * luma
				}
			}
			// The orthonormal transform scales the band by block side.
			want := sum / block
			if got := band[by*waveletSide+bx]; math.Abs(got-want) > 1e-9 {
				t.Errorf("block (%d,%d): expected %f, got %f", bx, by, want, got)
			}
		}
	}
}

func TestWaveletHashStructuredImages(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want Hash
	}{
		{"left to right", imagetest.Gradient(true, false), 0x0f0f0f0f0f0f0f0f},
		{"right to left", imagetest.Gradient(true, true), 0xf0f0f0f0f0f0f0f0},
		{"top to bottom", imagetest.Gradient(false, false), 0x00000000ffffffff},
		{"flat", imagetest.Flat(128), 0},
	}

	h, _ := ByName("whash")
	hashes := make([]Hash, len(tests))
	for i, tt := range tests {
		got, err := h.Hash(tt.img)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
		hashes[i] = got
	}

	for i := range tests {
		for j := i + 1; j < len(tests); j++ {
			if d := hashes[i].Distance(hashes[j]); d <= 10 {
				t.Errorf("%s and %s too close: distance %d", tests[i].name, tests[j].name, d)
			}
		}
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := imagetest.WriteNoise(t, dir, "a.png", 3)

	h, _ := ByName("phash")
	fromFile, err := HashFile(h, path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	fromImage, err := h.Hash(imagetest.Noise(3))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if fromFile != fromImage {
		t.Errorf("file hash %s differs from image hash %s", fromFile, fromImage)
	}

	notImage := filepath.Join(dir, "b.jpg")
	if err := os.WriteFile(notImage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := HashFile(h, notImage); err == nil {
		t.Error("expected decode error")
	}
	if _, err := HashFile(h, filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected open error")
	}
}
