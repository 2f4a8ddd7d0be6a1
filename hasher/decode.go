package hasher

import (
	"fmt"
	"image"
	"os"

	// Decoders available to image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// HashFile decodes the image at path and hashes it with h.
func HashFile(h Hasher, path string) (Hash, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return 0, err
	}
	return h.Hash(img)
}
