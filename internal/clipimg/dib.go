// Package clipimg puts image files on the clipboard as a 32-bit bottom-up
// device-independent bitmap.
package clipimg

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"

	"quanthud/internal/apperr"
)

const (
	headerSize = 40
	biRGB      = 0
)

// BitmapInfoHeader mirrors the Win32 BITMAPINFOHEADER.
type BitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type DIB struct {
	Header BitmapInfoHeader
	Pixels []byte
}

// Encode converts img to BGRA rows stored bottom row first. A positive
// height in the header marks the bitmap as bottom-up.
func Encode(img image.Image) DIB {
	src := toNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	stride := w * 4
	px := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+stride]
		out := px[(h-1-y)*stride : (h-y)*stride]
		for x := 0; x < stride; x += 4 {
			out[x+0] = in[x+2]
			out[x+1] = in[x+1]
			out[x+2] = in[x+0]
			out[x+3] = in[x+3]
		}
	}
	return DIB{
		Header: BitmapInfoHeader{
			Size:        headerSize,
			Width:       int32(w),
			Height:      int32(h),
			Planes:      1,
			BitCount:    32,
			Compression: biRGB,
			SizeImage:   uint32(len(px)),
		},
		Pixels: px,
	}
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// Bytes is the clipboard payload: header then pixels.
func (d DIB) Bytes() []byte {
	out := make([]byte, headerSize, headerSize+len(d.Pixels))
	le := binary.LittleEndian
	h := d.Header
	le.PutUint32(out[0:], h.Size)
	le.PutUint32(out[4:], uint32(h.Width))
	le.PutUint32(out[8:], uint32(h.Height))
	le.PutUint16(out[12:], h.Planes)
	le.PutUint16(out[14:], h.BitCount)
	le.PutUint32(out[16:], h.Compression)
	le.PutUint32(out[20:], h.SizeImage)
	le.PutUint32(out[24:], uint32(h.XPelsPerMeter))
	le.PutUint32(out[28:], uint32(h.YPelsPerMeter))
	le.PutUint32(out[32:], h.ClrUsed)
	le.PutUint32(out[36:], h.ClrImportant)
	return append(out, d.Pixels...)
}

// Load decodes a png, jpeg or bmp file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrImageDecodeFailed, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrImageDecodeFailed, err)
	}
	return img, nil
}

// CopyFile loads path and publishes it on the clipboard.
func CopyFile(path string) error {
	if !supported {
		return apperr.Unsupported("copy_screenshot_to_clipboard")
	}
	img, err := Load(path)
	if err != nil {
		return err
	}
	return Publish(Encode(img))
}
