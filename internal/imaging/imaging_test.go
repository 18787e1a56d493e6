package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// testPNG is a 40x20 image: red left half, blue right half.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			c := color.RGBA{R: 0xff, A: 0xff}
			if x >= 20 {
				c = color.RGBA{B: 0xff, A: 0xff}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	if data == nil {
		t.Fatal("got nil image")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() unexpected error: %v", err)
	}
	return img
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestProcessor_Bytes(t *testing.T) {
	t.Parallel()

	raw := testPNG(t)
	blobs := NewBlobStore()
	ref := blobs.Put(raw)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(raw)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	p := New(WithBlobStore(blobs), WithHTTPClient(srv.Client()))

	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{name: "base64 data uri", src: "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), want: raw},
		{name: "percent data uri", src: "data:text/plain,hi%20there", want: []byte("hi there")},
		{name: "blob", src: ref, want: raw},
		{name: "http", src: srv.URL + "/photo.png", want: raw},
		{name: "local path", src: path, want: raw},
		{name: "file url", src: "file://" + path, want: raw},
		{name: "http not found", src: srv.URL + "/missing.png"},
		{name: "unknown blob", src: BlobPrefix + "nope"},
		{name: "unsupported scheme", src: "ftp://example.com/a.png"},
		{name: "missing file", src: filepath.Join(t.TempDir(), "none.png")},
		{name: "empty", src: "  "},
		{name: "bad base64", src: "data:image/png;base64,!!!"},
		{name: "no comma", src: "data:image/png;base64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.Bytes(context.Background(), tt.src)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Bytes(%q) = %d bytes, want %d", abbreviate(tt.src), len(got), len(tt.want))
			}
		})
	}
}

func TestProcessor_MaxBytes(t *testing.T) {
	t.Parallel()

	raw := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(raw)
	}))
	t.Cleanup(srv.Close)

	p := New(WithHTTPClient(srv.Client()), WithMaxBytes(16))
	if got := p.Bytes(context.Background(), srv.URL); got != nil {
		t.Errorf("Bytes() over limit = %d bytes, want nil", len(got))
	}
}

func TestProcessor_Circular(t *testing.T) {
	t.Parallel()

	p := New()
	src := DataURI(testPNG(t))
	img := decode(t, p.Circular(context.Background(), src, 20))

	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("bounds = %v, want 20x20", b)
	}
	if a := rgba(img, 0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	center := rgba(img, 10, 10)
	if center.A != 0xff {
		t.Errorf("center alpha = %d, want 255", center.A)
	}
	// The crop keeps the middle of the source: red on the left, blue on the right.
	if left := rgba(img, 4, 10); left.R < 0xc0 || left.B > 0x40 {
		t.Errorf("left pixel = %v, want red", left)
	}
	if right := rgba(img, 15, 10); right.B < 0xc0 || right.R > 0x40 {
		t.Errorf("right pixel = %v, want blue", right)
	}
}

func TestProcessor_Square(t *testing.T) {
	t.Parallel()

	img := decode(t, New().Square(context.Background(), DataURI(testPNG(t)), 16))
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("bounds = %v, want 16x16", b)
	}
	if a := rgba(img, 0, 0).A; a != 0xff {
		t.Errorf("corner alpha = %d, want 255", a)
	}
}

func TestProcessor_ReshapeFailures(t *testing.T) {
	t.Parallel()

	p := New()
	ctx := context.Background()
	notImage := "data:text/plain,hello"

	if got := p.Circular(ctx, notImage, 20); got != nil {
		t.Error("Circular(non-image) should be nil")
	}
	if got := p.Square(ctx, "", 20); got != nil {
		t.Error("Square(empty) should be nil")
	}
	if got := p.Circular(ctx, DataURI(testPNG(t)), 0); got != nil {
		t.Error("Circular(size 0) should be nil")
	}
}

// withDimensions rewrites the IHDR width and height of a PNG, leaving the
// pixel data untouched.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	if string(out[12:16]) != "IHDR" {
		t.Fatal("first chunk is not IHDR")
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestProcessor_PixelLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raw := testPNG(t)

	huge := DataURI(withDimensions(t, raw, 16000, 16000))
	if got := New().Circular(ctx, huge, 220); got != nil {
		t.Error("Circular(16000x16000 header) should be nil")
	}

	// 40x20 is 800 pixels.
	if got := New(WithMaxPixels(799)).Square(ctx, DataURI(raw), 16); got != nil {
		t.Error("Square() over the pixel limit should be nil")
	}
	if got := New(WithMaxPixels(800)).Square(ctx, DataURI(raw), 16); got == nil {
		t.Error("Square() at the pixel limit should succeed")
	}
}

func TestProcessor_InitialsBadge(t *testing.T) {
	t.Parallel()

	p := New()
	img := decode(t, p.InitialsBadge("al", 64, "2E4A7D"))

	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("bounds = %v, want 64x64", b)
	}
	if a := rgba(img, 0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	want := color.RGBA{R: 0x2e, G: 0x4a, B: 0x7d, A: 0xff}
	if got := rgba(img, 32, 3); got != want {
		t.Errorf("disc color = %v, want %v", got, want)
	}

	for _, tt := range []struct{ initials, hex string }{
		{"", "2E4A7D"},
		{"AL", "blue"},
		{"AL", "12345"},
	} {
		if got := p.InitialsBadge(tt.initials, 64, tt.hex); got != nil {
			t.Errorf("InitialsBadge(%q, %q) should be nil", tt.initials, tt.hex)
		}
	}
}

func TestBadgeText(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"al":     "AL",
		" a l ":  "AL",
		"abc":    "AB",
		"é":      "É",
		"":       "",
	} {
		if got := badgeText(in); got != want {
			t.Errorf("badgeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContrast(t *testing.T) {
	t.Parallel()

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if got := contrast(color.RGBA{R: 0x2e, G: 0x4a, B: 0x7d, A: 0xff}); got != white {
		t.Errorf("contrast(dark) = %v, want white", got)
	}
	if got := contrast(color.RGBA{R: 0xff, G: 0xff, A: 0xff}); got == white {
		t.Error("contrast(yellow) should be dark")
	}
}

func TestBlobStore_Revoke(t *testing.T) {
	t.Parallel()

	s := NewBlobStore()
	data := []byte("x")
	ref := s.Put(data)
	data[0] = 'y'

	got, ok := s.Get(ref)
	if !ok || string(got) != "x" {
		t.Fatalf("Get() = %q, %v; want stored copy", got, ok)
	}
	s.Revoke(ref)
	if _, ok := s.Get(ref); ok {
		t.Error("Get() after Revoke should miss")
	}
}

func TestDataURI_Empty(t *testing.T) {
	t.Parallel()

	if got := DataURI(nil); got != "" {
		t.Errorf("DataURI(nil) = %q, want empty", got)
	}
}
