package occgrid

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/seqsense/pcgol/mat"
)

func grayImage(w, h int, pix []byte) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img
}

func TestLoad(t *testing.T) {
	meta := &MapMeta{
		Resolution:     0.5,
		Origin:         [3]float32{1, -1, 0},
		OccupiedThresh: 0.65,
		FreeThresh:     0.196,
	}
	// Top image row becomes the top world row.
	img := grayImage(3, 2, []byte{
		254, 0, 205,
		0, 254, 254,
	})
	g, err := Load(meta, img)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("Expected size: 3x2, got: %dx%d", g.Width(), g.Height())
	}
	expected := map[[2]int]CellState{
		{0, 1}: Free, {1, 1}: Occupied, {2, 1}: Unknown,
		{0, 0}: Occupied, {1, 0}: Free, {2, 0}: Free,
	}
	for c, s := range expected {
		if got := g.At(c); got != s {
			t.Errorf("Cell %v: expected state: %v, got: %v", c, s, got)
		}
	}
	if s := g.StateAt(mat.Vec3{1.25, -0.25, 0}); s != Free {
		t.Errorf("Expected state: %v, got: %v", Free, s)
	}
}

func TestLoad_negate(t *testing.T) {
	meta := &MapMeta{
		Resolution:     0.5,
		Origin:         [3]float32{0, 0, 0},
		Negate:         1,
		OccupiedThresh: 0.65,
		FreeThresh:     0.196,
	}
	g, err := Load(meta, grayImage(2, 1, []byte{254, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if s := g.At([2]int{0, 0}); s != Occupied {
		t.Errorf("Expected state: %v, got: %v", Occupied, s)
	}
	if s := g.At([2]int{1, 0}); s != Free {
		t.Errorf("Expected state: %v, got: %v", Free, s)
	}
}

func TestLoad_originYaw(t *testing.T) {
	meta := &MapMeta{
		Resolution: 0.5,
		Origin:     [3]float32{0, 0, 1.57},
	}
	if _, err := Load(meta, grayImage(1, 1, []byte{254})); err != ErrOriginYaw {
		t.Errorf("Expected error: %v, got: %v", ErrOriginYaw, err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	mapYAML := `image: map.pgm
resolution: 0.05
origin: [-1.0, -2.0, 0.0]
negate: 0
occupied_thresh: 0.65
free_thresh: 0.196
`
	pgm := append([]byte("P5\n# test map\n4 2\n255\n"), []byte{
		254, 254, 0, 0,
		0, 254, 254, 205,
	}...)
	if err := os.WriteFile(filepath.Join(dir, "map.yaml"), []byte(mapYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "map.pgm"), pgm, 0644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadFile(filepath.Join(dir, "map.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 4 || g.Height() != 2 {
		t.Fatalf("Expected size: 4x2, got: %dx%d", g.Width(), g.Height())
	}
	if g.Resolution() != 0.05 {
		t.Errorf("Expected resolution: 0.05, got: %v", g.Resolution())
	}
	if origin := (mat.Vec3{-1, -2, 0}); !g.Origin().Equal(origin) {
		t.Errorf("Expected origin: %v, got: %v", origin, g.Origin())
	}
	expected := map[[2]int]CellState{
		{0, 0}: Occupied, {1, 0}: Free, {2, 0}: Free, {3, 0}: Unknown,
		{0, 1}: Free, {1, 1}: Free, {2, 1}: Occupied, {3, 1}: Occupied,
	}
	for c, s := range expected {
		if got := g.At(c); got != s {
			t.Errorf("Cell %v: expected state: %v, got: %v", c, s, got)
		}
	}
}

func TestLoadFile_missingImage(t *testing.T) {
	dir := t.TempDir()
	mapYAML := "image: nonexistent.pgm\nresolution: 0.05\norigin: [0, 0, 0]\n"
	path := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(path, []byte(mapYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for missing map image")
	}
}
