package occgrid

import (
	"errors"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/seqsense/pcgol/mat"
	"gopkg.in/yaml.v3"
)

// MapMeta is a map description in the ROS map_server YAML format.
type MapMeta struct {
	Image          string     `yaml:"image"`
	Resolution     float32    `yaml:"resolution"`
	Origin         [3]float32 `yaml:"origin"`
	Negate         int        `yaml:"negate"`
	OccupiedThresh float32    `yaml:"occupied_thresh"`
	FreeThresh     float32    `yaml:"free_thresh"`
}

var ErrOriginYaw = errors.New("non-zero origin yaw is not supported")

// Load builds a Grid from a map description and its decoded raster.
// Pixel brightness is interpreted as in map_server: the occupancy
// probability of a pixel value v is (255-v)/255, or v/255 if negate is
// set, and is classified by the occupied/free thresholds. The bottom
// image row maps to the world row at the map origin.
func Load(meta *MapMeta, img image.Image) (*Grid, error) {
	if meta.Origin[2] != 0 {
		return nil, ErrOriginYaw
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cells := make([]CellState, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			v := float32(r+g+bl) / (3 * 0xffff)
			occ := 1 - v
			if meta.Negate != 0 {
				occ = v
			}
			var s CellState
			switch {
			case occ > meta.OccupiedThresh:
				s = Occupied
			case occ < meta.FreeThresh:
				s = Free
			default:
				s = Unknown
			}
			// Image rows run top-down, world rows bottom-up.
			cells[x+(h-1-y)*w] = s
		}
	}
	origin := mat.Vec3{meta.Origin[0], meta.Origin[1], 0}
	return New(meta.Resolution, [2]int{w, h}, origin, cells)
}

// LoadFile reads a map YAML file and the raster image it references.
// A relative image path is resolved against the YAML file location.
func LoadFile(yamlPath string) (*Grid, error) {
	b, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, err
	}
	m := &MapMeta{}
	if err := yaml.Unmarshal(b, m); err != nil {
		return nil, err
	}
	imgPath := m.Image
	if !filepath.IsAbs(imgPath) {
		imgPath = filepath.Join(filepath.Dir(yamlPath), m.Image)
	}
	f, err := os.Open(imgPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return Load(m, img)
}
