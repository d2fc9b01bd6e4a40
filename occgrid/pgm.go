package occgrid

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	"io"
	"strconv"
)

// ROS maps are usually distributed as PGM. The stdlib image package has
// no PGM decoder, so register a minimal one covering the raw (P5) and
// plain (P2) variants.
func init() {
	image.RegisterFormat("pgm", "P5", decodePGM, decodePGMConfig)
	image.RegisterFormat("pgm", "P2", decodePGM, decodePGMConfig)
}

func isPGMSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// pgmToken reads the next whitespace-delimited token, skipping comment
// lines. Exactly one delimiter byte after the token is consumed, so the
// binary raster following the maxval token stays intact.
func pgmToken(rb *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := rb.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case isPGMSpace(b):
			if len(tok) > 0 {
				return string(tok), nil
			}
		case b == '#' && len(tok) == 0:
			if _, err := rb.ReadString('\n'); err != nil {
				return "", err
			}
		default:
			tok = append(tok, b)
		}
	}
}

func pgmInt(rb *bufio.Reader) (int, error) {
	tok, err := pgmToken(rb)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok)
}

func pgmHeader(rb *bufio.Reader) (magic string, w, h, maxVal int, err error) {
	if magic, err = pgmToken(rb); err != nil {
		return
	}
	if magic != "P5" && magic != "P2" {
		err = errors.New("not a PGM image")
		return
	}
	if w, err = pgmInt(rb); err != nil {
		return
	}
	if h, err = pgmInt(rb); err != nil {
		return
	}
	if maxVal, err = pgmInt(rb); err != nil {
		return
	}
	if w <= 0 || h <= 0 {
		err = errors.New("invalid PGM image size")
		return
	}
	if maxVal <= 0 || maxVal > 255 {
		err = errors.New("unsupported PGM maxval")
	}
	return
}

func decodePGM(r io.Reader) (image.Image, error) {
	rb := bufio.NewReader(r)
	magic, w, h, maxVal, err := pgmHeader(rb)
	if err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	switch magic {
	case "P5":
		if _, err := io.ReadFull(rb, img.Pix); err != nil {
			return nil, err
		}
	case "P2":
		for i := range img.Pix {
			v, err := pgmInt(rb)
			if err != nil {
				return nil, err
			}
			if v < 0 || v > maxVal {
				return nil, errors.New("PGM sample out of range")
			}
			img.Pix[i] = byte(v)
		}
	}
	if maxVal != 255 {
		scale := 255 / float32(maxVal)
		for i, v := range img.Pix {
			img.Pix[i] = byte(float32(v)*scale + 0.5)
		}
	}
	return img, nil
}

func decodePGMConfig(r io.Reader) (image.Config, error) {
	_, w, h, _, err := pgmHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.GrayModel, Width: w, Height: h}, nil
}
