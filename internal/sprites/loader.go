package sprites

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"
)

// WalkFrames are the baseline walking animation frames.
var WalkFrames = []int{0, 1}

// Set holds the decoded sprites of one pet pack, keyed the way the pet
// engine asks for them ("frame_N", "frame_N_flipped", "projectile").
type Set struct {
	name      string
	resources map[string]fyne.Resource
}

// Name returns the pack name of the set.
func (set *Set) Name() string {
	return set.name
}

// Resource returns the sprite for the given key. Unknown keys fall back
// to the first walking frame so rendering never goes blank.
func (set *Set) Resource(key string) fyne.Resource {
	if resource, ok := set.resources[key]; ok {
		return resource
	}
	return set.resources["frame_0"]
}

// LoadSet loads the given frames (and their flipped variants) from a
// sprite pack directory. Missing or undecodable frames degrade to a
// generated placeholder instead of failing.
func LoadSet(name, dir string, frames []int, log zerolog.Logger) *Set {
	return loadSet(name, os.DirFS(dir), ".", frames, log)
}

// LoadSetFS is LoadSet over an fs.FS, used for the embedded default pack.
func LoadSetFS(name string, fsys fs.FS, dir string, frames []int, log zerolog.Logger) *Set {
	return loadSet(name, fsys, dir, frames, log)
}

func loadSet(name string, fsys fs.FS, dir string, frames []int, log zerolog.Logger) *Set {
	set := &Set{
		name:      name,
		resources: make(map[string]fyne.Resource, len(frames)*2+1),
	}

	for _, frameID := range frames {
		img := loadFrame(fsys, dir, frameID, log)
		set.store(fmt.Sprintf("frame_%d", frameID), img)
		set.store(fmt.Sprintf("frame_%d_flipped", frameID), flipHorizontal(img))
	}
	set.store(ProjectileKey, projectileImage())

	return set
}

// ProjectileKey is the sprite key for attack projectiles.
const ProjectileKey = "projectile"

func (set *Set) store(key string, img image.Image) {
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		return
	}
	set.resources[key] = fyne.NewStaticResource(key+".png", buffer.Bytes())
}

func loadFrame(fsys fs.FS, dir string, frameID int, log zerolog.Logger) image.Image {
	path := fmt.Sprintf("%s/%d.png", dir, frameID)
	if dir == "." {
		path = fmt.Sprintf("%d.png", frameID)
	}

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		log.Warn().Int("frame", frameID).Msg("sprite missing, using placeholder")
		return placeholderFrame(frameID)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Int("frame", frameID).Msg("sprite unreadable, using placeholder")
		return placeholderFrame(frameID)
	}
	return img
}

func flipHorizontal(src image.Image) image.Image {
	bounds := src.Bounds()
	flipped := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			flipped.Set(bounds.Max.X-1-x, y-bounds.Min.Y, src.At(x, y))
		}
	}
	return flipped
}

// placeholderFrame draws a simple left-facing creature so the app stays
// usable when a pack is incomplete.
func placeholderFrame(frameID int) image.Image {
	const size = 48
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	body := color.NRGBA{R: 240, G: 160, B: 60, A: 255}
	if frameID%2 == 1 {
		body = color.NRGBA{R: 220, G: 140, B: 50, A: 255}
	}
	eye := color.NRGBA{A: 255}

	for y := 12; y < 44; y++ {
		for x := 8; x < 40; x++ {
			img.SetNRGBA(x, y, body)
		}
	}
	for y := 20; y < 24; y++ {
		for x := 12; x < 16; x++ {
			img.SetNRGBA(x, y, eye)
		}
	}
	return img
}

func projectileImage() image.Image {
	const size = 12
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fire := color.NRGBA{R: 250, G: 110, B: 30, A: 255}
	for y := 2; y < size-2; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, fire)
		}
	}
	return img
}
