package brume

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// DepthFormat is the depth attachment format particle pipelines are built
// against.
const DepthFormat = wgpu.TextureFormatDepth32Float

// maxTextureDim is the largest texture edge uploaded as-is; bigger images
// are downscaled to stay within common device limits.
const maxTextureDim = 8192

// Texture is a decoded, GPU-resident particle texture with its sampler.
type Texture struct {
	Id      string
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler

	texture *wgpu.Texture
}

// LoadTexture decodes the PNG at path and uploads it. A missing or broken
// file is not fatal: it logs a warning and falls back to the built-in
// default texture, so a misconfigured effect still renders.
func LoadTexture(device *wgpu.Device, queue *wgpu.Queue, path string, log Logger) (*Texture, error) {
	if log == nil {
		log = NewNopLogger()
	}
	if path == "" {
		return DefaultTexture(device, queue)
	}
	rgba, err := decodeRGBA(path)
	if err != nil {
		log.Warnf("texture %s: %v, using default texture", path, err)
		return DefaultTexture(device, queue)
	}
	return newTexture(device, queue, rgba)
}

// DefaultTexture is a flat white texture; particle color then comes
// entirely from the instance color.
func DefaultTexture(device *wgpu.Device, queue *wgpu.Queue) (*Texture, error) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range rgba.Pix {
		rgba.Pix[i] = 0xff
	}
	return newTexture(device, queue, rgba)
}

func decodeRGBA(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxTextureDim || h > maxTextureDim {
		scale := float64(maxTextureDim) / float64(max(w, h))
		w, h = int(float64(w)*scale), int(float64(h)*scale)
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Src, nil)
		return scaled, nil
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
	return rgba, nil
}

func newTexture(device *wgpu.Device, queue *wgpu.Queue, rgba *image.RGBA) (*Texture, error) {
	width := uint32(rgba.Bounds().Dx())
	height := uint32(rgba.Bounds().Dy())
	extent := wgpu.Extent3D{
		Width:              width,
		Height:             height,
		DepthOrArrayLayers: 1,
	}

	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Particle Texture",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	err = queue.WriteTexture(
		texture.AsImageCopy(),
		rgba.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * width,
			RowsPerImage: height,
		},
		&extent,
	)
	if err != nil {
		texture.Release()
		return nil, err
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, err
	}

	return &Texture{
		Id:      uuid.NewString(),
		View:    view,
		Sampler: sampler,
		texture: texture,
	}, nil
}

func (t *Texture) Release() {
	if t.Sampler != nil {
		t.Sampler.Release()
	}
	if t.View != nil {
		t.View.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// DepthTexture creates the depth attachment the particle pipeline renders
// against.
func DepthTexture(device *wgpu.Device, width, height uint32) (*wgpu.TextureView, error) {
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Particle Depth Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, err
	}
	defer texture.Release()
	return texture.CreateView(nil)
}
