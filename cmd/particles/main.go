package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	"github.com/gekko3d/brume"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

type effect struct {
	system   *brume.ParticleSystem
	renderer *brume.ParticleSystemRenderer
}

func main() {
	cfg, err := brume.ParseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(cfg)

	log := brume.NewDefaultLogger("brume", false)

	win := brume.NewWindow(windowWidth, windowHeight, "brume particles")
	defer win.Destroy()
	gpu := brume.NewGpuState(win)

	effects, err := buildEffects(gpu, cfg, log)
	if err != nil {
		log.Errorf("startup: %v", err)
		os.Exit(1)
	}

	depthView, err := brume.DepthTexture(gpu.Device, uint32(win.Width), uint32(win.Height))
	if err != nil {
		log.Errorf("depth texture: %v", err)
		os.Exit(1)
	}

	proj := mgl32.Perspective(mgl32.DegToRad(45), float32(win.Width)/float32(win.Height), 0.1, 100.0)
	eye := mgl32.Vec3{0, 1.5, 5}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0})
	viewProj := proj.Mul4(view)

	delta := brume.NewDelta()

	for !win.ShouldClose() {
		glfw.PollEvents()
		delta.Update(time.Now())

		for _, e := range effects {
			if err := e.renderer.SetViewProj(gpu.Queue, viewProj); err != nil {
				log.Errorf("view proj: %v", err)
			}
			if err := e.renderer.SetViewPos(gpu.Queue, eye.Vec4(1)); err != nil {
				log.Errorf("view pos: %v", err)
			}
			if err := e.system.UpdateSorted(delta.FrameTime(), gpu.Queue, eye); err != nil {
				log.Errorf("%s: update: %v", e.system.Name(), err)
			}
		}

		if err := renderFrame(gpu, depthView, effects); err != nil {
			log.Errorf("render: %v", err)
		}
	}
}

func buildEffects(gpu *brume.GpuState, cfg *brume.Config, log brume.Logger) ([]effect, error) {
	effects := make([]effect, 0, len(cfg.Systems))
	for i, sc := range cfg.Systems {
		desc := brume.DefaultParticleSystemDescriptor()
		desc.Max = sc.Max
		desc.Rate = sc.Rate
		desc.Pos = sc.Pos
		desc.Name = fmt.Sprintf("system-%d", i)
		desc.Gravity = mgl32.Vec3{0, -0.15, 0}
		desc.Logger = log
		desc.Fade = &brume.Fade{
			Ease:     ease.OutQuad,
			ScaleEnd: 0.2,
			AlphaEnd: 0,
		}

		system, err := brume.NewParticleSystem(gpu.Device, &desc)
		if err != nil {
			return nil, err
		}

		renderer, err := brume.NewParticleSystemRenderer(gpu.Device, gpu.Queue, gpu.SurfaceConfig, &brume.ParticleSystemRendererDescriptor{
			Texture: sc.Texture,
			Mesh:    sc.Mesh,
			Logger:  log,
		})
		if err != nil {
			return nil, err
		}

		effects = append(effects, effect{system: system, renderer: renderer})
	}
	return effects, nil
}

func renderFrame(gpu *brume.GpuState, depthView *wgpu.TextureView, effects []effect) error {
	frame, err := gpu.Surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := frame.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := gpu.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.02, G: 0.02, B: 0.04, A: 1.0},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	for _, e := range effects {
		e.renderer.Draw(pass, e.system)
	}

	if err := pass.End(); err != nil {
		pass.Release()
		return err
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()

	gpu.Queue.Submit(cmd)
	gpu.Surface.Present()
	return nil
}
