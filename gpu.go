package brume

import (
	"reflect"
	"runtime"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window wraps the GLFW window the demo renders into. Library consumers
// embedding brume in their own engine never need it; they hand the system a
// device and queue directly.
type Window struct {
	Glfw   *glfw.Window
	Width  int
	Height int
	Title  string
}

func NewWindow(width, height int, title string) *Window {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}

	return &Window{
		Glfw:   win,
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (w *Window) ShouldClose() bool {
	return w.Glfw.ShouldClose()
}

func (w *Window) Destroy() {
	w.Glfw.Destroy()
	glfw.Terminate()
}

// BufferAllocator allocates GPU buffers. *wgpu.Device implements it; tests
// substitute a fake. The particle core needs nothing else from the device.
type BufferAllocator interface {
	CreateBufferInit(descriptor *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error)
}

// BufferWriter schedules buffer writes. *wgpu.Queue implements it. Writes
// are queued, not flushed: all per-particle writes for a frame must be
// queued before that frame's draw is submitted.
type BufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// GpuState bundles the wgpu handles the particle systems and renderers
// consume: the device allocates buffers, the queue schedules writes.
type GpuState struct {
	Surface       *wgpu.Surface
	Adapter       *wgpu.Adapter
	Device        *wgpu.Device
	Queue         *wgpu.Queue
	SurfaceConfig *wgpu.SurfaceConfiguration
}

func NewGpuState(w *Window) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps the GLFW window into a wgpu surface
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.Glfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(w.Width),
		Height:      uint32(w.Height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		Surface:       surface,
		Adapter:       adapter,
		Device:        device,
		Queue:         queue,
		SurfaceConfig: &surfaceConfig,
	}
}

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

// vertexBufferLayout derives a wgpu vertex layout from struct tags:
//
//	Position [3]float32 `brume:"layout" format:"float3" location:"0"`
func vertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("Vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if "layout" == field.Tag.Get("brume") {
			format := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if nil != err {
				panic(err)
			}

			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		// Add size of field to offset
		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}
