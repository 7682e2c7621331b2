package brume

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed particle.wgsl
var particleWGSL string

// cameraBufSize holds a 4x4 view-projection matrix followed by the camera
// world position: 64 + 16 bytes.
const cameraBufSize = 80

// viewPosOffset is the byte offset of the camera position within the
// camera uniform buffer.
const viewPosOffset = 64

// ParticleSystemRendererDescriptor configures the renderer collaborator.
type ParticleSystemRendererDescriptor struct {
	// Texture is the PNG path sampled by the fragment shader; empty selects
	// the built-in default texture.
	Texture string
	// Mesh names the per-particle geometry: "cube" or an OBJ path.
	Mesh string
	// Logger is optional; nil selects the no-op logger.
	Logger Logger
}

// ParticleSystemRenderer owns the pipeline, camera uniform, texture and
// mesh used to draw one particle system. Draw is an explicit method that
// borrows the system's instance buffer.
type ParticleSystemRenderer struct {
	pipeline   *wgpu.RenderPipeline
	bindGroups []*wgpu.BindGroup
	viewData   *wgpu.Buffer
	mesh       *ParticleMesh
	texture    *Texture
}

// NewParticleSystemRenderer builds the render pipeline: shared mesh at
// vertex buffer slot 0, the system's instance buffer at slot 1 (shader
// locations 5..12), alpha blending and depth testing against DepthFormat.
func NewParticleSystemRenderer(
	device *wgpu.Device,
	queue *wgpu.Queue,
	config *wgpu.SurfaceConfiguration,
	desc *ParticleSystemRendererDescriptor,
) (*ParticleSystemRenderer, error) {
	// resources created so far, torn down in reverse when a later step fails
	var created []releaser
	done := false
	defer func() {
		if !done {
			releaseInReverse(created)
		}
	}()

	mesh, err := NewParticleMesh(device, desc.Mesh)
	if err != nil {
		return nil, err
	}
	created = append(created, mesh)

	texture, err := LoadTexture(device, queue, desc.Texture, desc.Logger)
	if err != nil {
		return nil, err
	}
	created = append(created, texture)

	viewData, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Camera Buffer",
		Contents: make([]byte, cameraBufSize),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	created = append(created, viewData)

	cameraLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer cameraLayout.Release()

	textureLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer textureLayout.Release()

	cameraGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  viewData,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	created = append(created, cameraGroup)

	textureGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Texture Bind Group",
		Layout: textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: texture.View,
				Size:        wgpu.WholeSize,
			},
			{
				Binding: 1,
				Sampler: texture.Sampler,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	created = append(created, textureGroup)

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Particle Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: particleWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shader.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Particle Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout, textureLayout},
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Particle Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				vertexBufferLayout(ParticleVertex{}),
				particleInstanceLayout(),
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    config.Format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	done = true
	return &ParticleSystemRenderer{
		pipeline:   pipeline,
		bindGroups: []*wgpu.BindGroup{cameraGroup, textureGroup},
		viewData:   viewData,
		mesh:       mesh,
		texture:    texture,
	}, nil
}

type releaser interface {
	Release()
}

// releaseInReverse tears down resources opposite to creation order, so
// dependents go before what they were created from.
func releaseInReverse(resources []releaser) {
	for i := len(resources) - 1; i >= 0; i-- {
		resources[i].Release()
	}
}

// SetViewProj uploads the view-projection matrix; refresh once per frame.
func (r *ParticleSystemRenderer) SetViewProj(queue *wgpu.Queue, vp mgl32.Mat4) error {
	return queue.WriteBuffer(r.viewData, 0, wgpu.ToBytes(vp[:]))
}

// SetViewPos uploads the camera world position used for view-dependent
// shading and for UpdateSorted's back-to-front ordering.
func (r *ParticleSystemRenderer) SetViewPos(queue *wgpu.Queue, pos mgl32.Vec4) error {
	return queue.WriteBuffer(r.viewData, viewPosOffset, wgpu.ToBytes(pos[:]))
}

// Mesh exposes the shared particle geometry.
func (r *ParticleSystemRenderer) Mesh() *ParticleMesh {
	return r.mesh
}

// Draw records the instanced draw for sys into pass. All of the system's
// buffer writes for this frame must already be queued.
func (r *ParticleSystemRenderer) Draw(pass *wgpu.RenderPassEncoder, sys *ParticleSystem) {
	pass.SetPipeline(r.pipeline)
	for i, group := range r.bindGroups {
		pass.SetBindGroup(uint32(i), group, nil)
	}
	pass.SetVertexBuffer(0, r.mesh.VertexBuf, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, sys.ParticleBuf(), 0, wgpu.WholeSize)

	if r.mesh.IndexBuf != nil {
		pass.SetIndexBuffer(r.mesh.IndexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(r.mesh.IndexCount, sys.ParticleCount(), 0, 0, 0)
	} else {
		pass.Draw(r.mesh.VertexCount, sys.ParticleCount(), 0, 0)
	}
}

func (r *ParticleSystemRenderer) Release() {
	for _, g := range r.bindGroups {
		g.Release()
	}
	r.viewData.Release()
	r.texture.Release()
	r.mesh.Release()
	r.pipeline.Release()
}
