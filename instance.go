package brume

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ParticleInstance is the GPU-visible per-particle record consumed by the
// instanced draw. The layout is packed column-major with no padding:
// 4x4 model matrix (64 bytes), 3x3 normal matrix (36 bytes) and RGBA color
// (16 bytes), for 116 bytes in total. It must match the instance attributes
// declared in particle.wgsl at shader locations 5 through 12.
type ParticleInstance struct {
	Model  mgl32.Mat4
	Normal mgl32.Mat3
	Color  mgl32.Vec4
}

// ParticleInstanceSize is the packed byte size of one instance record.
const ParticleInstanceSize uint64 = 4 * (16 + 9 + 4)

// particleInstanceLayout describes the instance buffer to the pipeline.
// Matrix columns are delivered as consecutive vector attributes because
// WGSL has no matrix vertex attribute type.
func particleInstanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: ParticleInstanceSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 5, Offset: 0, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 6, Offset: 16, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 7, Offset: 32, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 8, Offset: 48, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 9, Offset: 64, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 10, Offset: 76, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 11, Offset: 88, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 12, Offset: 100, Format: wgpu.VertexFormatFloat32x4},
		},
	}
}
