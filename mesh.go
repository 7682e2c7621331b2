package brume

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed obj/cube.obj
var cubeObj string

// MeshCube selects the built-in cube mesh. Any other non-empty value passed
// as a mesh name is treated as an OBJ file path.
const MeshCube = "cube"

// ParticleVertex is one vertex of the shared particle mesh. Every particle
// instance draws the same geometry.
type ParticleVertex struct {
	Position  [3]float32 `brume:"layout" format:"float3" location:"0"`
	TexCoords [2]float32 `brume:"layout" format:"float2" location:"1"`
	Normal    [3]float32 `brume:"layout" format:"float3" location:"2"`
}

// ParticleMesh owns the GPU-resident vertex and index buffers for the
// geometry shared by every particle instance.
type ParticleMesh struct {
	VertexBuf   *wgpu.Buffer
	IndexBuf    *wgpu.Buffer // nil for non-indexed meshes
	VertexCount uint32
	IndexCount  uint32
}

// NewParticleMesh loads the mesh named by mesh: "" or "cube" selects the
// embedded cube, anything else is read as an OBJ file.
func NewParticleMesh(device *wgpu.Device, mesh string) (*ParticleMesh, error) {
	var (
		data string
		path string
	)
	switch mesh {
	case "", MeshCube:
		data, path = cubeObj, "cube.obj"
	default:
		raw, err := os.ReadFile(mesh)
		if err != nil {
			return nil, fmt.Errorf("read mesh %s: %w", mesh, err)
		}
		data, path = string(raw), mesh
	}

	vertices, indices, err := ParseObj(data, path)
	if err != nil {
		return nil, err
	}
	return newParticleMeshFromData(device, vertices, indices)
}

func newParticleMeshFromData(device *wgpu.Device, vertices []ParticleVertex, indices []uint16) (*ParticleMesh, error) {
	vertexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Particle Vertex Buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	var indexBuf *wgpu.Buffer
	if len(indices) > 0 {
		indexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "Particle Index Buffer",
			Contents: wgpu.ToBytes(indices),
			Usage:    wgpu.BufferUsageIndex,
		})
		if err != nil {
			vertexBuf.Release()
			return nil, err
		}
	}

	return &ParticleMesh{
		VertexBuf:   vertexBuf,
		IndexBuf:    indexBuf,
		VertexCount: uint32(len(vertices)),
		IndexCount:  uint32(len(indices)),
	}, nil
}

func (m *ParticleMesh) Release() {
	if m.VertexBuf != nil {
		m.VertexBuf.Release()
	}
	if m.IndexBuf != nil {
		m.IndexBuf.Release()
	}
}
