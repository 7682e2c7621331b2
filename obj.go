package brume

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseObj reads a Wavefront OBJ body and returns non-indexed triangle
// vertices. Supported directives: v, vt, vn and f with "pos/tex/norm"
// references; quads and larger faces are fan-triangulated. Errors carry the
// path and one-based line number of the offending directive.
func ParseObj(data string, path string) ([]ParticleVertex, []uint16, error) {
	var (
		positions [][3]float32
		texCoords [][2]float32
		normals   [][3]float32
		vertices  []ParticleVertex
	)

	for lineNo, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, &ObjError{Path: path, Line: lineNo + 1, Err: err}
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})
		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, nil, &ObjError{Path: path, Line: lineNo + 1, Err: err}
			}
			texCoords = append(texCoords, [2]float32{p[0], p[1]})
		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, &ObjError{Path: path, Line: lineNo + 1, Err: err}
			}
			normals = append(normals, [3]float32{p[0], p[1], p[2]})
		case "f":
			face := make([]ParticleVertex, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				v, err := parseFaceVertex(ref, positions, texCoords, normals)
				if err != nil {
					return nil, nil, &ObjError{Path: path, Line: lineNo + 1, Err: err}
				}
				face = append(face, v)
			}
			if len(face) < 3 {
				return nil, nil, &ObjError{
					Path: path, Line: lineNo + 1,
					Err: fmt.Errorf("face needs at least 3 vertices, got %d", len(face)),
				}
			}
			for i := 1; i+1 < len(face); i++ {
				vertices = append(vertices, face[0], face[i], face[i+1])
			}
		}
	}

	// Flat vertex stream; indexing would only help for shared-vertex meshes.
	return vertices, nil, nil
}

func parseFloats(fields []string, want int) ([]float32, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("expected %d values, got %d", want, len(fields))
	}
	out := make([]float32, want)
	for i := 0; i < want; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", fields[i], err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex resolves one "p/t/n" face reference. Missing texture or
// normal parts are left zero; out-of-range indices are explicit errors, not
// silent wraps.
func parseFaceVertex(ref string, positions [][3]float32, texCoords [][2]float32, normals [][3]float32) (ParticleVertex, error) {
	var vertex ParticleVertex
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return vertex, fmt.Errorf("malformed face vertex %q", ref)
	}
	for i, part := range parts {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return vertex, fmt.Errorf("invalid face index %q: %w", part, err)
		}
		idx := n - 1
		switch i {
		case 0:
			if idx < 0 || idx >= len(positions) {
				return vertex, fmt.Errorf("position index %d out of bounds (have %d)", n, len(positions))
			}
			vertex.Position = positions[idx]
		case 1:
			if idx < 0 || idx >= len(texCoords) {
				return vertex, fmt.Errorf("texture index %d out of bounds (have %d)", n, len(texCoords))
			}
			vertex.TexCoords = texCoords[idx]
		case 2:
			if idx < 0 || idx >= len(normals) {
				return vertex, fmt.Errorf("normal index %d out of bounds (have %d)", n, len(normals))
			}
			vertex.Normal = normals[idx]
		}
	}
	return vertex, nil
}
