package renderer

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUPointShaderSource is the WGSL source of the point pipeline.
// Its PointUniforms struct matches GPUPointUniforms exactly.
//
//go:embed assets/points.wgsl
var GPUPointShaderSource string

// pointVerticesPerInstance is the number of vertices emitted per point (two triangles).
const pointVerticesPerInstance = 6

var errPointBufferShape = errors.New("position buffer must hold three floats per size")

// GPUPointUniforms is the uniform block of the point pipeline.
// Size: 224 bytes (three mat4x4<f32> and two vec4<f32>, std140 aligned).
type GPUPointUniforms struct {
	View       [16]float32 // offset 0: world to eye (64 bytes)
	Projection [16]float32 // offset 64: eye to clip (64 bytes)
	World      [16]float32 // offset 128: field model matrix (64 bytes)
	Color      [4]float32  // offset 192: RGBA point colour (16 bytes)
	Params     [4]float32  // offset 208: x opacity, y viewport height / width (16 bytes)
}

// Size returns the size of the GPUPointUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUPointUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPointUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 224-byte buffer ready for GPU upload.
func (g *GPUPointUniforms) Marshal() []byte {
	buf := make([]byte, 224)
	off := 0
	put := func(vs []float32) {
		for _, v := range vs {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
			off += 4
		}
	}
	put(g.View[:])
	put(g.Projection[:])
	put(g.World[:])
	put(g.Color[:])
	put(g.Params[:])
	return buf
}

// newPointUniforms fills the uniform block for one frame.
// mgl32 matrices are column-major, the same order WGSL expects.
func newPointUniforms(frame PointFrame, color [4]float32, width, height int) GPUPointUniforms {
	aspectInv := float32(1)
	if width > 0 && height > 0 {
		aspectInv = float32(height) / float32(width)
	}
	return GPUPointUniforms{
		View:       frame.View,
		Projection: frame.Projection,
		World:      frame.World,
		Color:      color,
		Params:     [4]float32{mgl32.Clamp(frame.Opacity, 0, 1), aspectInv, 0, 0},
	}
}

// pointCount validates a position/size buffer pair and returns the number of points.
func pointCount(positions, sizes []float32) (int, error) {
	if len(positions) != 3*len(sizes) {
		return 0, fmt.Errorf("%w: %d floats for %d sizes", errPointBufferShape, len(positions), len(sizes))
	}
	return len(sizes), nil
}

// growCapacity returns the buffer capacity, in points, to allocate for n points.
// Capacity doubles so a slowly growing field does not reallocate every upload.
func growCapacity(current, n int) int {
	if n <= current {
		return current
	}
	c := max(current, 1024)
	for c < n {
		c *= 2
	}
	return c
}
