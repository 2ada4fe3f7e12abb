package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Epsilon is the length below which a vector is treated as degenerate.
const Epsilon = 1e-3

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Lerp linearly interpolates between a and b by t.
func Lerp[F constraints.Float](a, b, t F) F {
	return a + (b-a)*t
}

// Clamp limits n to the closed range [minN, maxN].
func Clamp[N constraints.Integer | constraints.Float](n, minN, maxN N) N {
	n = min(n, maxN)
	n = max(n, minN)
	return n
}

// Clamp01 limits a float to [0, 1]. NaN maps to 0.
func Clamp01[F constraints.Float](v F) F {
	if v != v {
		return 0
	}
	return Clamp(v, 0, 1)
}

// Finite reports whether every component of v is neither NaN nor infinite.
//
// Parameters:
//   - v: the vector to check
//
// Returns:
//   - bool: true if all components are finite
func Finite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Perspective creates a perspective projection matrix for WebGPU clip space (depth in [0, 1]).
// The matrix is column-major, matching mgl32.Mat4 layout.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := float32(1.0 / math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// ModelMatrix constructs a model matrix from translation, Euler rotation and uniform scale.
// The rotation order is Y * X * Z (yaw-pitch-roll).
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around X, Y and Z
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the composed model matrix (T * Ry * Rx * Rz * S)
func ModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// TransformPoint applies m to the point p (w = 1) and performs the perspective divide.
// Returns false when the resulting w is zero.
//
// Parameters:
//   - m: the transform
//   - p: the point to transform
//
// Returns:
//   - mgl32.Vec3: the transformed point
//   - bool: false if the homogeneous divide is undefined
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) (mgl32.Vec3, bool) {
	v := m.Mul4x1(p.Vec4(1))
	if v.W() == 0 {
		return mgl32.Vec3{}, false
	}
	return v.Vec3().Mul(1 / v.W()), true
}
