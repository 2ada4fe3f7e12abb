package loader

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// loaderBackend loads point clouds from files or streams in one concrete format.
type loaderBackend interface {
	// Load extracts vertex positions from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []mgl32.Vec3: the vertex positions
	//   - error: error if loading fails
	Load(path string) ([]mgl32.Vec3, error)

	// LoadReader extracts vertex positions from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing file data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - []mgl32.Vec3: the vertex positions
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) ([]mgl32.Vec3, error)
}
