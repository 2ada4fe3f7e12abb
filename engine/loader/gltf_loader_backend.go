package loader

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	nodeTransforms bool
}

// gltfLoaderBackend is a loaderBackend for glTF/GLB files. Each load uses a fresh parser
// and point extractor.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend(nodeTransforms bool) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{nodeTransforms: nodeTransforms}
}

func (b *gltfLoaderBackendImpl) Load(path string) ([]mgl32.Vec3, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return newGLTFPointExtractor(parser, b.nodeTransforms).Extract()
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, isGLB bool) ([]mgl32.Vec3, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return newGLTFPointExtractor(parser, b.nodeTransforms).Extract()
}
