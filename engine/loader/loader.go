// Package loader reads vertex positions out of glTF/GLB assets to seed the particle field.
package loader

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// LoaderBackendType identifies the asset file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// PointCloud is the flat list of vertex positions extracted from an asset, with its bounds.
type PointCloud struct {
	Name   string
	Points []mgl32.Vec3
	Min    mgl32.Vec3
	Max    mgl32.Vec3
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	return len(pc.Points)
}

// Center returns the midpoint of the bounding box.
func (pc *PointCloud) Center() mgl32.Vec3 {
	return pc.Min.Add(pc.Max).Mul(0.5)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	backendType    LoaderBackendType
	nodeTransforms bool
	cache          map[string]*PointCloud

	backend loaderBackend
}

// Loader loads and caches point clouds extracted from 3D assets. The file format is hidden
// behind a backend; results are cached by path (or by name for readers).
type Loader interface {
	// LoadPointCloud extracts every vertex position from a .gltf or .glb file and caches the
	// result. A cached path is returned without touching the file again.
	//
	// Parameters:
	//   - path: the file path to the asset
	//
	// Returns:
	//   - *PointCloud: the extracted points
	//   - error: error if the format is unsupported, the file cannot be parsed or it has no positions
	LoadPointCloud(path string) (*PointCloud, error)

	// LoadPointCloudReader extracts positions from a stream and caches them under name.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: the reader providing asset data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *PointCloud: the extracted points
	//   - error: error if parsing fails or the asset has no positions
	LoadPointCloudReader(name string, r io.Reader, isGLB bool) (*PointCloud, error)

	// Get retrieves a cached point cloud by key. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *PointCloud: the cached point cloud or nil
	Get(name string) *PointCloud

	// PointClouds returns a copy of the cache.
	//
	// Returns:
	//   - map[string]*PointCloud: all cached point clouds keyed by name
	PointClouds() map[string]*PointCloud
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		backendType: backendType,
		cache:       make(map[string]*PointCloud),
	}
	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.nodeTransforms)
	}
	return l
}

func (l *loader) LoadPointCloud(path string) (*PointCloud, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	points, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, points), nil
}

func (l *loader) LoadPointCloudReader(name string, r io.Reader, isGLB bool) (*PointCloud, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, fmt.Errorf("no backend for loader type %d", l.backendType)
	}

	points, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, points), nil
}

func (l *loader) Get(name string) *PointCloud {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[name]
}

func (l *loader) PointClouds() map[string]*PointCloud {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*PointCloud, len(l.cache))
	for k, v := range l.cache {
		result[k] = v
	}
	return result
}

// store builds the PointCloud, caches it and logs its size. A concurrent load of the same key
// keeps whichever finished first.
func (l *loader) store(name string, points []mgl32.Vec3) *PointCloud {
	pc := &PointCloud{Name: name, Points: points}
	pc.Min, pc.Max = bounds(points)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.cache[name]; ok {
		return existing
	}
	l.cache[name] = pc
	log.Printf("[Loader] %s: %d points, bounds %v..%v", name, len(points), pc.Min, pc.Max)
	return pc
}

// resolveBackend selects a backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend != nil {
			return l.backend, nil
		}
	}
	return nil, fmt.Errorf("unsupported asset format: %q", ext)
}

func bounds(points []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if len(points) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}
