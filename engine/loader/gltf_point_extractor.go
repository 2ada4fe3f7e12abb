package loader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var errNoPositions = errors.New("document contains no vertex positions")

// gltfPointExtractorImpl is the implementation of the gltfPointExtractor interface.
type gltfPointExtractorImpl struct {
	parser         gltfParser
	nodeTransforms bool
}

// gltfPointExtractor collects the POSITION attribute of every mesh primitive reachable from
// the default scene into one flat point list.
type gltfPointExtractor interface {
	// Extract walks the scene graph depth-first and appends each instanced mesh's vertices.
	// A mesh referenced by two nodes contributes its vertices twice.
	//
	// Returns:
	//   - []mgl32.Vec3: the vertex positions
	//   - error: error if an accessor cannot be read or no positions were found
	Extract() ([]mgl32.Vec3, error)
}

var _ gltfPointExtractor = &gltfPointExtractorImpl{}

// newGLTFPointExtractor creates an extractor over a parser that already holds a document.
//
// Parameters:
//   - parser: the parser holding the document
//   - nodeTransforms: bake node world transforms into the points; otherwise positions stay in mesh space
//
// Returns:
//   - gltfPointExtractor: the extractor
func newGLTFPointExtractor(parser gltfParser, nodeTransforms bool) gltfPointExtractor {
	return &gltfPointExtractorImpl{parser: parser, nodeTransforms: nodeTransforms}
}

func (e *gltfPointExtractorImpl) Extract() ([]mgl32.Vec3, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document after parsing")
	}

	var points []mgl32.Vec3
	roots := gltfRootNodes(doc)
	if len(roots) == 0 {
		// node-less documents still carry meshes
		for mi := range doc.Meshes {
			var err error
			if points, err = e.appendMesh(points, mi, mgl32.Ident4()); err != nil {
				return nil, err
			}
		}
	}

	visited := make(map[int]bool, len(doc.Nodes))
	for _, root := range roots {
		var err error
		if points, err = e.walk(points, root, mgl32.Ident4(), visited); err != nil {
			return nil, err
		}
	}

	if len(points) == 0 {
		return nil, errNoPositions
	}
	return points, nil
}

func (e *gltfPointExtractorImpl) walk(points []mgl32.Vec3, nodeIndex int, parent mgl32.Mat4, visited map[int]bool) ([]mgl32.Vec3, error) {
	doc := e.parser.Document()
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) || visited[nodeIndex] {
		return points, nil
	}
	visited[nodeIndex] = true

	node := &doc.Nodes[nodeIndex]
	world := parent
	if e.nodeTransforms {
		world = parent.Mul4(gltfNodeMatrix(node))
	}

	if node.Mesh != nil {
		var err error
		if points, err = e.appendMesh(points, *node.Mesh, world); err != nil {
			return nil, fmt.Errorf("node %d: %w", nodeIndex, err)
		}
	}
	for _, child := range node.Children {
		var err error
		if points, err = e.walk(points, child, world, visited); err != nil {
			return nil, err
		}
	}
	return points, nil
}

func (e *gltfPointExtractorImpl) appendMesh(points []mgl32.Vec3, meshIndex int, world mgl32.Mat4) ([]mgl32.Vec3, error) {
	doc := e.parser.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	identity := world == mgl32.Ident4()
	for pi, prim := range doc.Meshes[meshIndex].Primitives {
		accessor, ok := prim.Attributes[gltfAttributePosition]
		if !ok {
			continue
		}
		positions, err := e.parser.ReadVec3Accessor(accessor)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, pi, err)
		}
		for _, p := range positions {
			v := mgl32.Vec3(p)
			if !identity {
				v = world.Mul4x1(v.Vec4(1)).Vec3()
			}
			points = append(points, v)
		}
	}
	return points, nil
}

// gltfRootNodes returns the default scene's roots, the first scene's when no default is set,
// or every parentless node when the document has no scenes.
func gltfRootNodes(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfNodeMatrix returns the node's local transform: its matrix if present, otherwise T * R * S.
func gltfNodeMatrix(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}

	m := mgl32.Ident4()
	if t := node.Translation; t != nil {
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if r := node.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		if q.Len() > 0 {
			m = m.Mul4(q.Normalize().Mat4())
		}
	}
	if s := node.Scale; s != nil {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}
