// gltf_types.go contains the subset of the glTF 2.0 schema needed to pull vertex positions out
// of a document. Fields the loader never reads (materials, skins, animations) are left out;
// encoding/json ignores them.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// gltfDocument represents the root of a glTF JSON document.
type gltfDocument struct {
	// Asset contains metadata about the glTF asset.
	Asset gltfAsset `json:"asset"`

	// Scene is the index of the default scene.
	Scene *int `json:"scene,omitempty"`

	Scenes      []gltfScene      `json:"scenes,omitempty"`
	Nodes       []gltfNode       `json:"nodes,omitempty"`
	Meshes      []gltfMesh       `json:"meshes,omitempty"`
	Accessors   []gltfAccessor   `json:"accessors,omitempty"`
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     []gltfBuffer     `json:"buffers,omitempty"`
}

// gltfAsset contains metadata about the glTF asset.
type gltfAsset struct {
	// Version is the glTF version (required, must be "2.x").
	Version string `json:"version"`

	Generator string `json:"generator,omitempty"`
}

// gltfScene is a set of root nodes.
type gltfScene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// gltfNode is a node in the transform hierarchy.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type gltfNode struct {
	Name     string `json:"name,omitempty"`
	Children []int  `json:"children,omitempty"`
	Mesh     *int   `json:"mesh,omitempty"`

	// Matrix is a 4x4 column-major transform. When present it replaces TRS.
	Matrix *[16]float32 `json:"matrix,omitempty"`

	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is a unit quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	Scale *[3]float32 `json:"scale,omitempty"`
}

// gltfMesh is a set of primitives.
type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive maps attribute semantics (POSITION, NORMAL, ...) to accessor indices.
type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
}

// gltfAttributePosition is the vertex position attribute semantic.
const gltfAttributePosition = "POSITION"

// gltfAccessor defines how to interpret buffer data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type gltfAccessor struct {
	BufferView *int `json:"bufferView,omitempty"`
	ByteOffset int  `json:"byteOffset,omitempty"`

	// ComponentType is the data type of components.
	// 5120=BYTE, 5121=UNSIGNED_BYTE, 5122=SHORT, 5123=UNSIGNED_SHORT, 5125=UNSIGNED_INT, 5126=FLOAT
	ComponentType int `json:"componentType"`

	Count int `json:"count"`

	// Type is the element type (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`

	// Sparse is only checked for presence; sparse storage is rejected.
	Sparse *struct{} `json:"sparse,omitempty"`
}

// ComponentType constants
const (
	gltfComponentTypeByte          = 5120
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeShort         = 5122
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

// AccessorType constants
const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec2   = "VEC2"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
	gltfAccessorTypeMat2   = "MAT2"
	gltfAccessorTypeMat3   = "MAT3"
	gltfAccessorTypeMat4   = "MAT4"
)

// gltfBufferView represents a subset of a buffer.
type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

// gltfBuffer represents binary data.
type gltfBuffer struct {
	// URI is a data: URI or a path relative to the document.
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`

	// Data holds the loaded bytes (populated during load).
	Data []byte `json:"-"`
}

// gltfGLBHeader is the 12-byte header of a GLB file.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
type gltfGLBHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// gltfGLBChunkHeader is the 8-byte header of a GLB chunk.
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

// GLB magic number and chunk type constants
const (
	gltfGLBMagic     = 0x46546C67 // "glTF"
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON"
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0"
)
