package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Common errors returned by the parser
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.x")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errAccessorRange      = errors.New("accessor reads past the end of its buffer")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser loads a glTF/GLB document and reads typed accessor data out of its buffers.
// This is internal to the loader package.
type gltfParser interface {
	// Parse loads and parses a glTF/GLB file from the given path.
	// GLB is detected by extension or by the magic number.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// ParseReader parses a glTF document from a reader. External buffer URIs resolve against
	// the working directory.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader, isGLB bool) error

	// Document returns the parsed document, or nil before a successful parse.
	//
	// Returns:
	//   - *gltfDocument: the parsed document or nil
	Document() *gltfDocument

	// ReadAccessorData reads the tightly packed bytes of an accessor, honouring byte stride.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []byte: the raw data
	//   - error: error if the accessor is invalid or out of bounds
	ReadAccessorData(accessorIndex int) ([]byte, error)

	// ReadVec3Accessor reads a VEC3 FLOAT accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if the accessor is not VEC3 FLOAT or cannot be read
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(path string) error {
	p.baseDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".glb" || (len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic) {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if isGLB {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

func (p *gltfParserImpl) parseGLTF(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	return p.finish(&doc)
}

// parseGLB splits a GLB container into its JSON and BIN chunks.
func (p *gltfParserImpl) parseGLB(data []byte) error {
	if len(data) < 12 {
		return errors.New("GLB file too small")
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData, binData []byte
	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		if int64(chunkHeader.ChunkLength) > int64(r.Len()) {
			return fmt.Errorf("chunk length %d exceeds remaining %d bytes", chunkHeader.ChunkLength, r.Len())
		}

		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = chunkData
		case gltfGLBChunkBIN:
			binData = chunkData
		}
	}

	if jsonData == nil {
		return errMissingJSONChunk
	}
	p.glbBinaryChunk = binData

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	return p.finish(&doc)
}

func (p *gltfParserImpl) finish(doc *gltfDocument) error {
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}
	p.document = doc
	return nil
}

// loadBuffers resolves every buffer from a data URI, an external file or the GLB BIN chunk.
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI != "":
			data, err := p.loadBufferURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		case i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		default:
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

func (p *gltfParserImpl) loadBufferURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return decodeDataURI(uri)
	}

	data, err := os.ReadFile(filepath.Join(p.baseDir, uri))
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer file %q: %w", uri, err)
	}
	return data, nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidBufferURI
	}

	header := uri[len("data:"):commaIdx]
	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}

	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

func (p *gltfParserImpl) ReadAccessorData(accessorIndex int) ([]byte, error) {
	if p.document == nil {
		return nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}

	acc := &p.document.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, errors.New("sparse accessors are not supported")
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, errors.New("accessor has no valid bufferView")
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("bufferView references missing buffer %d", bv.Buffer)
	}
	buf := &p.document.Buffers[bv.Buffer]

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 || acc.Count < 0 {
		return nil, fmt.Errorf("accessor %d has unsupported layout %s/%d", accessorIndex, acc.Type, acc.ComponentType)
	}

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	bufferOffset := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := bufferOffset + (acc.Count-1)*stride + elementSize
		if bufferOffset < 0 || end > len(buf.Data) {
			return nil, fmt.Errorf("accessor %d: %w", accessorIndex, errAccessorRange)
		}
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := bufferOffset + i*stride
		dst := i * elementSize
		copy(result[dst:dst+elementSize], buf.Data[src:src+elementSize])
	}
	return result, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	if p.document == nil || accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != gltfAccessorTypeVec3 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC3 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][3]float32, acc.Count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, result); err != nil {
		return nil, err
	}
	return result, nil
}

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4, gltfAccessorTypeMat2:
		return 4
	case gltfAccessorTypeMat3:
		return 9
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
