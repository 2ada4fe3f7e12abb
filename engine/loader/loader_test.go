package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var triangle = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

func positionBytes(points [][3]float32) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, points)
	return buf.Bytes()
}

// testDocument describes one mesh with a single POSITION accessor, instanced by one node.
func testDocument(count int, uri string, node map[string]any) map[string]any {
	byteLength := count * 12
	buffer := map[string]any{"byteLength": byteLength}
	if uri != "" {
		buffer["uri"] = uri
	}
	if node == nil {
		node = map[string]any{}
	}
	node["mesh"] = 0
	return map[string]any{
		"asset":       map[string]any{"version": "2.0"},
		"scene":       0,
		"scenes":      []any{map[string]any{"nodes": []int{0}}},
		"nodes":       []any{node},
		"meshes":      []any{map[string]any{"primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 0}}}}},
		"accessors":   []any{map[string]any{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": count, "type": "VEC3"}},
		"bufferViews": []any{map[string]any{"buffer": 0, "byteLength": byteLength}},
		"buffers":     []any{buffer},
	}
}

func buildGLB(t *testing.T, doc map[string]any, bin []byte) []byte {
	t.Helper()
	js, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(js)), ChunkType: gltfGLBChunkJSON})
	out.Write(js)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	out.Write(bin)
	return out.Bytes()
}

func TestLoadPointCloudReaderGLB(t *testing.T) {
	glb := buildGLB(t, testDocument(3, "", nil), positionBytes(triangle))
	l := NewLoader(BackendTypeGLTF)

	pc, err := l.LoadPointCloudReader("tri", bytes.NewReader(glb), true)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", pc.Len())
	}
	for i, want := range triangle {
		if pc.Points[i] != mgl32.Vec3(want) {
			t.Errorf("Points[%d] = %v, want %v", i, pc.Points[i], want)
		}
	}
	if pc.Min != (mgl32.Vec3{0, 0, 0}) || pc.Max != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("bounds = %v..%v", pc.Min, pc.Max)
	}
	if c := pc.Center(); c != (mgl32.Vec3{0.5, 0.5, 0}) {
		t.Errorf("Center() = %v", c)
	}
}

func TestLoadPointCloudReaderDataURI(t *testing.T) {
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(positionBytes(triangle))
	js, _ := json.Marshal(testDocument(3, uri, nil))

	pc, err := NewLoader(BackendTypeGLTF).LoadPointCloudReader("embedded", bytes.NewReader(js), false)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Len() != 3 || pc.Points[1] != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Points = %v", pc.Points)
	}
}

func TestNodeTransformsAreOptional(t *testing.T) {
	node := map[string]any{
		"translation": []float32{0, 0, 5},
		"rotation":    []float32{0, 0, float32(math.Sin(math.Pi / 4)), float32(math.Cos(math.Pi / 4))},
		"scale":       []float32{2, 2, 2},
	}
	glb := buildGLB(t, testDocument(3, "", node), positionBytes(triangle))

	raw, err := NewLoader(BackendTypeGLTF).LoadPointCloudReader("raw", bytes.NewReader(glb), true)
	if err != nil {
		t.Fatal(err)
	}
	if raw.Points[1] != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("mesh-space point = %v, want (1,0,0)", raw.Points[1])
	}

	baked, err := NewLoader(BackendTypeGLTF, WithNodeTransforms(true)).LoadPointCloudReader("baked", bytes.NewReader(glb), true)
	if err != nil {
		t.Fatal(err)
	}
	// scale 2, quarter turn about Z, then lift by 5
	want := mgl32.Vec3{0, 2, 5}
	if !baked.Points[1].ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("world-space point = %v, want %v", baked.Points[1], want)
	}
}

func TestLoadPointCloudFromFileIsCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "globe.glb")
	if err := os.WriteFile(path, buildGLB(t, testDocument(3, "", nil), positionBytes(triangle)), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(BackendTypeGLTF)
	first, err := l.LoadPointCloud(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := l.LoadPointCloud(path)
	if err != nil {
		t.Fatalf("cached load hit the filesystem: %v", err)
	}
	if first != second || l.Get(path) != first {
		t.Error("expected the cached point cloud")
	}
	if len(l.PointClouds()) != 1 {
		t.Errorf("PointClouds() has %d entries", len(l.PointClouds()))
	}
}

func TestLoadPointCloudExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "points.bin"), positionBytes(triangle), 0o644); err != nil {
		t.Fatal(err)
	}
	js, _ := json.Marshal(testDocument(3, "points.bin", nil))
	path := filepath.Join(dir, "scene.gltf")
	if err := os.WriteFile(path, js, 0o644); err != nil {
		t.Fatal(err)
	}

	pc, err := NewLoader(BackendTypeGLTF).LoadPointCloud(path)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Len() != 3 {
		t.Errorf("Len() = %d", pc.Len())
	}
}

func TestLoadPointCloudErrors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	if _, err := l.LoadPointCloud("globe.obj"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("obj: err = %v", err)
	}
	if _, err := l.LoadPointCloud(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("missing file: expected an error")
	}

	bad := buildGLB(t, testDocument(3, "", nil), positionBytes(triangle))
	binary.LittleEndian.PutUint32(bad[:4], 0xdeadbeef)
	if _, err := l.LoadPointCloudReader("magic", bytes.NewReader(bad), true); !errors.Is(err, errInvalidGLBMagic) {
		t.Errorf("bad magic: err = %v", err)
	}

	// accessor claims more vertices than the buffer holds
	short := buildGLB(t, testDocument(30, "", nil), positionBytes(triangle))
	if _, err := l.LoadPointCloudReader("short", bytes.NewReader(short), true); err == nil {
		t.Error("short buffer: expected an error")
	}

	doc := testDocument(3, "", nil)
	doc["meshes"] = []any{map[string]any{"primitives": []any{map[string]any{"attributes": map[string]int{}}}}}
	empty := buildGLB(t, doc, positionBytes(triangle))
	if _, err := l.LoadPointCloudReader("empty", bytes.NewReader(empty), true); !errors.Is(err, errNoPositions) {
		t.Errorf("no positions: err = %v", err)
	}

	v1, _ := json.Marshal(map[string]any{"asset": map[string]any{"version": "1.0"}})
	if _, err := l.LoadPointCloudReader("v1", bytes.NewReader(v1), false); !errors.Is(err, errInvalidGLTFVersion) {
		t.Errorf("version: err = %v", err)
	}

	if len(l.PointClouds()) != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestWithPointCloudPrepopulates(t *testing.T) {
	pc := &PointCloud{Name: "seed", Points: []mgl32.Vec3{{1, 2, 3}}}
	l := NewLoader(BackendTypeGLTF, WithPointCloud("seed.glb", pc))

	got, err := l.LoadPointCloud("seed.glb")
	if err != nil || got != pc {
		t.Errorf("LoadPointCloud = %v, %v; want the seeded cloud", got, err)
	}
}
