package planner

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
)

var errNoBounds = errors.New("model has no POSITION bounds")

// gltfDocument is the subset of the glTF JSON needed to size a model
type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Accessors []struct {
		Min []float64 `json:"min"`
		Max []float64 `json:"max"`
	} `json:"accessors"`
	Meshes []struct {
		Primitives []struct {
			Attributes map[string]int `json:"attributes"`
		} `json:"primitives"`
	} `json:"meshes"`
}

// parseGLB validates a binary glTF container and returns its JSON chunk
func parseGLB(data []byte) ([]byte, error) {
	if len(data) < glbHeaderLen+8 {
		return nil, fmt.Errorf("glb: file too short (%d bytes)", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, fmt.Errorf("glb: bad magic")
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != 2 {
		return nil, fmt.Errorf("glb: unsupported version %d", v)
	}
	total := binary.LittleEndian.Uint32(data[8:12])
	if int(total) > len(data) {
		return nil, fmt.Errorf("glb: declared length %d exceeds file size %d", total, len(data))
	}

	chunkLen := binary.LittleEndian.Uint32(data[12:16])
	chunkType := binary.LittleEndian.Uint32(data[16:20])
	if chunkType != glbChunkJSON {
		return nil, fmt.Errorf("glb: first chunk is not JSON")
	}
	end := glbHeaderLen + 8 + int(chunkLen)
	if end > len(data) {
		return nil, fmt.Errorf("glb: JSON chunk overruns file")
	}
	return bytes.TrimRight(data[glbHeaderLen+8:end], " \x00"), nil
}

// modelBounds returns the axis-aligned size of all mesh POSITION accessors, in meters
func modelBounds(doc []byte) (Dimensions, error) {
	var g gltfDocument
	if err := json.Unmarshal(doc, &g); err != nil {
		return Dimensions{}, fmt.Errorf("gltf: %w", err)
	}
	if g.Asset.Version != "" && g.Asset.Version[0] != '2' {
		return Dimensions{}, fmt.Errorf("gltf: unsupported asset version %s", g.Asset.Version)
	}

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, m := range g.Meshes {
		for _, p := range m.Primitives {
			idx, ok := p.Attributes["POSITION"]
			if !ok || idx < 0 || idx >= len(g.Accessors) {
				continue
			}
			acc := g.Accessors[idx]
			if len(acc.Min) < 3 || len(acc.Max) < 3 {
				continue
			}
			for i := 0; i < 3; i++ {
				min[i] = math.Min(min[i], acc.Min[i])
				max[i] = math.Max(max[i], acc.Max[i])
			}
			found = true
		}
	}
	if !found {
		return Dimensions{}, errNoBounds
	}
	return Dimensions{
		Width:  max[0] - min[0],
		Height: max[1] - min[1],
		Depth:  max[2] - min[2],
	}, nil
}
