package nbt

import (
	"bytes"
	"testing"
)

// benchmarkChunk resembles a small chunk section: a palette, packed block
// states and a list of entities.
func benchmarkChunk(b *testing.B) *Compound {
	palette, _ := NewList(TagCompound)
	for _, name := range []string{"minecraft:air", "minecraft:stone", "minecraft:dirt", "minecraft:grass_block"} {
		_ = palette.Append(compoundOf(b, "Name", String(name)))
	}
	entities, _ := NewList(TagCompound)
	for i := range 16 {
		pos, _ := NewList(TagDouble, Double(i), Double(64), Double(-i))
		_ = entities.Append(compoundOf(b, "id", String("minecraft:pig"), "Pos", pos, "Health", Float(10)))
	}
	return compoundOf(b,
		"DataVersion", Int(3465),
		"xPos", Int(-4),
		"zPos", Int(12),
		"Status", String("minecraft:full"),
		"block_states", compoundOf(b,
			"palette", palette,
			"data", LongArray(make([]int64, 256)),
		),
		"Heightmaps", compoundOf(b, "MOTION_BLOCKING", LongArray(make([]int64, 37))),
		"Entities", entities,
	)
}

func BenchmarkEncode(b *testing.B) {
	tree := benchmarkChunk(b)
	for _, v := range allVariants {
		b.Run(v.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, _ = Encode("", tree, v, CompressionNone)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	tree := benchmarkChunk(b)
	for _, v := range allVariants {
		data, _ := Encode("", tree, v, CompressionNone)
		b.Run(v.Name(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				_, _, _ = Decode(data, v, CompressionNone, DefaultLimits())
			}
		})
	}
}

func BenchmarkDecodeCompressed(b *testing.B) {
	tree := benchmarkChunk(b)
	for _, c := range []Compression{CompressionZlib, CompressionZstd, CompressionLZ4} {
		data, _ := Encode("", tree, BigEndian, c)
		b.Run(c.String(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, _, _ = NewDecoder(bytes.NewReader(data)).WithCompression(CompressionAuto).Decode()
			}
		})
	}
}
