package sim

import (
	"bytes"
	"encoding/binary"

	"holdground/building"
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
	"holdground/persistence"
	"holdground/roadgraph"
	"holdground/serf"
)

// Each arena section is a sequence of handle(u32) | length(u32) | payload
// records, one per live entity, in ascending handle order (Arena.Each's
// own iteration order). The map section has no handles: tiles are
// addressed by their position in Pos order, so it's just a fixed-stride
// array of persistence.EncodeTile records.

func putRecord(buf *bytes.Buffer, handle uint32, payload []byte) {
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], handle)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(payload)))
	buf.Write(header[:])
	buf.Write(payload)
}

// eachRecord walks a records section, calling fn with each handle and its
// raw payload, until the data is exhausted.
func eachRecord(data []byte, fn func(handle uint32, payload []byte) error) error {
	pos := 0
	for pos < len(data) {
		if pos+8 > len(data) {
			return persistence.ErrTruncatedSection
		}
		handle := binary.LittleEndian.Uint32(data[pos : pos+4])
		length := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		pos += 8
		if pos+int(length) > len(data) {
			return persistence.ErrTruncatedSection
		}
		payload := data[pos : pos+int(length)]
		pos += int(length)
		if err := fn(handle, payload); err != nil {
			return err
		}
	}
	return nil
}

func encodeMapSection(m *hexmap.Map) []byte {
	var buf bytes.Buffer
	count := m.TileCount()
	for i := 0; i < count; i++ {
		buf.Write(persistence.EncodeTile(m.Tile(hexmap.Pos(i))))
	}
	return buf.Bytes()
}

// tileRecordSize is persistence.EncodeTile's fixed output length.
const tileRecordSize = 11

func decodeMapSection(m *hexmap.Map, data []byte) error {
	count := m.TileCount()
	if len(data) != count*tileRecordSize {
		return persistence.ErrTruncatedSection
	}
	for i := 0; i < count; i++ {
		start := i * tileRecordSize
		t, err := persistence.DecodeTile(data[start : start+tileRecordSize])
		if err != nil {
			return err
		}
		*m.Tile(hexmap.Pos(i)) = t
	}
	return nil
}

func encodeFlagsSection(arena *entitystore.Arena[entitystore.FlagHandle, roadgraph.Flag]) []byte {
	var buf bytes.Buffer
	arena.Each(func(h entitystore.FlagHandle, f *roadgraph.Flag) {
		putRecord(&buf, uint32(h), persistence.EncodeFlag(f))
	})
	return buf.Bytes()
}

func decodeFlagsSection(arena *entitystore.Arena[entitystore.FlagHandle, roadgraph.Flag], data []byte) error {
	return eachRecord(data, func(handle uint32, payload []byte) error {
		f, err := persistence.DecodeFlag(payload)
		if err != nil {
			return err
		}
		return arena.Restore(entitystore.FlagHandle(handle), f)
	})
}

func encodeBuildingsSection(arena *entitystore.Arena[entitystore.BuildingHandle, building.Building]) []byte {
	var buf bytes.Buffer
	arena.Each(func(h entitystore.BuildingHandle, b *building.Building) {
		putRecord(&buf, uint32(h), persistence.EncodeBuilding(b))
	})
	return buf.Bytes()
}

func decodeBuildingsSection(arena *entitystore.Arena[entitystore.BuildingHandle, building.Building], data []byte) error {
	return eachRecord(data, func(handle uint32, payload []byte) error {
		b, err := persistence.DecodeBuilding(payload)
		if err != nil {
			return err
		}
		return arena.Restore(entitystore.BuildingHandle(handle), b)
	})
}

func encodeInventoriesSection(arena *entitystore.Arena[entitystore.InventoryHandle, inventory.Inventory]) []byte {
	var buf bytes.Buffer
	arena.Each(func(h entitystore.InventoryHandle, inv *inventory.Inventory) {
		putRecord(&buf, uint32(h), persistence.EncodeInventory(inv))
	})
	return buf.Bytes()
}

func decodeInventoriesSection(arena *entitystore.Arena[entitystore.InventoryHandle, inventory.Inventory], data []byte) error {
	return eachRecord(data, func(handle uint32, payload []byte) error {
		inv, err := persistence.DecodeInventory(payload)
		if err != nil {
			return err
		}
		return arena.Restore(entitystore.InventoryHandle(handle), inv)
	})
}

func encodeSerfsSection(arena *entitystore.Arena[entitystore.SerfHandle, serf.Serf]) []byte {
	var buf bytes.Buffer
	arena.Each(func(h entitystore.SerfHandle, s *serf.Serf) {
		putRecord(&buf, uint32(h), persistence.EncodeSerf(s))
	})
	return buf.Bytes()
}

func decodeSerfsSection(arena *entitystore.Arena[entitystore.SerfHandle, serf.Serf], data []byte) error {
	return eachRecord(data, func(handle uint32, payload []byte) error {
		s, err := persistence.DecodeSerf(payload)
		if err != nil {
			return err
		}
		return arena.Restore(entitystore.SerfHandle(handle), s)
	})
}
