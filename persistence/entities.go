package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"holdground/building"
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
	"holdground/roadgraph"
	"holdground/serf"
)

// This file's Encode*/Decode* pairs are a deliberately simplified save
// format: a packed-but-honest record per live entity, not a byte-for-byte
// match of the legacy *RecordSize constants in sections.go (those came from
// original_source/src/*.h's C struct layouts, which pack fields this Go
// port keeps as richer named types). Every record drops only state that
// the owning package already recomputes or treats as pure scratch (a
// flag's SearchNum/SearchDir generation stamps and its
// TransporterRequested retry bit) — anything that changes simulated
// behavior is kept.

// EncodeTile packs one hex tile: height, terrain nibbles, object kind and
// index, path mask, owner, water/idle-serf flags, and ground deposit.
func EncodeTile(t *hexmap.Tile) []byte {
	var buf bytes.Buffer
	buf.WriteByte(t.Height)
	buf.WriteByte(t.TerrainUp<<4 | (t.TerrainDown & 0xf))
	buf.WriteByte(uint8(t.Object))
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], t.ObjectIndex)
	buf.Write(idx[:])
	buf.WriteByte(t.Paths)

	var flags uint8
	if t.HasOwner {
		flags |= 1 << 0
	}
	flags |= (t.Owner & 0x3) << 1
	if t.DeepWater {
		flags |= 1 << 3
	}
	if t.IdleSerf {
		flags |= 1 << 4
	}
	buf.WriteByte(flags)
	buf.WriteByte(uint8(t.Deposit))
	buf.WriteByte(t.DepositAmt)
	return buf.Bytes()
}

// DecodeTile reverses EncodeTile.
func DecodeTile(data []byte) (hexmap.Tile, error) {
	var t hexmap.Tile
	if len(data) < 11 {
		return t, fmt.Errorf("%w: tile record", ErrTruncatedSection)
	}
	t.Height = data[0]
	t.TerrainUp = data[1] >> 4
	t.TerrainDown = data[1] & 0xf
	t.Object = hexmap.Object(data[2])
	t.ObjectIndex = binary.LittleEndian.Uint32(data[3:7])
	t.Paths = data[7]
	flags := data[8]
	t.HasOwner = flags&(1<<0) != 0
	t.Owner = (flags >> 1) & 0x3
	t.DeepWater = flags&(1<<3) != 0
	t.IdleSerf = flags&(1<<4) != 0
	t.Deposit = hexmap.DepositKind(data[9])
	t.DepositAmt = data[10]
	return t, nil
}

// EncodeFlag packs a road-network node: position, path/transporter-
// assigned bitmasks, its six endpoints, resource slots, and the fetch-
// direction table. TransporterRequested and the SearchNum/SearchDir scan
// generation are scratch the scheduler re-derives within a tick and are
// not persisted.
func EncodeFlag(f *roadgraph.Flag) []byte {
	var buf bytes.Buffer
	writeU32(&buf, uint32(f.Pos))
	buf.WriteByte(f.PathCon)
	buf.WriteByte(f.TransporterAssigned)

	for _, ep := range f.Endpoints {
		buf.WriteByte(uint8(ep.Kind))
		writeU32(&buf, uint32(ep.Flag))
		writeU32(&buf, uint32(ep.Building))
	}
	for _, l := range f.Length {
		buf.WriteByte(uint8(l))
	}
	for _, n := range f.TileLen {
		writeU32(&buf, uint32(n))
	}
	for _, d := range f.OtherEndDir {
		buf.WriteByte(uint8(d))
	}
	for _, slot := range f.Slots {
		var b uint8
		if slot.Occupied {
			b = 1
		}
		buf.WriteByte(b)
		buf.WriteByte(uint8(slot.Kind))
		writeU32(&buf, uint32(slot.Dest))
		buf.WriteByte(uint8(slot.ScheduledDir))
	}
	for _, p := range f.NextPickup {
		buf.WriteByte(p)
	}
	var water uint8
	for dir := 0; dir < 6; dir++ {
		if f.IsWaterSegment(hexmap.Direction(dir)) {
			water |= 1 << uint(dir)
		}
	}
	buf.WriteByte(water)
	buf.WriteByte(f.BldRequest)
	if f.ResourcesWaiting() {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// DecodeFlag reverses EncodeFlag. Scratch fields the encoder dropped
// (TransporterRequested, SearchNum/SearchDir) are left zero; the next
// scheduler pass re-derives them.
func DecodeFlag(data []byte) (roadgraph.Flag, error) {
	var f roadgraph.Flag
	r := &reader{data: data}
	f.Pos = hexmap.Pos(r.u32())
	f.PathCon = r.u8()
	f.TransporterAssigned = r.u8()

	for i := range f.Endpoints {
		f.Endpoints[i].Kind = roadgraph.EndpointKind(r.u8())
		f.Endpoints[i].Flag = entitystore.FlagHandle(r.u32())
		f.Endpoints[i].Building = entitystore.BuildingHandle(r.u32())
	}
	for i := range f.Length {
		f.Length[i] = roadgraph.RoadLengthCategory(r.u8())
	}
	for i := range f.TileLen {
		f.TileLen[i] = int(r.u32())
	}
	for i := range f.OtherEndDir {
		f.OtherEndDir[i] = hexmap.Direction(r.u8())
	}
	for i := range f.Slots {
		f.Slots[i].Occupied = r.u8() != 0
		f.Slots[i].Kind = inventory.Resource(r.u8())
		f.Slots[i].Dest = entitystore.FlagHandle(r.u32())
		f.Slots[i].ScheduledDir = int8(r.u8())
	}
	for i := range f.NextPickup {
		f.NextPickup[i] = r.u8()
	}
	water := r.u8()
	for dir := 0; dir < 6; dir++ {
		f.SetWaterSegment(hexmap.Direction(dir), water&(1<<uint(dir)) != 0)
	}
	f.BldRequest = r.u8()
	if r.u8() != 0 {
		f.MarkResourceWaiting()
	} else {
		f.ClearResourcesWaiting()
	}
	return f, r.err
}

// EncodeBuilding packs a building's position, type, stock, construction
// progress, production state, and garrison list. serfRequested and
// needKnight round-trip through their existing getters/setters since
// both are unexported.
func EncodeBuilding(b *building.Building) []byte {
	var buf bytes.Buffer
	writeU32(&buf, uint32(b.Pos))
	buf.WriteByte(uint8(b.Type))
	buf.WriteByte(b.Player)
	writeU32(&buf, uint32(b.Flag))
	buf.WriteByte(b.Stock1.Packed())
	buf.WriteByte(b.Stock2.Packed())
	writeU16(&buf, b.Progress)
	writeBool(&buf, b.Burning)
	writeU16(&buf, b.BurnTick)
	writeBool(&buf, b.SerfPresent)
	writeBool(&buf, b.Unfinished)

	buf.WriteByte(uint8(b.Payload.Kind))
	buf.WriteByte(b.Payload.PlanksNeeded)
	buf.WriteByte(b.Payload.StoneNeeded)
	buf.WriteByte(b.Payload.Level)
	writeU32(&buf, uint32(b.Payload.Inventory))
	writeU32(&buf, uint32(b.Payload.Flag))

	writeU16(&buf, uint16(b.Production.RuleIndex))
	writeU16(&buf, b.Production.Progress)

	writeU32(&buf, uint32(b.Serf))
	writeBool(&buf, b.RequestsSerf())
	writeBool(&buf, b.NeedsKnight())

	garrison := b.Garrison()
	writeU16(&buf, uint16(len(garrison)))
	for _, h := range garrison {
		writeU32(&buf, uint32(h))
	}
	return buf.Bytes()
}

// DecodeBuilding reverses EncodeBuilding.
func DecodeBuilding(data []byte) (building.Building, error) {
	var b building.Building
	r := &reader{data: data}
	b.Pos = hexmap.Pos(r.u32())
	b.Type = building.Type(r.u8())
	b.Player = r.u8()
	b.Flag = entitystore.FlagHandle(r.u32())
	b.Stock1.Unpack(r.u8())
	b.Stock2.Unpack(r.u8())
	b.Progress = r.u16()
	b.Burning = r.bool()
	b.BurnTick = r.u16()
	b.SerfPresent = r.bool()
	b.Unfinished = r.bool()

	b.Payload.Kind = building.PayloadKind(r.u8())
	b.Payload.PlanksNeeded = r.u8()
	b.Payload.StoneNeeded = r.u8()
	b.Payload.Level = r.u8()
	b.Payload.Inventory = entitystore.InventoryHandle(r.u32())
	b.Payload.Flag = entitystore.FlagHandle(r.u32())

	b.Production.RuleIndex = int(r.u16())
	b.Production.Progress = r.u16()

	b.Serf = entitystore.SerfHandle(r.u32())
	b.SetSerfRequested(r.bool())
	b.SetNeedsKnight(r.bool())

	n := r.u16()
	for i := uint16(0); i < n; i++ {
		b.AddKnight(entitystore.SerfHandle(r.u32()))
	}
	return b, r.err
}

// EncodeInventory packs a castle/stock's resource and serf counts, out
// queue, and traffic-mode settings.
func EncodeInventory(inv *inventory.Inventory) []byte {
	var buf bytes.Buffer
	buf.WriteByte(inv.Player)
	writeU32(&buf, uint32(inv.Flag))
	writeU32(&buf, uint32(inv.Building))
	for _, v := range inv.Resources {
		writeU16(&buf, v)
	}
	for _, v := range inv.Serfs {
		writeU16(&buf, v)
	}
	for _, e := range inv.OutQueue {
		writeBool(&buf, e.Valid)
		buf.WriteByte(uint8(e.Res))
		writeU32(&buf, uint32(e.Dest))
	}
	writeU16(&buf, inv.SpawnPriority)
	buf.WriteByte(uint8(inv.ResourceMode))
	buf.WriteByte(uint8(inv.SerfMode))
	return buf.Bytes()
}

// DecodeInventory reverses EncodeInventory.
func DecodeInventory(data []byte) (inventory.Inventory, error) {
	var inv inventory.Inventory
	r := &reader{data: data}
	inv.Player = r.u8()
	inv.Flag = entitystore.FlagHandle(r.u32())
	inv.Building = entitystore.BuildingHandle(r.u32())
	for i := range inv.Resources {
		inv.Resources[i] = r.u16()
	}
	for i := range inv.Serfs {
		inv.Serfs[i] = r.u16()
	}
	for i := range inv.OutQueue {
		inv.OutQueue[i].Valid = r.bool()
		inv.OutQueue[i].Res = inventory.Resource(r.u8())
		inv.OutQueue[i].Dest = entitystore.FlagHandle(r.u32())
	}
	inv.SpawnPriority = r.u16()
	inv.ResourceMode = inventory.TrafficMode(r.u8())
	inv.SerfMode = inventory.TrafficMode(r.u8())
	return inv, r.err
}

// EncodeSerf packs a serf's core fields plus every named group of its
// payload union. Unlike the original per-state field reuse, the save
// format writes every group unconditionally (they're all small, fixed
// width) rather than branching on State, so restore never has to guess
// which group was live.
func EncodeSerf(s *serf.Serf) []byte {
	var buf bytes.Buffer
	buf.WriteByte(uint8(s.Type))
	buf.WriteByte(s.Owner)
	writeU16(&buf, s.Anim)
	writeI32(&buf, s.Counter)
	writeU32(&buf, uint32(s.Pos))
	writeU32(&buf, s.Tick)
	writeU16(&buf, uint16(s.State))

	p := &s.Payload
	writeU32(&buf, uint32(p.Walking.DestFlag))
	buf.WriteByte(uint8(p.Walking.Res))
	buf.WriteByte(uint8(p.Walking.Dir))
	buf.WriteByte(uint8(p.Walking.DirFF))

	buf.WriteByte(uint8(p.Ramp.FieldB))
	writeU16(&buf, p.Ramp.SlopeLen)
	writeU16(&buf, uint16(p.Ramp.NextState))

	writeU32(&buf, uint32(p.Construction.Building))
	buf.WriteByte(p.Construction.Substate)
	buf.WriteByte(p.Construction.MaterialStep)

	buf.WriteByte(uint8(p.MoveResource.Res))
	writeU32(&buf, uint32(p.MoveResource.ResDest))
	writeU16(&buf, uint16(p.MoveResource.NextState))

	buf.WriteByte(uint8(p.FreeWalking.DistCol))
	buf.WriteByte(uint8(p.FreeWalking.DistRow))
	buf.WriteByte(uint8(p.FreeWalking.Neg1))
	buf.WriteByte(uint8(p.FreeWalking.Neg2))
	buf.WriteByte(p.FreeWalking.Flags)

	buf.WriteByte(p.Mining.Substate)
	writeU32(&buf, uint32(p.Mining.Pos))
	buf.WriteByte(uint8(p.Mining.Deposit))

	writeU32(&buf, uint32(p.Production.Building))
	writeU16(&buf, p.Production.Counter)

	writeU32(&buf, uint32(p.Combat.DefenderHandle))
	buf.WriteByte(p.Combat.FieldB)
	buf.WriteByte(p.Combat.Rounds)
	writeBool(&buf, p.Combat.AttackerWon)
	writeU32(&buf, uint32(p.Combat.TargetBuilding))

	buf.WriteByte(uint8(p.Lost.FieldB))

	writeU32(&buf, uint32(p.IdlePath.Flag))
	buf.WriteByte(uint8(p.IdlePath.Dir))
	return buf.Bytes()
}

// DecodeSerf reverses EncodeSerf.
func DecodeSerf(data []byte) (serf.Serf, error) {
	var s serf.Serf
	r := &reader{data: data}
	s.Type = serf.Type(r.u8())
	s.Owner = r.u8()
	s.Anim = r.u16()
	s.Counter = r.i32()
	s.Pos = hexmap.Pos(r.u32())
	s.Tick = r.u32()
	s.State = serf.State(r.u16())

	p := &s.Payload
	p.Walking.DestFlag = entitystore.FlagHandle(r.u32())
	p.Walking.Res = int8(r.u8())
	p.Walking.Dir = hexmap.Direction(r.u8())
	p.Walking.DirFF = hexmap.Direction(r.u8())

	p.Ramp.FieldB = int8(r.u8())
	p.Ramp.SlopeLen = r.u16()
	p.Ramp.NextState = serf.State(r.u16())

	p.Construction.Building = entitystore.BuildingHandle(r.u32())
	p.Construction.Substate = r.u8()
	p.Construction.MaterialStep = r.u8()

	p.MoveResource.Res = inventory.Resource(int8(r.u8()))
	p.MoveResource.ResDest = entitystore.FlagHandle(r.u32())
	p.MoveResource.NextState = serf.State(r.u16())

	p.FreeWalking.DistCol = int8(r.u8())
	p.FreeWalking.DistRow = int8(r.u8())
	p.FreeWalking.Neg1 = int8(r.u8())
	p.FreeWalking.Neg2 = int8(r.u8())
	p.FreeWalking.Flags = r.u8()

	p.Mining.Substate = r.u8()
	p.Mining.Pos = hexmap.Pos(r.u32())
	p.Mining.Deposit = hexmap.DepositKind(r.u8())

	p.Production.Building = entitystore.BuildingHandle(r.u32())
	p.Production.Counter = r.u16()

	p.Combat.DefenderHandle = entitystore.SerfHandle(r.u32())
	p.Combat.FieldB = r.u8()
	p.Combat.Rounds = r.u8()
	p.Combat.AttackerWon = r.bool()
	p.Combat.TargetBuilding = entitystore.BuildingHandle(r.u32())

	p.Lost.FieldB = int8(r.u8())

	p.IdlePath.Flag = entitystore.FlagHandle(r.u32())
	p.IdlePath.Dir = hexmap.Direction(r.u8())
	return s, r.err
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeI32(buf *bytes.Buffer, v int32) { writeU32(buf, uint32(v)) }

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

// reader walks data sequentially, latching ErrTruncatedSection the first
// time a read runs past the end so callers can check err once at the end
// instead of after every field.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) {
		r.err = ErrTruncatedSection
		return false
	}
	return true
}

func (r *reader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *reader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) bool() bool { return r.u8() != 0 }
