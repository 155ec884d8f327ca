package persistence

import (
	"testing"

	"holdground/building"
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
	"holdground/roadgraph"
	"holdground/serf"
)

func TestEncodeDecodeTileRoundTrips(t *testing.T) {
	tile := hexmap.Tile{
		Height:      17,
		TerrainUp:   9,
		TerrainDown: 3,
		Object:      hexmap.ObjLargeBuilding,
		ObjectIndex: 42,
		Paths:       0b101010,
		HasOwner:    true,
		Owner:       2,
		DeepWater:   false,
		IdleSerf:    true,
		Deposit:     hexmap.DepositGold,
		DepositAmt:  7,
	}
	got, err := DecodeTile(EncodeTile(&tile))
	if err != nil {
		t.Fatalf("DecodeTile: %v", err)
	}
	if got != tile {
		t.Fatalf("tile round trip mismatch: got %+v, want %+v", got, tile)
	}
}

func TestEncodeDecodeFlagRoundTripsCoreFields(t *testing.T) {
	f := roadgraph.Flag{
		Pos:                 hexmap.Pos(123),
		PathCon:             0b000111,
		TransporterAssigned: 0b000011,
		BldRequest:          0b000001,
	}
	f.Endpoints[0] = roadgraph.Endpoint{Kind: roadgraph.EndpointBuilding, Building: entitystore.BuildingHandle(5)}
	f.Slots[0].Fill(inventory.ResPlank)
	f.MarkResourceWaiting()

	got, err := DecodeFlag(EncodeFlag(&f))
	if err != nil {
		t.Fatalf("DecodeFlag: %v", err)
	}
	if got.Pos != f.Pos || got.PathCon != f.PathCon || got.TransporterAssigned != f.TransporterAssigned {
		t.Fatalf("flag scalar mismatch: got %+v", got)
	}
	if got.Endpoints[0] != f.Endpoints[0] {
		t.Fatalf("endpoint mismatch: got %+v want %+v", got.Endpoints[0], f.Endpoints[0])
	}
	if !got.Slots[0].Occupied || got.Slots[0].Kind != inventory.ResPlank {
		t.Fatalf("slot 0 mismatch: got %+v", got.Slots[0])
	}
	if !got.ResourcesWaiting() {
		t.Fatalf("expected ResourcesWaiting to survive the round trip")
	}
}

func TestEncodeDecodeBuildingRoundTripsGarrisonAndFlags(t *testing.T) {
	b := building.Building{
		Pos:        hexmap.Pos(7),
		Type:       building.TypeHut,
		Player:     2,
		Unfinished: false,
	}
	b.AddKnight(entitystore.SerfHandle(9))
	b.AddKnight(entitystore.SerfHandle(11))
	b.SetNeedsKnight(true)
	b.SetSerfRequested(true)

	got, err := DecodeBuilding(EncodeBuilding(&b))
	if err != nil {
		t.Fatalf("DecodeBuilding: %v", err)
	}
	if got.Pos != b.Pos || got.Type != b.Type || got.Player != b.Player {
		t.Fatalf("building scalar mismatch: got %+v", got)
	}
	if !got.NeedsKnight() || !got.RequestsSerf() {
		t.Fatalf("expected needKnight/serfRequested to survive the round trip")
	}
	if len(got.Garrison()) != 2 || got.Garrison()[0] != entitystore.SerfHandle(9) || got.Garrison()[1] != entitystore.SerfHandle(11) {
		t.Fatalf("garrison mismatch: got %v", got.Garrison())
	}
}

func TestEncodeDecodeInventoryRoundTrips(t *testing.T) {
	var inv inventory.Inventory
	inv.Player = 3
	inv.AddResource(inventory.ResPlank, 5)
	inv.OutQueue[0] = inventory.OutEntry{Valid: true, Res: inventory.ResStone, Dest: entitystore.FlagHandle(4)}

	got, err := DecodeInventory(EncodeInventory(&inv))
	if err != nil {
		t.Fatalf("DecodeInventory: %v", err)
	}
	if got.Player != inv.Player || got.Resources[inventory.ResPlank] != 5 {
		t.Fatalf("inventory scalar mismatch: got %+v", got)
	}
	if got.OutQueue[0] != inv.OutQueue[0] {
		t.Fatalf("out queue mismatch: got %+v want %+v", got.OutQueue[0], inv.OutQueue[0])
	}
}

func TestEncodeDecodeSerfRoundTripsStateAndPayload(t *testing.T) {
	s := serf.NewIdle(serf.KindKnight2, 1, hexmap.Pos(55))
	s.State = serf.StateKnightAttacking
	s.Payload.Combat.DefenderHandle = entitystore.SerfHandle(8)
	s.Payload.Combat.Rounds = 3
	s.Payload.Combat.AttackerWon = true

	got, err := DecodeSerf(EncodeSerf(s))
	if err != nil {
		t.Fatalf("DecodeSerf: %v", err)
	}
	if got.Type != s.Type || got.Owner != s.Owner || got.Pos != s.Pos || got.State != s.State {
		t.Fatalf("serf scalar mismatch: got %+v", got)
	}
	if got.Payload.Combat != s.Payload.Combat {
		t.Fatalf("combat payload mismatch: got %+v want %+v", got.Payload.Combat, s.Payload.Combat)
	}
}
