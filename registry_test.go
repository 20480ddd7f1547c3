package main

import "testing"

const opID int64 = 99

func TestRegistryConsumeWithoutStage(t *testing.T) {
	r := NewDeliveryRegistry()
	if _, ok := r.ConsumeOne(opID); ok {
		t.Fatal("ConsumeOne on empty registry returned a delivery")
	}
}

func TestRegistryStageAndConsumeBatch(t *testing.T) {
	r := NewDeliveryRegistry()
	staged := r.Stage(opID, 1001, "cap", 2)
	if staged.ID == "" {
		t.Fatal("staged delivery has no id")
	}
	if staged.Remaining != 2 {
		t.Fatalf("staged remaining = %d, want 2", staged.Remaining)
	}

	first, ok := r.ConsumeOne(opID)
	if !ok {
		t.Fatal("first ConsumeOne returned none")
	}
	if first.TargetID != 1001 || first.Caption != "cap" {
		t.Errorf("first delivery = %+v, want target 1001 caption %q", first, "cap")
	}
	if first.Remaining != 1 {
		t.Errorf("first remaining = %d, want 1", first.Remaining)
	}
	if first.ID != staged.ID {
		t.Errorf("delivery id changed between stage and consume: %s vs %s", first.ID, staged.ID)
	}

	second, ok := r.ConsumeOne(opID)
	if !ok {
		t.Fatal("second ConsumeOne returned none")
	}
	if second.TargetID != 1001 || second.Caption != "cap" {
		t.Errorf("second delivery = %+v, want target 1001 caption %q", second, "cap")
	}
	if second.Remaining != 0 {
		t.Errorf("second remaining = %d, want 0", second.Remaining)
	}

	if _, ok := r.ConsumeOne(opID); ok {
		t.Error("third ConsumeOne returned a delivery after exhaustion")
	}
}

func TestRegistryStageOverwritesEntirely(t *testing.T) {
	r := NewDeliveryRegistry()
	r.Stage(opID, 1001, "for A", 2)

	if _, ok := r.ConsumeOne(opID); !ok {
		t.Fatal("consume after first stage returned none")
	}

	// Re-staging before exhaustion discards the remainder for A.
	r.Stage(opID, 2002, "", 1)

	d, ok := r.ConsumeOne(opID)
	if !ok {
		t.Fatal("consume after re-stage returned none")
	}
	if d.TargetID != 2002 {
		t.Errorf("delivery target = %d, want 2002 (last write wins)", d.TargetID)
	}
	if d.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", d.Remaining)
	}
	if _, ok := r.ConsumeOne(opID); ok {
		t.Error("registry still holds a delivery after the replacement was exhausted")
	}
}

func TestRegistryStageClampsCount(t *testing.T) {
	r := NewDeliveryRegistry()
	staged := r.Stage(opID, 1001, "", 0)
	if staged.Remaining != 1 {
		t.Errorf("staged remaining = %d, want count clamped to 1", staged.Remaining)
	}
}

func TestRegistryIsolatedPerOperator(t *testing.T) {
	r := NewDeliveryRegistry()
	r.Stage(opID, 1001, "", 1)

	if _, ok := r.ConsumeOne(opID + 1); ok {
		t.Error("another operator consumed a delivery it never staged")
	}
	if _, ok := r.ConsumeOne(opID); !ok {
		t.Error("staging operator lost its delivery")
	}
}
