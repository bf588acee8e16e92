package command

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/sampler"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

func (e *env) sampler() *sampler.Sampler {
	return sampler.New(e.inventory, rand.New(rand.NewSource(1)))
}

func TestGenerateItemsSnapshotsExpectedValues(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusPending)
	e.inventory.AddChemical(invdomain.Chemical{
		PartNumber: "C-100",
		Quantity:   12,
		Location:   "hangar-1",
		Category:   "sealant",
	})

	created, err := NewGenerateItemsHandler(e.repo, e.sampler(), e.audit).Handle(context.Background(), GenerateItemsCommand{
		BatchID: batch.ID,
		Params:  sampler.Params{Method: domain.MethodRandom},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 item, got %d", created)
	}

	items, err := e.repo.FindItemsByBatch(context.Background(), batch.ID, "")
	if err != nil {
		t.Fatalf("FindItemsByBatch: %v", err)
	}
	item := items[0]
	if item.ExpectedQuantity != 12 || item.ExpectedLocation != "hangar-1" || item.ExpectedCategory != "sealant" {
		t.Fatalf("snapshot wrong: %+v", item)
	}
	if item.Status != domain.ItemStatusPending {
		t.Fatalf("new items must be pending, got %s", item.Status)
	}
}

func TestGenerateItemsIsIdempotentPerRecord(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusPending)
	for i := 0; i < 5; i++ {
		e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C", Quantity: 1})
	}

	handler := NewGenerateItemsHandler(e.repo, e.sampler(), e.audit)
	cmd := GenerateItemsCommand{BatchID: batch.ID, Params: sampler.Params{Method: domain.MethodRandom}}

	first, err := handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first != 5 {
		t.Fatalf("expected 5 items, got %d", first)
	}

	second, err := handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != 0 {
		t.Fatalf("re-run must skip existing records, created %d", second)
	}
}

func TestGenerateItemsRejectsClosedBatch(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusCompleted)

	_, err := NewGenerateItemsHandler(e.repo, e.sampler(), e.audit).Handle(context.Background(), GenerateItemsCommand{
		BatchID: batch.ID,
		Params:  sampler.Params{Method: domain.MethodRandom},
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestGenerateItemsPropagatesSamplerValidation(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusPending)

	_, err := NewGenerateItemsHandler(e.repo, e.sampler(), e.audit).Handle(context.Background(), GenerateItemsCommand{
		BatchID: batch.ID,
		Params:  sampler.Params{Method: "guesswork"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
