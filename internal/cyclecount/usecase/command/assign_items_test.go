package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	userdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
)

func TestAssignItemsSkipsInvalidPairs(t *testing.T) {
	e := newEnv()
	e.addUser(t, 10, userdomain.RoleUser, true)
	e.addUser(t, 11, userdomain.RoleUser, false) // inactive

	batch := e.addBatch(t, domain.BatchStatusPending)
	other := e.addBatch(t, domain.BatchStatusPending)

	ref := e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C-1", Quantity: 1})
	good := e.addItem(t, batch.ID, ref, 1, "")
	foreign := e.addItem(t, other.ID, ref, 1, "")

	result, err := NewAssignItemsHandler(e.repo, e.users, e.audit).Handle(context.Background(), AssignItemsCommand{
		BatchID: batch.ID,
		Assignments: []Assignment{
			{ItemID: good.ID, UserID: 10},
			{ItemID: foreign.ID, UserID: 10}, // wrong batch
			{ItemID: good.ID, UserID: 11},    // inactive user
			{ItemID: 999, UserID: 10},        // unknown item
		},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.Assigned != 1 || result.Skipped != 3 {
		t.Fatalf("expected 1 assigned / 3 skipped, got %+v", result)
	}

	item, err := e.repo.FindItemByID(context.Background(), good.ID)
	if err != nil {
		t.Fatalf("FindItemByID: %v", err)
	}
	if item.AssignedTo == nil || *item.AssignedTo != 10 {
		t.Fatalf("item not assigned to user 10: %+v", item)
	}
}

func TestAssignItemsGroupsNotificationsPerUser(t *testing.T) {
	e := newEnv()
	e.addUser(t, 10, userdomain.RoleUser, true)
	e.addUser(t, 20, userdomain.RoleUser, true)

	batch := e.addBatch(t, domain.BatchStatusPending)
	var assignments []Assignment
	for i := 0; i < 3; i++ {
		ref := e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C", Quantity: 1})
		item := e.addItem(t, batch.ID, ref, 1, "")
		assignments = append(assignments, Assignment{ItemID: item.ID, UserID: 10})
	}
	ref := e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C", Quantity: 1})
	item := e.addItem(t, batch.ID, ref, 1, "")
	assignments = append(assignments, Assignment{ItemID: item.ID, UserID: 20})

	_, err := NewAssignItemsHandler(e.repo, e.users, e.audit).Handle(context.Background(), AssignItemsCommand{
		BatchID:     batch.ID,
		Assignments: assignments,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	forTen := e.notificationsFor(t, 10)
	if len(forTen) != 1 {
		t.Fatalf("user 10 should get one grouped notification, got %d", len(forTen))
	}
	if forTen[0].Type != domain.NotificationBatchAssigned {
		t.Fatalf("wrong notification type: %s", forTen[0].Type)
	}
	if !strings.Contains(forTen[0].Message, "3 items") {
		t.Fatalf("message should summarize 3 items: %q", forTen[0].Message)
	}

	forTwenty := e.notificationsFor(t, 20)
	if len(forTwenty) != 1 || !strings.Contains(forTwenty[0].Message, "1 items") {
		t.Fatalf("user 20 should get one notification for 1 item, got %+v", forTwenty)
	}
}

func TestAssignItemsRejectsClosedBatch(t *testing.T) {
	e := newEnv()
	e.addUser(t, 10, userdomain.RoleUser, true)
	batch := e.addBatch(t, domain.BatchStatusCancelled)

	_, err := NewAssignItemsHandler(e.repo, e.users, e.audit).Handle(context.Background(), AssignItemsCommand{
		BatchID:     batch.ID,
		Assignments: []Assignment{{ItemID: 1, UserID: 10}},
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAssignItemsRequiresPairs(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusPending)

	_, err := NewAssignItemsHandler(e.repo, e.users, e.audit).Handle(context.Background(), AssignItemsCommand{BatchID: batch.ID})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
