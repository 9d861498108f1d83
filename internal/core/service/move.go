package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sprintdeck/board-system/internal/core/domain"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

// MoveCard reconciles a drag-and-drop move. Requires the move_task
// permission; the check short-circuits before any store call.
//
// Cross-column moves append the card to the end of the destination column
// with a single partial update. Same-column moves with a target position
// splice the card into the sorted sequence and renumber the whole column to a
// dense 0-based ordering, dispatching one partial update per card
// concurrently and joining on all of them. A same-column move without a
// target position is a no-op.
//
// A full board refresh always follows the store calls, so any partially
// applied reorder is overwritten by ground truth.
func (b *BoardController) MoveCard(ctx context.Context, cardID, fromColumnID, toColumnID string, newPosition *int) {
	if !b.HasPermission(domain.ActionMoveTask) {
		b.fail("You don't have permission to move tasks", domain.ErrPermissionDenied)
		return
	}

	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	var err error
	switch {
	case fromColumnID != toColumnID:
		err = b.transferCard(ctx, cardID, toColumnID)
	case newPosition != nil:
		err = b.repositionCard(ctx, cardID, toColumnID, *newPosition)
	default:
		return
	}
	// RefreshData clears the error state when the fetch succeeds, so the
	// move failure must be recorded after it.
	b.RefreshData(ctx)
	if err != nil {
		b.fail("Failed to move task", err)
	}
}

// transferCard moves a card into another column, appending it after the
// column's current cards.
func (b *BoardController) transferCard(ctx context.Context, cardID, toColumnID string) error {
	b.mu.RLock()
	dest := -1
	for _, col := range b.columns {
		if col.ID == toColumnID {
			dest = len(col.Cards)
			break
		}
	}
	b.mu.RUnlock()
	if dest < 0 {
		return fmt.Errorf("move card %s: %w", cardID, domain.ErrColumnNotFound)
	}

	return b.store.PatchTask(ctx, cardID, ports.TaskUpdate{
		ColumnID: &toColumnID,
		Order:    &dest,
	})
}

// repositionCard reorders a card inside its own column. The column's cards
// are sorted by order (missing order counts as 0, ties keep array order), the
// card is spliced in at the clamped target position, and every card is
// renumbered 0..n-1 with one concurrent partial update each.
func (b *BoardController) repositionCard(ctx context.Context, cardID, columnID string, position int) error {
	b.mu.RLock()
	var cards []domain.Card
	found := false
	for _, col := range b.columns {
		if col.ID == columnID {
			cards = append([]domain.Card(nil), col.Cards...)
			found = true
			break
		}
	}
	b.mu.RUnlock()
	if !found {
		return fmt.Errorf("reposition card %s: %w", cardID, domain.ErrColumnNotFound)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].OrderValue() < cards[j].OrderValue()
	})

	idx := -1
	for i, c := range cards {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("reposition card %s: %w", cardID, domain.ErrTaskNotFound)
	}

	moved := cards[idx]
	cards = append(cards[:idx], cards[idx+1:]...)

	if position < 0 {
		position = 0
	}
	if position > len(cards) {
		position = len(cards)
	}
	cards = append(cards[:position], append([]domain.Card{moved}, cards[position:]...)...)

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range cards {
		order, id := i, c.ID
		g.Go(func() error {
			return b.store.PatchTask(ctx, id, ports.TaskUpdate{Order: &order})
		})
	}
	return g.Wait()
}
