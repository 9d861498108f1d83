package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sprintdeck/board-system/internal/core/domain"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

const defaultOpTimeout = 10 * time.Second

// BoardController owns the authoritative in-memory snapshot of the board:
// columns with their ordered cards, sprints, users, and the authenticated
// user. Every mutation checks permission where required, performs a single
// round trip through the remote store, then refetches the affected slice so
// the snapshot always converges on ground truth. Callers never receive
// errors; failures surface through the Err state field only, and the previous
// snapshot is kept on any failure.
type BoardController struct {
	store   ports.RemoteStore
	session ports.SessionStore
	log     zerolog.Logger
	timeout time.Duration

	mu            sync.RWMutex
	columns       []domain.Column
	sprints       []domain.Sprint
	currentSprint *domain.Sprint
	users         []domain.User
	currentUser   *domain.User
	loading       bool
	lastErr       string
}

// NewBoardController builds a controller and restores the persisted session,
// if any. A corrupt session entry is discarded and the controller starts
// logged out. opTimeout bounds every remote round trip; <= 0 selects the
// default.
func NewBoardController(store ports.RemoteStore, session ports.SessionStore, log zerolog.Logger, opTimeout time.Duration) *BoardController {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	b := &BoardController{
		store:   store,
		session: session,
		log:     log,
		timeout: opTimeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	user, err := session.LoadUser(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable session entry")
		_ = session.ClearUser(ctx)
	} else if user != nil {
		b.currentUser = user
	}
	return b
}

// opCtx applies the per-operation deadline so a hung request cannot leave the
// controller stuck in a loading state.
func (b *BoardController) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, b.timeout)
}

func (b *BoardController) fail(msg string, err error) {
	b.log.Error().Err(err).Msg(msg)
	b.mu.Lock()
	b.lastErr = msg
	b.mu.Unlock()
}

func (b *BoardController) clearErr() {
	b.mu.Lock()
	b.lastErr = ""
	b.mu.Unlock()
}

// --- Snapshot accessors -----------------------------------------------------

// Columns returns a copy of the current column snapshot in board order.
func (b *BoardController) Columns() []domain.Column {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneColumns(b.columns)
}

// Sprints returns a copy of the current sprint snapshot.
func (b *BoardController) Sprints() []domain.Sprint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Sprint, len(b.sprints))
	for i, s := range b.sprints {
		out[i] = s
		out[i].Tasks = append([]domain.Card(nil), s.Tasks...)
	}
	return out
}

// Users returns a copy of the current user snapshot.
func (b *BoardController) Users() []domain.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.User(nil), b.users...)
}

// CurrentUser returns the authenticated user, or nil when logged out.
func (b *BoardController) CurrentUser() *domain.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.currentUser == nil {
		return nil
	}
	u := *b.currentUser
	return &u
}

// CurrentSprint returns the selected sprint, or nil when none is selected.
func (b *BoardController) CurrentSprint() *domain.Sprint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.currentSprint == nil {
		return nil
	}
	s := *b.currentSprint
	s.Tasks = append([]domain.Card(nil), s.Tasks...)
	return &s
}

// SetCurrentSprint selects a sprint for the sprint-scoped views.
func (b *BoardController) SetCurrentSprint(s *domain.Sprint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s == nil {
		b.currentSprint = nil
		return
	}
	clone := *s
	clone.Tasks = append([]domain.Card(nil), s.Tasks...)
	b.currentSprint = &clone
}

// Loading reports whether a board refresh is in flight.
func (b *BoardController) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Err returns the most recent operation failure message, or "" when the last
// operation succeeded. Each failing operation overwrites it.
func (b *BoardController) Err() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// HasPermission reports whether the authenticated user may perform action.
// Logged out means no permissions at all.
func (b *BoardController) HasPermission(action string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.currentUser == nil {
		return false
	}
	return domain.HasPermission(b.currentUser.Role, action)
}

// --- Refresh ----------------------------------------------------------------

// RefreshData refetches all columns with their nested cards and replaces the
// column snapshot wholesale. On failure the previous snapshot is kept.
func (b *BoardController) RefreshData(ctx context.Context) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	b.mu.Lock()
	b.loading = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
	}()

	columns, err := b.store.FetchColumns(ctx)
	if err != nil {
		b.fail("Failed to load data from database", err)
		return
	}

	b.mu.Lock()
	b.columns = columns
	b.lastErr = ""
	b.mu.Unlock()
}

// RefreshSprints refetches the sprint list. Failure keeps the previous slice.
func (b *BoardController) RefreshSprints(ctx context.Context) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	sprints, err := b.store.FetchSprints(ctx)
	if err != nil {
		b.fail("Failed to load sprints from database", err)
		return
	}
	b.mu.Lock()
	b.sprints = sprints
	b.lastErr = ""
	b.mu.Unlock()
}

// RefreshUsers refetches the user list. Failure keeps the previous slice.
func (b *BoardController) RefreshUsers(ctx context.Context) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	users, err := b.store.FetchUsers(ctx)
	if err != nil {
		b.fail("Failed to load users from database", err)
		return
	}
	b.mu.Lock()
	b.users = users
	b.lastErr = ""
	b.mu.Unlock()
}

// --- Columns ----------------------------------------------------------------

// AddColumn creates a column at the right edge of the board: its order is one
// past the highest existing order, or 1 on an empty board.
func (b *BoardController) AddColumn(ctx context.Context, title string) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	b.mu.RLock()
	next := 1
	for _, col := range b.columns {
		if col.Order >= next {
			next = col.Order + 1
		}
	}
	b.mu.RUnlock()

	if _, err := b.store.CreateColumn(ctx, title, next); err != nil {
		b.fail("Failed to add column", err)
		return
	}
	b.RefreshData(ctx)
}

// UpdateColumn renames a column.
func (b *BoardController) UpdateColumn(ctx context.Context, id, title string) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if err := b.store.UpdateColumn(ctx, id, title); err != nil {
		b.fail("Failed to update column", err)
		return
	}
	b.RefreshData(ctx)
}

// DeleteColumn removes a column; the store cascades to its tasks.
func (b *BoardController) DeleteColumn(ctx context.Context, id string) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if err := b.store.DeleteColumn(ctx, id); err != nil {
		b.fail("Failed to delete column", err)
		return
	}
	b.RefreshData(ctx)
}

// --- Cards ------------------------------------------------------------------

// resolveAssignee fills in the assignee id from a display name when only the
// name is given. Linear scan over the user snapshot; an unknown name leaves
// the card unassigned.
func (b *BoardController) resolveAssignee(card *domain.Card) {
	if card.AssigneeID != "" || card.Assignee == "" {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, u := range b.users {
		if u.Name == card.Assignee {
			card.AssigneeID = u.ID
			return
		}
	}
}

// AddCard creates a task in the given column, optionally attached to a sprint
// and an assignee.
func (b *BoardController) AddCard(ctx context.Context, columnID string, card domain.Card) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	b.resolveAssignee(&card)
	_, err := b.store.CreateTask(ctx, ports.CreateTaskInput{
		TaskID:       card.TaskID,
		Title:        card.Title,
		Description:  card.Description,
		Priority:     card.Priority,
		StoryPoints:  card.StoryPoints,
		Progress:     card.Progress,
		TimeEstimate: card.TimeEstimate,
		Module:       card.Module,
		Target:       card.Target,
		ImageURL:     card.ImageURL,
		StartDate:    card.StartDate,
		DueDate:      card.DueDate,
		ColumnID:     columnID,
		SprintID:     card.SprintID,
		AssigneeID:   card.AssigneeID,
	})
	if err != nil {
		b.fail("Failed to add task", err)
		return
	}
	b.RefreshData(ctx)
}

// UpdateCard replaces a card's mutable fields. The full field set is
// forwarded, including module/target/image/sprint.
func (b *BoardController) UpdateCard(ctx context.Context, columnID string, card domain.Card) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	b.resolveAssignee(&card)
	update := ports.TaskUpdate{
		Title:        &card.Title,
		Description:  &card.Description,
		Priority:     &card.Priority,
		StoryPoints:  &card.StoryPoints,
		Progress:     &card.Progress,
		TimeEstimate: &card.TimeEstimate,
		Module:       &card.Module,
		Target:       &card.Target,
		ImageURL:     &card.ImageURL,
		AssigneeID:   &card.AssigneeID,
		SprintID:     &card.SprintID,
		StartDate:    &card.StartDate,
		DueDate:      &card.DueDate,
	}
	if err := b.store.UpdateTask(ctx, card.ID, update); err != nil {
		b.fail("Failed to update task", err)
		return
	}
	b.RefreshData(ctx)
}

// DeleteCard removes a task.
func (b *BoardController) DeleteCard(ctx context.Context, columnID, cardID string) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if err := b.store.DeleteTask(ctx, cardID); err != nil {
		b.fail("Failed to delete task", err)
		return
	}
	b.RefreshData(ctx)
}

// --- Sprints ----------------------------------------------------------------

// AddSprint creates a sprint. Requires the create_sprint permission.
func (b *BoardController) AddSprint(ctx context.Context, in ports.SprintInput) {
	if !b.HasPermission(domain.ActionCreateSprint) {
		b.fail("You don't have permission to create sprints", domain.ErrPermissionDenied)
		return
	}
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if _, err := b.store.CreateSprint(ctx, in); err != nil {
		b.fail("Failed to add sprint", err)
		return
	}
	b.RefreshSprints(ctx)
}

// UpdateSprint mutates a sprint. Requires the edit_sprint permission.
func (b *BoardController) UpdateSprint(ctx context.Context, id string, update ports.SprintUpdate) {
	if !b.HasPermission(domain.ActionEditSprint) {
		b.fail("You don't have permission to edit sprints", domain.ErrPermissionDenied)
		return
	}
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if err := b.store.UpdateSprint(ctx, id, update); err != nil {
		b.fail("Failed to update sprint", err)
		return
	}
	b.RefreshSprints(ctx)
}

// DeleteSprint removes a sprint. Requires the delete_sprint permission. If
// the deleted sprint was selected, the selection is cleared.
func (b *BoardController) DeleteSprint(ctx context.Context, id string) {
	if !b.HasPermission(domain.ActionDeleteSprint) {
		b.fail("You don't have permission to delete sprints", domain.ErrPermissionDenied)
		return
	}
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if err := b.store.DeleteSprint(ctx, id); err != nil {
		b.fail("Failed to delete sprint", err)
		return
	}
	b.RefreshSprints(ctx)

	b.mu.Lock()
	if b.currentSprint != nil && b.currentSprint.ID == id {
		b.currentSprint = nil
	}
	b.mu.Unlock()
}

// --- Users ------------------------------------------------------------------

// CreateUser creates an account. Requires the create_user permission.
func (b *BoardController) CreateUser(ctx context.Context, in ports.CreateUserInput) {
	if !b.HasPermission(domain.ActionCreateUser) {
		b.fail("You don't have permission to create users", domain.ErrPermissionDenied)
		return
	}
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if _, err := b.store.CreateUser(ctx, in); err != nil {
		b.fail("Failed to create user", err)
		return
	}
	b.RefreshUsers(ctx)
}

// UpdateUser mutates an account. Requires the edit_user permission.
func (b *BoardController) UpdateUser(ctx context.Context, id string, update ports.UserUpdate) {
	if !b.HasPermission(domain.ActionEditUser) {
		b.fail("You don't have permission to edit users", domain.ErrPermissionDenied)
		return
	}
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if err := b.store.UpdateUser(ctx, id, update); err != nil {
		b.fail("Failed to update user", err)
		return
	}
	b.RefreshUsers(ctx)
}

// DeleteUser removes an account. Requires the delete_user permission.
func (b *BoardController) DeleteUser(ctx context.Context, id string) {
	if !b.HasPermission(domain.ActionDeleteUser) {
		b.fail("You don't have permission to delete users", domain.ErrPermissionDenied)
		return
	}
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if err := b.store.DeleteUser(ctx, id); err != nil {
		b.fail("Failed to delete user", err)
		return
	}
	b.RefreshUsers(ctx)
}

// --- Auth -------------------------------------------------------------------

// Login authenticates against the remote store. On success the returned user
// becomes the current user and is persisted to the session store; on failure
// the previous user (if any) is kept and nil is returned.
func (b *BoardController) Login(ctx context.Context, email, password string) *domain.User {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	user, err := b.store.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			b.fail("Invalid email or password", err)
		} else {
			b.fail("Login failed. Please try again.", err)
		}
		return nil
	}

	b.mu.Lock()
	b.currentUser = user
	b.lastErr = ""
	b.mu.Unlock()

	if err := b.session.SaveUser(ctx, user); err != nil {
		b.log.Warn().Err(err).Msg("failed to persist session")
	}

	u := *user
	return &u
}

// Logout clears the current user and its durable session entry.
func (b *BoardController) Logout(ctx context.Context) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	b.mu.Lock()
	b.currentUser = nil
	b.mu.Unlock()

	if err := b.session.ClearUser(ctx); err != nil {
		b.log.Warn().Err(err).Msg("failed to clear session")
	}
}

// --- Aggregation ------------------------------------------------------------

// SprintStats summarizes the cards attached to one sprint.
type SprintStats struct {
	Total       int
	Todo        int
	InProgress  int
	Done        int
	StoryPoints int
}

// SprintStats aggregates the current column snapshot for the given sprint:
// card counts by state plus total story points. Read-only, no permission
// check.
func (b *BoardController) SprintStats(sprintID string) SprintStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var stats SprintStats
	for _, col := range b.columns {
		for _, card := range col.Cards {
			if card.SprintID != sprintID {
				continue
			}
			stats.Total++
			stats.StoryPoints += card.StoryPoints
			switch card.State() {
			case domain.CardDone:
				stats.Done++
			case domain.CardInProgress:
				stats.InProgress++
			default:
				stats.Todo++
			}
		}
	}
	return stats
}

func cloneColumns(cols []domain.Column) []domain.Column {
	out := make([]domain.Column, len(cols))
	for i, c := range cols {
		out[i] = c
		out[i].Cards = append([]domain.Card(nil), c.Cards...)
	}
	return out
}
