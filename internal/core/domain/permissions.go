package domain

// Action names checked before board mutations. The same table gates UI
// affordances and controller-level enforcement.
const (
	ActionCreateTask   = "create_task"
	ActionEditTask     = "edit_task"
	ActionDeleteTask   = "delete_task"
	ActionMoveTask     = "move_task"
	ActionCreateSprint = "create_sprint"
	ActionEditSprint   = "edit_sprint"
	ActionDeleteSprint = "delete_sprint"
	ActionCreateUser   = "create_user"
	ActionEditUser     = "edit_user"
	ActionDeleteUser   = "delete_user"
	ActionViewTimeline = "view_timeline"
	ActionViewReports  = "view_reports"
)

var rolePermissions = map[string]map[string]struct{}{
	RoleAdmin: permSet(
		ActionCreateTask, ActionEditTask, ActionDeleteTask, ActionMoveTask,
		ActionCreateSprint, ActionEditSprint, ActionDeleteSprint,
		ActionCreateUser, ActionEditUser, ActionDeleteUser,
		ActionViewTimeline, ActionViewReports,
	),
	RoleDeveloper: permSet(ActionCreateTask, ActionEditTask, ActionMoveTask, ActionViewTimeline),
	RoleTester:    permSet(ActionEditTask, ActionMoveTask, ActionViewTimeline),
}

func permSet(actions ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// HasPermission reports whether role may perform action. Unknown roles have
// an empty permission set, so every check for them is false.
func HasPermission(role, action string) bool {
	_, ok := rolePermissions[role][action]
	return ok
}
