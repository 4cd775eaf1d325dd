package authz

const (
	RoleScheduler = "scheduler"
	RoleManager   = "manager"
	RoleAnonymous = "anonymous"
)

const (
	ActionPreflight = "preflight"
	ActionSubmit    = "submit"
)

const (
	ObjectSchedulingPlanner = "scheduling.planner"
	ObjectSchedulingActions = "scheduling.actions"
)
