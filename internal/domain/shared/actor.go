package shared

// Ability is an action a principal may perform on a resource
type Ability string

const (
	AbilityView   Ability = "view"
	AbilityEdit   Ability = "edit"
	AbilityCreate Ability = "create"
)

// Actor is the authenticated principal of a request. It is passed explicitly
// to every application service call.
type Actor struct {
	CompanyID   uint64
	UserID      uint64
	IsAdmin     bool
	IsOwner     bool
	Permissions []string
}

// HasPermission checks for an exact permission string
func (a Actor) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Owned is implemented by company-scoped records with an owner and optional assignee
type Owned interface {
	OwnerCompanyID() uint64
	OwnerUserID() uint64
	AssigneeUserID() *uint64
}

// Can reports whether the actor holds ability on the resource class.
// Resource names are singular and lower case, e.g. "payment".
func (a Actor) Can(ability Ability, resource string) bool {
	if a.IsAdmin || a.IsOwner {
		return true
	}
	return a.HasPermission(string(ability)+"_all") ||
		a.HasPermission(string(ability)+"_"+resource)
}

// Authorize applies the per-entity policy: a record outside the actor's company
// is always denied, otherwise class-level permission, ownership or assignment
// grants access.
func Authorize(a Actor, ability Ability, resource string, entity Owned) bool {
	if entity == nil || entity.OwnerCompanyID() != a.CompanyID {
		return false
	}
	if a.Can(ability, resource) {
		return true
	}
	if entity.OwnerUserID() == a.UserID {
		return true
	}
	if assignee := entity.AssigneeUserID(); assignee != nil && *assignee == a.UserID {
		return true
	}
	return false
}
