package utils

// PermissionDependencies maps each action to the full permission set it
// requires. Create implies read and update, delete implies read, update
// implies read. Read stands alone.
var PermissionDependencies = map[string][]string{
	"create": {"read", "update", "create"},
	"update": {"read", "update"},
	"delete": {"read", "delete"},
	"read":   {"read"},
}

// GetRequiredPermissions returns all permissions needed for a given action,
// including the action itself and its dependencies.
func GetRequiredPermissions(action string) []string {
	if deps, exists := PermissionDependencies[action]; exists {
		return deps
	}
	return []string{action}
}

// CheckPermissionWithDependencies checks if a permission map grants an action
// on a resource once dependencies are taken into account.
func CheckPermissionWithDependencies(userPermissions map[string]map[string]bool, resource, action string) bool {
	required := GetRequiredPermissions(action)

	for _, reqAction := range required {
		if resourcePerms, exists := userPermissions[resource]; exists {
			if hasPerm, exists := resourcePerms[reqAction]; exists && hasPerm {
				continue
			}
		}
		return false
	}

	return true
}

// BuildPermissionMap converts a list of permissions into a lookup map
// keyed by resource then action.
func BuildPermissionMap(permissions []struct {
	Resource string
	Action   string
}) map[string]map[string]bool {
	permMap := make(map[string]map[string]bool)

	for _, perm := range permissions {
		if permMap[perm.Resource] == nil {
			permMap[perm.Resource] = make(map[string]bool)
		}
		permMap[perm.Resource][perm.Action] = true
	}

	return permMap
}
