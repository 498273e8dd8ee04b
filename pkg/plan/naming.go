package plan

import (
	"fmt"
	"strings"
)

// OSName returns the flavor token used in generated resource names.
func OSName(isLinux bool) string {
	if isLinux {
		return "linux"
	}
	return "windows"
}

// UserPrefix reduces a signed-in account name to the short prefix used for
// default resource names. "user@domain.com" becomes "user"; the cloud-shell
// form "live.com#user@domain.com" also reduces to "user".
func UserPrefix(account string) string {
	user := strings.SplitN(account, "@", 2)[0]
	if i := strings.Index(user, "#"); i >= 0 {
		user = user[i+1:]
	}
	return user
}

// ResourceGroupName returns the explicit name when given, otherwise the
// deterministic default "{user}_rg_{os}_{location}".
func ResourceGroupName(explicit, user string, isLinux bool, location string) string {
	if explicit != "" {
		return explicit
	}
	return fmt.Sprintf("%s_rg_%s_%s", user, OSName(isLinux), location)
}

// PlanBaseName returns the base used for generated hosting plan names.
func PlanBaseName(user string, isLinux bool, location string) string {
	return fmt.Sprintf("%s_asp_%s_%s", user, OSName(isLinux), location)
}
