package roles

import (
	"strings"

	"dococlock-service/internal/pkg/constvars"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// rbacModel matches a role against a method pattern and a keyMatch2 path. Paths in the
// policy start with /* so they hold for any endpoint prefix and version.
const rbacModel = `
[request_definition]
r = sub, act, obj

[policy_definition]
p = sub, act, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && regexMatch(r.act, p.act) && keyMatch2(r.obj, p.obj)
`

const (
	anyMethod  = "^(GET|POST|PUT|DELETE)$"
	readMethod = "^GET$"
)

// defaultPolicy: every signed-in role may use the offline queue, the network endpoints
// and its own two-factor settings. Refunds are for providers; admins inherit everything.
var defaultPolicy = [][]string{
	{constvars.DocOClockRolePatient, "^POST$", "/*/payments"},
	{constvars.DocOClockRolePatient, readMethod, "/*/payments/:payment_id"},
	{constvars.DocOClockRolePatient, "^POST$", "/*/payments/:payment_id/capture"},
	{constvars.DocOClockRolePatient, readMethod, "/*/payments/:payment_id/receipt"},

	{constvars.DocOClockRoleProvider, readMethod, "/*/payments/:payment_id"},
	{constvars.DocOClockRoleProvider, "^POST$", "/*/payments/:payment_id/capture"},
	{constvars.DocOClockRoleProvider, "^POST$", "/*/payments/:payment_id/refund"},
	{constvars.DocOClockRoleProvider, readMethod, "/*/payments/:payment_id/receipt"},

	{constvars.DocOClockRoleInstitution, readMethod, "/*/payments/:payment_id"},
	{constvars.DocOClockRoleInstitution, readMethod, "/*/payments/:payment_id/receipt"},
}

var sharedPaths = []string{"/*/offline/*", "/*/network/*", "/*/auth/2fa/*"}

var defaultGrouping = [][]string{
	{constvars.DocOClockRoleAdmin, constvars.DocOClockRolePatient},
	{constvars.DocOClockRoleAdmin, constvars.DocOClockRoleProvider},
	{constvars.DocOClockRoleAdmin, constvars.DocOClockRoleInstitution},
}

// NewEnforcer builds the in-memory enforcer used by the Authorize middleware.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policy := append([][]string{}, defaultPolicy...)
	for _, role := range []string{constvars.DocOClockRolePatient, constvars.DocOClockRoleProvider, constvars.DocOClockRoleInstitution} {
		for _, path := range sharedPaths {
			policy = append(policy, []string{role, anyMethod, path})
		}
	}

	if _, err := enforcer.AddPolicies(policy); err != nil {
		return nil, err
	}
	if _, err := enforcer.AddGroupingPolicies(defaultGrouping); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// Allowed reports whether any of roles may call method on path. A trailing slash is
// ignored.
func Allowed(e *casbin.Enforcer, roles []string, method, path string) bool {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, role := range roles {
		ok, err := e.Enforce(role, method, path)
		if err == nil && ok {
			return true
		}
	}
	return false
}
