/*
authority.go - Who may approve, reject, or delete a leave request

PURPOSE:
  Pure predicate over the current directory state. Evaluated per
  (actor, request) pair at render and action time; a false result hides
  the action, it is never an error.

RULES (strict order, first match wins):
  1. Requests longer than 3 days: top authority only.
  2. A department head's own leave: top authority only (escalated).
  3. Same department, different person:
     a. acting head            -> allowed
     b. acting deputy          -> allowed only while the department has
                                  no head (deputy inherits in absence)
     c. anyone else            -> fall through
  4. Top authority             -> allowed. Everyone else: denied.

  Self-action can never pass rule 3 (it requires actor != requester);
  a top authority self-approving through rule 4 is the intended
  top-level override.
*/
package engine

import "github.com/shopspring/decimal"

// escalationThreshold: above this many days only top authority may act.
var escalationThreshold = decimal.NewFromInt(3)

// Authority decides whether an actor may act on a leave request.
type Authority struct {
	Classifier TitleClassifier
}

// CanAct reports whether actor may approve/reject/delete req, submitted by
// requester. dir must reflect the live directory: head existence for the
// deputy rule is recomputed here on every call.
func (a Authority) CanAct(actor Employee, req LeaveRequest, requester Employee, dir *Directory) bool {
	// Rule 1: long leave is escalated regardless of any other relation.
	if req.DayCount.GreaterThan(escalationThreshold) {
		return actor.Role == RoleTopAuthority
	}

	// Rule 2: a head's own leave is escalated.
	if a.Classifier.IsHead(requester.JobTitle) {
		return actor.Role == RoleTopAuthority
	}

	// Rule 3: intra-department head/deputy authority. Never self.
	if actor.Department == requester.Department && actor.ID != requester.ID {
		if a.Classifier.IsHead(actor.JobTitle) {
			return true
		}
		if a.Classifier.IsDeputy(actor.JobTitle) {
			// Deputy acts only while the department has no head.
			return !dir.HasHead(requester.Department, a.Classifier)
		}
	}

	// Rule 4: top authority fallback.
	return actor.Role == RoleTopAuthority
}

// CanEditCell reports whether actor may place manual attendance overrides
// for target: top authority anywhere, or a head within their own department.
func (a Authority) CanEditCell(actor, target Employee) bool {
	if actor.Role == RoleTopAuthority {
		return true
	}
	return actor.Department == target.Department && a.Classifier.IsHead(actor.JobTitle)
}
