/*
directory.go - Org directory view and title classification

PURPOSE:
  Directory is the read-only employee lookup the authority rules evaluate
  against. It is rebuilt from the current State on demand so that a head
  resigning (or being hired) changes deputy authority on the very next
  call, with no migration step.

TITLE CLASSIFICATION:
  Job titles are free text. Whether a title denotes a department head or
  a deputy head is decided by TitleClassifier, an injected keyword-set
  strategy: case-insensitive substring matching, with the head set
  excluding any title that also matches a deputy keyword ("deputy head
  of finance" is a deputy, not a head). Organizations supply their own
  keyword sets through configuration; nothing here is hard-coded to one
  naming convention.
*/
package engine

import "strings"

// =============================================================================
// TITLE CLASSIFIER - Injectable head/deputy predicate
// =============================================================================

type TitleClassifier struct {
	headKeywords   []string
	deputyKeywords []string
}

// NewTitleClassifier builds a classifier from keyword sets. Keywords are
// matched case-insensitively as substrings of the free-text job title.
func NewTitleClassifier(headKeywords, deputyKeywords []string) TitleClassifier {
	return TitleClassifier{
		headKeywords:   lowerAll(headKeywords),
		deputyKeywords: lowerAll(deputyKeywords),
	}
}

// DefaultTitleClassifier matches common English conventions. Callers with
// other naming schemes pass their own keyword sets.
func DefaultTitleClassifier() TitleClassifier {
	return NewTitleClassifier(
		[]string{"head", "chief", "director"},
		[]string{"deputy", "vice", "assistant"},
	)
}

// IsHead reports whether the title denotes a department head.
// A title matching both sets classifies as deputy, never head.
func (c TitleClassifier) IsHead(title string) bool {
	t := strings.ToLower(title)
	return containsAny(t, c.headKeywords) && !containsAny(t, c.deputyKeywords)
}

// IsDeputy reports whether the title denotes a deputy head.
func (c TitleClassifier) IsDeputy(title string) bool {
	return containsAny(strings.ToLower(title), c.deputyKeywords)
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// =============================================================================
// DIRECTORY - Read-only employee lookup
// =============================================================================

type Directory struct {
	employees []Employee
	byID      map[string]int
}

func NewDirectory(employees []Employee) *Directory {
	d := &Directory{
		employees: employees,
		byID:      make(map[string]int, len(employees)),
	}
	for i, emp := range employees {
		d.byID[emp.ID] = i
	}
	return d
}

// Find returns the employee with the given ID, if present.
func (d *Directory) Find(id string) (Employee, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Employee{}, false
	}
	return d.employees[i], true
}

// Department returns all employees of a department.
func (d *Directory) Department(name string) []Employee {
	var out []Employee
	for _, emp := range d.employees {
		if emp.Department == name {
			out = append(out, emp)
		}
	}
	return out
}

// HasHead reports whether any current employee of the department
// classifies as its head. Evaluated live, never cached.
func (d *Directory) HasHead(department string, classifier TitleClassifier) bool {
	for _, emp := range d.employees {
		if emp.Department == department && classifier.IsHead(emp.JobTitle) {
			return true
		}
	}
	return false
}
