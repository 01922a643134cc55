package transform

import (
	"fmt"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

// RemoveExclusions filters headings by the subtarget of the current target.
// Include markers keep only the listed headings (and the headings leading to
// them); exclude markers drop the listed headings.
func RemoveExclusions(root ast.Element, s *settings.Settings) (ast.Element, error) {
	if _, ok := root.(*ast.Document); ok {
		if err := CheckSubtargets(root, s); err != nil {
			return nil, err
		}
	}
	return RecurseWith(RemoveExclusions, root, s, removeExclusionsList)
}

// CheckSubtargets verifies that every heading named by a subtarget of the
// current target exists somewhere in root.
func CheckSubtargets(root ast.Element, s *settings.Settings) error {
	for _, st := range s.Runtime.Markers.Matching(s.Runtime.TargetName) {
		for _, title := range st.Parameters {
			want := settings.NormalizeName(title)
			found := ast.Contains(root, func(e ast.Element) bool {
				h, ok := e.(*ast.Heading)
				return ok && settings.NormalizeName(ast.PlainText(h.Caption)) == want
			})
			if !found {
				return &TransformationError{
					Cause:              fmt.Errorf("%w: heading %q in %q", ErrMissingHeading, title, st.Name),
					Position:           root.Pos(),
					TransformationName: "remove_exclusions",
					Tree:               &ast.Error{Position: root.Pos(), Message: "heading not found"},
				}
			}
		}
	}
	return nil
}

func removeExclusionsList(f Func[*settings.Settings], list []ast.Element, s *settings.Settings) ([]ast.Element, error) {
	st, include, ok := s.Runtime.Markers.Find(s.Runtime.TargetName)
	if !ok || len(st.Parameters) == 0 {
		return list, nil
	}

	var result []ast.Element
	for _, e := range list {
		h, isHeading := e.(*ast.Heading)
		if !isHeading {
			r, err := f(e, s)
			if err != nil {
				return nil, err
			}
			result = append(result, r)
			continue
		}

		if st.HasParameter(ast.PlainText(h.Caption)) {
			if include {
				result = append(result, h)
			}
			continue
		}

		// not listed: the outcome depends on what survives below
		r, err := f(h, s)
		if err != nil {
			return nil, err
		}
		if !include || containsHeading(r.(*ast.Heading).Content) {
			result = append(result, r)
		}
	}
	return result, nil
}

func containsHeading(list []ast.Element) bool {
	for _, e := range list {
		if ast.Contains(e, ast.IsHeading) {
			return true
		}
	}
	return false
}
