// Package merge decides which of a form's in-memory field values are
// actually written on save. Filtering by interaction state is what keeps
// one screen from re-writing fields it merely loaded and thereby clobbering
// a newer out-of-band update.
package merge

// Interactions is the view of the interaction tracker the engine needs.
type Interactions interface {
	IsUserModified(field string) bool
}

// Eligible returns the minimal field map to persist out of the full form
// state. A field is written if it is on the always-save allow-list, or if
// the user modified it this session and its current value is non-empty.
//
// Empty values are filtered unconditionally: clearing a field back to empty
// is not treated as a request to erase the stored value. Fields the session
// never touched are never written, whatever they currently hold.
//
// An empty result means the caller must skip the storage call entirely.
func Eligible(form map[string]string, interactions Interactions, alwaysSave []string) map[string]string {
	always := make(map[string]struct{}, len(alwaysSave))
	for _, f := range alwaysSave {
		always[f] = struct{}{}
	}

	eligible := make(map[string]string)
	for field, value := range form {
		if _, ok := always[field]; ok {
			eligible[field] = value
			continue
		}
		if !interactions.IsUserModified(field) {
			continue
		}
		if value == "" {
			continue
		}
		eligible[field] = value
	}
	return eligible
}
