package jwtauth

import "reflect"

// AttributeReconciler applies a claim to field mapping against a user record
// and reports whether anything actually changed. Unchanged fields are left
// alone so callers can skip the save entirely.
type AttributeReconciler struct {
	Mergeable []string
}

// NewAttributeReconciler builds a reconciler with the given mergeable
// attribute names.
func NewAttributeReconciler(mergeable []string) *AttributeReconciler {
	return &AttributeReconciler{
		Mergeable: mergeable,
	}
}

// knownFieldSetters maps the typed user fields a mapping may target.
// Anything outside this table lands in the user's attribute bag.
var knownFieldSetters = map[string]func(u *User, v any) bool{
	"email": func(u *User, v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		if u.Email == s {
			return false
		}
		u.Email = s
		return true
	},
	"is_staff": func(u *User, v any) bool {
		b, ok := v.(bool)
		if !ok {
			return false
		}
		if u.IsStaff == b {
			return false
		}
		u.IsStaff = b
		return true
	},
	"username": func(u *User, v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		if u.Username == s {
			return false
		}
		u.Username = s
		return true
	},
}

var knownFieldGetters = map[string]func(u *User) any{
	"email":    func(u *User) any { return u.Email },
	"is_staff": func(u *User) any { return u.IsStaff },
	"username": func(u *User) any { return u.Username },
}

// Reconcile copies mapped claim values onto the user. mapping keys are claim
// names, values are user field names. Claims absent from the payload are
// skipped. It returns true when at least one field changed value.
func (r *AttributeReconciler) Reconcile(user *User, payload TokenPayload, mapping map[string]string) bool {
	if user == nil || len(mapping) == 0 {
		return false
	}

	changed := false
	for claim, field := range mapping {
		value, ok := payload.Claim(claim)
		if !ok {
			continue
		}
		if r.isMergeable(field) {
			value = r.merge(r.current(user, field), value)
		}
		if r.set(user, field, value) {
			changed = true
		}
	}
	return changed
}

func (r *AttributeReconciler) isMergeable(field string) bool {
	for _, name := range r.Mergeable {
		if name == field {
			return true
		}
	}
	return false
}

// merge overlays the incoming value on top of the stored one. Only map
// values merge; anything else replaces wholesale.
func (r *AttributeReconciler) merge(old, new any) any {
	oldMap, okOld := asMap(old)
	newMap, okNew := asMap(new)
	if !okOld || !okNew {
		return new
	}
	merged := make(map[string]any, len(oldMap)+len(newMap))
	for k, v := range oldMap {
		merged[k] = v
	}
	for k, v := range newMap {
		merged[k] = v
	}
	return merged
}

func asMap(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func (r *AttributeReconciler) current(user *User, field string) any {
	if get, ok := knownFieldGetters[field]; ok {
		return get(user)
	}
	v, _ := user.GetAttribute(field)
	return v
}

func (r *AttributeReconciler) set(user *User, field string, value any) bool {
	if set, ok := knownFieldSetters[field]; ok {
		return set(user, value)
	}
	old, had := user.GetAttribute(field)
	if had && equalAttr(old, value) {
		return false
	}
	user.SetAttribute(field, value)
	return true
}

// equalAttr compares attribute values well enough to suppress no-op saves.
func equalAttr(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
