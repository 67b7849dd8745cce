package storage

import (
	"log/slog"
	"reflect"
)

// objectMarker tags an envelope leaf as a registered-type object. The value
// is part of the persisted format and must not change across versions.
const objectMarker = "_OBJ_STORE__OBJ_"

const (
	metaKey  = ".meta"
	typeKey  = ".type"
	valueKey = ".value"
)

// ToStorage converts a domain value into a plain serializable form, usually
// a map of JSON-native values.
type ToStorage func(any) any

// FromStorage rebuilds a domain value from the output of its ToStorage.
type FromStorage func(any) any

type typeReg struct {
	name string
	rt   reflect.Type
	to   ToStorage
	from FromStorage
}

func (r typeReg) matches(value any) bool {
	if value == nil {
		return false
	}
	t := reflect.TypeOf(value)
	if r.rt.Kind() == reflect.Interface {
		return t.Implements(r.rt)
	}
	return t == r.rt
}

// ObjectStore is a Store that knows about the types of the objects in it.
// Registered domain values are wrapped in a tagged envelope on Set and
// rebuilt on Get, with the discriminant written alongside the payload.
type ObjectStore struct {
	*Store
	types []typeReg
}

// NewObjectStore opens an object store backed by path.
func NewObjectStore(path string, logger *slog.Logger) (*ObjectStore, error) {
	store, err := NewStore(path, logger)
	if err != nil {
		return nil, err
	}
	return &ObjectStore{Store: store}, nil
}

// Register associates type T with a discriminant name and a pair of
// conversion functions. Matching on Set is evaluated in registration order
// and the first matching registration wins, so overlapping registrations
// (a type and an interface it implements, for instance) should be avoided.
// Registering an already-used name replaces that registration in place.
func Register[T any](s *ObjectStore, name string, to func(T) map[string]any, from func(map[string]any) T) {
	reg := typeReg{
		name: name,
		rt:   reflect.TypeOf((*T)(nil)).Elem(),
		to: func(v any) any {
			return to(v.(T))
		},
		from: func(raw any) any {
			m, _ := raw.(map[string]any)
			return from(m)
		},
	}
	for i := range s.types {
		if s.types[i].name == name {
			s.types[i] = reg
			return
		}
	}
	s.types = append(s.types, reg)
}

// Unregister removes the registration with the given name. No-op if absent.
func (s *ObjectStore) Unregister(name string) {
	for i := range s.types {
		if s.types[i].name == name {
			s.types = append(s.types[:i], s.types[i+1:]...)
			return
		}
	}
}

// Set stores value at path. If value's runtime type matches a registered
// type it is wrapped in the envelope first; otherwise it is stored as-is.
func (s *ObjectStore) Set(path string, value any) error {
	for _, reg := range s.types {
		if reg.matches(value) {
			value = map[string]any{
				metaKey:  objectMarker,
				typeKey:  reg.name,
				valueKey: reg.to(value),
			}
			break
		}
	}
	return s.Store.Set(path, value)
}

// Get returns the value at path, rebuilding enveloped objects whose tagged
// type is still registered. An envelope whose type has been unregistered
// degrades to its raw serialized form rather than failing. conv, if given,
// is applied after any rebuild.
func (s *ObjectStore) Get(path string, conv Convert, def any) (any, bool, error) {
	raw, ok, err := s.Store.Get(path, nil, nil)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return def, false, nil
	}

	value := raw
	if m, isMap := raw.(map[string]any); isMap && m[metaKey] == objectMarker {
		stored := m[valueKey]
		value = stored
		if name, isString := m[typeKey].(string); isString {
			for _, reg := range s.types {
				if reg.name == name {
					value = reg.from(stored)
					break
				}
			}
		}
	}

	if conv != nil {
		value = conv(value)
	}
	return value, true, nil
}
