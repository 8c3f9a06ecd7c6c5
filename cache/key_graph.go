package cache

import (
	"fmt"
	"reflect"
)

// MaxKeyDepth bounds how deeply nested an argument may be before it is
// rejected as a malformed key.
const MaxKeyDepth = 64

// visit identifies a slice or pointer on the current path. Slices sharing a
// backing array but with different lengths are distinct values.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// checkKeyGraph walks arg and fails if it references itself or nests deeper
// than MaxKeyDepth. Encoders recurse without guards, so a cyclic argument
// must be rejected before encoding starts.
func checkKeyGraph(arg any) error {
	return walkKeyGraph(reflect.ValueOf(arg), map[visit]struct{}{}, 0)
}

func walkKeyGraph(rv reflect.Value, path map[visit]struct{}, depth int) error {
	if !rv.IsValid() {
		return nil
	}
	if depth > MaxKeyDepth {
		return fmt.Errorf("argument nests deeper than %d levels", MaxKeyDepth)
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return walkKeyGraph(rv.Elem(), path, depth+1)

	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		v := visit{ptr: rv.Pointer(), typ: rv.Type()}
		return walkReferenced(v, path, func() error {
			return walkKeyGraph(rv.Elem(), path, depth+1)
		})

	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return nil
		}
		v := visit{ptr: rv.Pointer(), typ: rv.Type(), len: rv.Len()}
		return walkReferenced(v, path, func() error {
			return walkElements(rv, path, depth)
		})

	case reflect.Array:
		return walkElements(rv, path, depth)

	case reflect.Map:
		if rv.IsNil() || rv.Len() == 0 {
			return nil
		}
		v := visit{ptr: rv.Pointer(), typ: rv.Type()}
		return walkReferenced(v, path, func() error {
			iter := rv.MapRange()
			for iter.Next() {
				if err := walkKeyGraph(iter.Key(), path, depth+1); err != nil {
					return err
				}
				if err := walkKeyGraph(iter.Value(), path, depth+1); err != nil {
					return err
				}
			}
			return nil
		})

	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if err := walkKeyGraph(rv.Field(i), path, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkReferenced(v visit, path map[visit]struct{}, walk func() error) error {
	if _, ok := path[v]; ok {
		return fmt.Errorf("argument of type %s references itself", v.typ)
	}
	path[v] = struct{}{}
	defer delete(path, v)
	return walk()
}

func walkElements(rv reflect.Value, path map[visit]struct{}, depth int) error {
	for i := 0; i < rv.Len(); i++ {
		if err := walkKeyGraph(rv.Index(i), path, depth+1); err != nil {
			return err
		}
	}
	return nil
}
