package engine

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/vcore/pkg/vdom"
)

// fingerprint hashes props into a render cache key. Props holding functions,
// channels or pointers cannot be compared by value and make the props
// uncacheable.
func fingerprint(props vdom.Props) (uint64, bool) {
	d := xxhash.New()
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.WriteString(k)
		d.Write([]byte{0})
		if !writeValue(d, reflect.ValueOf(props[k])) {
			return 0, false
		}
		d.Write([]byte{0})
	}
	return d.Sum64(), true
}

func writeValue(d *xxhash.Digest, v reflect.Value) bool {
	if !v.IsValid() {
		d.WriteString("nil")
		return true
	}
	// type tag keeps 1 and "1" apart
	d.WriteString(v.Type().String())
	d.Write([]byte{':'})

	switch v.Kind() {
	case reflect.String:
		d.WriteString(strconv.Itoa(v.Len()))
		d.Write([]byte{':'})
		d.WriteString(v.String())
	case reflect.Bool:
		d.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		d.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		d.WriteString(strconv.FormatUint(math.Float64bits(v.Float()), 16))
	case reflect.Complex64, reflect.Complex128:
		d.WriteString(fmt.Sprint(v.Complex()))
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			d.WriteString("nil")
			return true
		}
		d.WriteString(strconv.Itoa(v.Len()))
		for i := 0; i < v.Len(); i++ {
			d.Write([]byte{','})
			if !writeValue(d, v.Index(i)) {
				return false
			}
		}
	case reflect.Map:
		keys := v.MapKeys()
		encoded := make([]string, len(keys))
		for i, k := range keys {
			kd := xxhash.New()
			if !writeValue(kd, k) {
				return false
			}
			encoded[i] = strconv.FormatUint(kd.Sum64(), 16)
		}
		order := make([]int, len(keys))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return encoded[order[a]] < encoded[order[b]] })
		d.WriteString(strconv.Itoa(len(keys)))
		for _, i := range order {
			d.Write([]byte{','})
			d.WriteString(encoded[i])
			d.Write([]byte{'='})
			if !writeValue(d, v.MapIndex(keys[i])) {
				return false
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			d.Write([]byte{','})
			if !writeValue(d, v.Field(i)) {
				return false
			}
		}
	case reflect.Interface:
		return writeValue(d, v.Elem())
	default:
		// Func, Chan, Pointer, UnsafePointer
		return false
	}
	return true
}
