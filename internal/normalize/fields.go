package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// field returns the first member of obj whose key matches one of names,
// ignoring case, underscores and hyphens.
func field(obj gjson.Result, names ...string) gjson.Result {
	if !obj.IsObject() {
		return gjson.Result{}
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[foldKey(n)] = true
	}
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if want[foldKey(k.String())] {
			found = v
			return false
		}
		return true
	})
	return found
}

var keyFolder = strings.NewReplacer("_", "", "-", "", " ", "")

func foldKey(k string) string {
	return keyFolder.Replace(strings.ToLower(k))
}

func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

// number coerces v to a float. It reports ok=false when v is absent and an
// error when v is present but not numeric.
func number(v gjson.Result, name string) (f float64, ok bool, err error) {
	if !present(v) {
		return 0, false, nil
	}
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v.Str), "%"))
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, schemaErr("%s: %q is not a number", name, v.Str)
		}
	default:
		return 0, false, schemaErr("%s: expected number, got %s", name, v.Type)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, schemaErr("%s: not a finite number", name)
	}
	return f, true, nil
}

// stringList returns the string members of an array. Numbers are converted;
// other element types are skipped.
func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, e := range v.Array() {
		switch e.Type {
		case gjson.String, gjson.Number:
			if s := strings.TrimSpace(e.String()); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// array returns doc when it is an array, the member named by one of names
// when doc is an object, or the first array-valued member otherwise.
func array(doc gjson.Result, names ...string) (gjson.Result, bool) {
	if doc.IsArray() {
		return doc, true
	}
	if !doc.IsObject() {
		return gjson.Result{}, false
	}
	if v := field(doc, names...); v.IsArray() {
		return v, true
	}
	var found gjson.Result
	doc.ForEach(func(_, v gjson.Result) bool {
		if v.IsArray() {
			found = v
			return false
		}
		return true
	})
	return found, found.IsArray()
}

// object returns doc when it is an object, or the first object element of an
// array.
func object(doc gjson.Result) (gjson.Result, bool) {
	if doc.IsObject() {
		return doc, true
	}
	if doc.IsArray() {
		if arr := doc.Array(); len(arr) > 0 && arr[0].IsObject() {
			return arr[0], true
		}
	}
	return gjson.Result{}, false
}
