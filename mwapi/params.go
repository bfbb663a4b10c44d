package mwapi

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

// normalizeParams flattens the accepted param shapes into form values and
// fills the MediaWiki request defaults.
func normalizeParams(p any) (url.Values, error) {
	values := url.Values{}

	switch v := p.(type) {
	case nil:
		// nothing
	case url.Values:
		for k, vs := range v {
			if len(vs) == 0 {
				continue
			}
			// Repeated fields are |-joined in the Action API.
			values.Set(k, strings.Join(vs, "|"))
		}
	case map[string]string:
		for k, val := range v {
			values.Set(k, val)
		}
	case map[string]any:
		for k, val := range v {
			addAny(values, k, val)
		}
	default:
		rv := reflect.ValueOf(p)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				break
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, fmt.Errorf("unsupported params type: %T", p)
		}
		encoded, err := query.Values(p)
		if err != nil {
			return nil, err
		}
		for k, vs := range encoded {
			if len(vs) == 0 {
				continue
			}
			values.Set(k, strings.Join(vs, "|"))
		}
	}

	setDefaultIfMissing(values, "action", "query")
	setDefaultIfMissing(values, "format", "json")
	setDefaultIfMissing(values, "formatversion", "2")
	setDefaultIfMissing(values, "errorformat", "plaintext")

	return values, nil
}

func setDefaultIfMissing(v url.Values, key, value string) {
	if v.Get(key) == "" {
		v.Set(key, value)
	}
}

func addAny(values url.Values, key string, val any) {
	if val == nil {
		return
	}

	switch x := val.(type) {
	case string:
		values.Set(key, x)
	case bool:
		if x {
			values.Set(key, "1")
		}
	case int:
		values.Set(key, strconv.Itoa(x))
	case int64:
		values.Set(key, strconv.FormatInt(x, 10))
	case float64:
		values.Set(key, strconv.FormatFloat(x, 'f', -1, 64))
	case []string:
		if len(x) > 0 {
			values.Set(key, strings.Join(x, "|"))
		}
	case []any:
		parts := make([]string, 0, len(x))
		for _, it := range x {
			if it != nil {
				parts = append(parts, fmt.Sprint(it))
			}
		}
		if len(parts) > 0 {
			values.Set(key, strings.Join(parts, "|"))
		}
	case fmt.Stringer:
		values.Set(key, x.String())
	default:
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			parts := make([]string, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				parts = append(parts, fmt.Sprint(rv.Index(i).Interface()))
			}
			if len(parts) > 0 {
				values.Set(key, strings.Join(parts, "|"))
			}
		default:
			values.Set(key, fmt.Sprint(val))
		}
	}
}
