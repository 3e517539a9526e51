package internal

import "strconv"

// ContextValue returns the request-scoped value stored under key, or the
// zero value of T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Arg returns the i-th captured route segment, or "" when there is none.
func Arg(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

// ArgInt parses the i-th captured segment as an int. ok is false when it is
// missing or not a number.
func ArgInt(args []string, i int) (n int, ok bool) {
	n, err := strconv.Atoi(Arg(args, i))
	return n, err == nil
}

// QueryDefault returns a typed query parameter, or def when it is absent
// or does not parse.
func QueryDefault[T ~string | ~int | ~int64 | ~bool](c Context, name string, def T) T {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return def
	}
	return v
}

func convertParam[T ~string | ~int | ~int64 | ~bool](raw string) (T, bool) {
	var zero T
	switch p := any(&zero).(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		*p = v
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		*p = v
	default:
		return zero, false
	}
	return zero, true
}
