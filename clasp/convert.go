package clasp

import (
	"reflect"
	"strconv"
	"time"
)

// Path is a filesystem path. It converts unchanged from its token; use
// Exists to require that it names something on disk.
type Path string

// Scalar is the set of value types a token can be converted to.
type Scalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~bool | ~string
}

// Ordered is the subset of Scalar that supports range constraints.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

var durationType = reflect.TypeOf(time.Duration(0))

// Convert parses token as a T. Durations are read as an integer count of
// seconds; use ConvertDuration for another unit.
func Convert[T Scalar](token string) (T, error) {
	return convertUnit[T](token, time.Second)
}

// ConvertDuration parses token as an integer count of unit. Go duration
// syntax such as "1h30m" is accepted too.
func ConvertDuration(token string, unit time.Duration) (time.Duration, error) {
	return convertUnit[time.Duration](token, unit)
}

func convertUnit[T Scalar](token string, unit time.Duration) (T, error) {
	var out T
	v := reflect.ValueOf(&out).Elem()
	typ := v.Type()

	if typ == durationType {
		d, err := parseDuration(token, unit)
		if err != nil {
			return out, err
		}
		v.SetInt(int64(d))
		return out, nil
	}

	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(token, 0, 64)
		if err != nil {
			return out, conversionError(token, typ, err)
		}
		if v.OverflowInt(n) {
			return out, conversionError(token, typ, strconv.ErrRange)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(token, 0, 64)
		if err != nil {
			return out, conversionError(token, typ, err)
		}
		if v.OverflowUint(n) {
			return out, conversionError(token, typ, strconv.ErrRange)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(token, typ.Bits())
		if err != nil {
			return out, conversionError(token, typ, err)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(token)
		if err != nil {
			return out, conversionError(token, typ, err)
		}
		v.SetBool(b)
	case reflect.String:
		v.SetString(token)
	default:
		return out, newError(KindConversion, "unsupported value type %s", typ)
	}
	return out, nil
}

// parseDuration reads an integer count of unit, falling back to Go
// duration syntax.
func parseDuration(token string, unit time.Duration) (time.Duration, error) {
	n, err := strconv.ParseInt(token, 0, 64)
	if err == nil {
		d := time.Duration(n) * unit
		if unit != 0 && d/unit != time.Duration(n) {
			return 0, conversionError(token, durationType, strconv.ErrRange)
		}
		return d, nil
	}
	d, derr := time.ParseDuration(token)
	if derr != nil {
		return 0, conversionError(token, durationType, err)
	}
	return d, nil
}

func conversionError(token string, typ reflect.Type, cause error) *Error {
	reason := "invalid syntax"
	if ne, ok := cause.(*strconv.NumError); ok {
		cause = ne
		if ne.Err == strconv.ErrRange {
			reason = "value out of range"
		}
	} else if cause == strconv.ErrRange {
		reason = "value out of range"
	}
	return newError(KindConversion, "cannot convert %q to %s: %s", token, typeName(typ), reason).withCause(cause)
}

func typeName(typ reflect.Type) string {
	if typ == durationType {
		return "duration"
	}
	return typ.String()
}

// format renders a value for restriction texts and error messages.
func format[T Scalar](v T) string {
	rv := reflect.ValueOf(v)
	if rv.Type() == durationType {
		return time.Duration(rv.Int()).String()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	default:
		return rv.String()
	}
}

// paramHint is the placeholder shown after a parameter-taking spelling.
func paramHint[T Scalar]() string {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == reflect.TypeOf(Path("")) {
		return "<path>"
	}
	return "<" + typeName(typ) + ">"
}
