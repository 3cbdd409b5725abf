package env

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// MarshalEnv renders the `env`-tagged fields of the given struct pointers as
// KEY=value lines, in field order. Zero values are skipped. The output reads
// back with caarlos0/env: durations use time.Duration syntax and slices are
// comma separated.
func MarshalEnv(configs ...any) (string, error) {
	var lines []string
	for _, c := range configs {
		v := reflect.ValueOf(c)
		if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
			return "", fmt.Errorf("expected pointer to struct, got %T", c)
		}
		lines = append(lines, marshalStruct(v.Elem())...)
	}

	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func marshalStruct(v reflect.Value) []string {
	var lines []string
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// "KEY,required,notEmpty" -> KEY
		key, _, _ := strings.Cut(field.Tag.Get("env"), ",")
		if key == "" {
			continue
		}

		val := v.Field(i)
		if val.IsZero() || (val.Kind() == reflect.Slice && val.Len() == 0) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s=%s", key, formatValue(val)))
	}
	return lines
}

func formatValue(v reflect.Value) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// Redact masks values of keys that look like credentials (API keys, tokens,
// passwords, database URLs), keeping the last four characters.
func Redact(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		key, val, ok := strings.Cut(line, "=")
		if !ok || val == "" || !isSecretKey(key) {
			continue
		}
		lines[i] = key + "=" + mask(val)
	}
	return strings.Join(lines, "\n")
}

func isSecretKey(key string) bool {
	key = strings.ToUpper(key)
	for _, marker := range []string{"KEY", "TOKEN", "PASSWORD", "SECRET", "DATABASE_URL"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

func mask(val string) string {
	if len(val) <= 4 {
		return "****"
	}
	return "****" + val[len(val)-4:]
}
