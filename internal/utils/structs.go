package utils

import (
	"reflect"
	"strings"
)

var FieldTag = "field"

// StructToMap converts a tagged struct into a record field map. Fields tagged
// with ",omitempty" are skipped when they hold their zero value.
func StructToMap(input any) map[string]any {

	result := make(map[string]any)

	itemValue := reflect.ValueOf(input)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}

	if itemValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	itemType := itemValue.Type()

	for i := 0; i < itemValue.NumField(); i++ {

		if itemType.Field(i).PkgPath != "" {
			continue
		}

		name, omitEmpty := parseFieldTag(itemType.Field(i).Tag.Get(FieldTag))
		if name == "" || name == "-" {
			continue
		}

		field := itemValue.Field(i)
		if omitEmpty && field.IsZero() {
			continue
		}

		result[name] = field.Interface()

	}

	return result

}

func parseFieldTag(tag string) (string, bool) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts == "omitempty"
}
