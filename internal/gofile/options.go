package gofile

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/Project-Sylos/Courier/internal/utils"
)

// IsFolderOption reports whether option is accepted by setFolderOption
func IsFolderOption(option string) bool {
	for _, known := range types.FolderOptions {
		if option == known {
			return true
		}
	}
	return false
}

// ValidateFolderOption checks that value has the kind option expects:
// bool for public, any integer kind (or time.Time) for expire, a slice of
// strings for tags and a string for password and description.
func ValidateFolderOption(option string, value any) error {
	_, err := EncodeFolderOption(option, value)
	return err
}

// EncodeFolderOption validates value and returns its payload form
func EncodeFolderOption(option string, value any) (string, error) {
	if !IsFolderOption(option) {
		return "", invalid("option", "%q is not one of %s", option, strings.Join(types.FolderOptions, ", "))
	}
	if value == nil {
		return "", invalid("value", "option %s needs a value", option)
	}

	v := reflect.ValueOf(value)
	switch option {
	case types.OptionPublic:
		if v.Kind() == reflect.Bool {
			return strconv.FormatBool(v.Bool()), nil
		}
	case types.OptionExpire:
		if t, ok := value.(time.Time); ok {
			return strconv.FormatInt(t.Unix(), 10), nil
		}
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(v.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return strconv.FormatUint(v.Uint(), 10), nil
		}
	case types.OptionTags:
		if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Type().Elem().Kind() == reflect.String {
			tags := make([]string, 0, v.Len())
			for i := 0; i < v.Len(); i++ {
				tag := strings.TrimSpace(v.Index(i).String())
				if tag == "" || strings.Contains(tag, ",") {
					return "", invalid("value", "tag %q must be non-empty and contain no comma", tag)
				}
				tags = append(tags, tag)
			}
			return strings.Join(tags, ","), nil
		}
	case types.OptionPassword, types.OptionDescription:
		if v.Kind() == reflect.String {
			return v.String(), nil
		}
	}

	return "", invalid("value", "option %s does not accept a %T", option, value)
}

// ParseFolderOptionValue converts command line text into the kind option
// expects
func ParseFolderOptionValue(option, raw string) (any, error) {
	if !IsFolderOption(option) {
		return nil, invalid("option", "%q is not one of %s", option, strings.Join(types.FolderOptions, ", "))
	}

	switch option {
	case types.OptionPublic:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid("value", "public expects true or false, got %q", raw)
		}
		return b, nil
	case types.OptionExpire:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return n, nil
		}
		if t, terr := time.Parse(time.RFC3339, raw); terr == nil {
			return t.Unix(), nil
		}
		if t, terr := time.Parse("2006-01-02", raw); terr == nil {
			return t.Unix(), nil
		}
		return nil, invalid("value", "expire expects a unix timestamp or a date, got %q", raw)
	case types.OptionTags:
		tags := utils.SplitList(raw)
		if len(tags) == 0 {
			return nil, invalid("value", "tags expects a comma separated list")
		}
		return tags, nil
	default:
		return raw, nil
	}
}
