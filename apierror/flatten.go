package apierror

import "fmt"

// Flatten collapses an arbitrarily nested mapping of field name to
// string | []string | nested mapping into a flat mapping from dotted path
// to an ordered message list. Flattening an already-flat mapping is a
// no-op, so Flatten(Flatten(x)) == Flatten(x).
func Flatten(nested map[string]any) map[string][]string {
	flat := map[string][]string{}
	flattenInto(flat, "", nested)
	return flat
}

func flattenInto(flat map[string][]string, prefix string, nested map[string]any) {
	for key, value := range nested {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			flat[path] = []string{v}
		case []string:
			flat[path] = append([]string(nil), v...)
		case []any:
			messages := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					messages = append(messages, s)
				} else {
					messages = append(messages, fmt.Sprint(item))
				}
			}
			flat[path] = messages
		case map[string]any:
			flattenInto(flat, path, v)
		case map[string][]string:
			for childKey, messages := range v {
				flat[path+"."+childKey] = append([]string(nil), messages...)
			}
		default:
			if value != nil {
				flat[path] = []string{fmt.Sprint(value)}
			}
		}
	}
}
