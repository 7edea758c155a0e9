package logging

// logParamsToZapParams flattens extra keys into zap's alternating
// key/value form.
func logParamsToZapParams(extra map[ExtraKey]any) []any {
	params := make([]any, 0, 2*len(extra))
	for key, value := range extra {
		params = append(params, string(key), value)
	}
	return params
}

// logParamsToZeroParams converts extra keys into the string-keyed map
// zerolog's Fields expects.
func logParamsToZeroParams(extra map[ExtraKey]any) map[string]any {
	params := make(map[string]any, len(extra))
	for key, value := range extra {
		params[string(key)] = value
	}
	return params
}
