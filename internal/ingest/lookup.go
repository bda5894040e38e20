// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package ingest

import (
	"strconv"
)

// lookupPath walks a nested raw value along a source path and returns the
// value found, or (nil, false) when any step is missing, null, or of the
// wrong shape. Path steps are map keys (string) or sequence indexes (int).
//
// Two upstream irregularities are tolerated:
//   - a key step against a single-element sequence descends into element 0,
//     because the upstream wraps some groups in one-element arrays
//   - an index-0 step against a mapping keeps the mapping itself, because
//     the upstream collapses single-entry sequences to plain objects
func lookupPath(root interface{}, path []interface{}) (interface{}, bool) {
	node := root
	for _, s := range path {
		if node == nil {
			return nil, false
		}

		switch step := s.(type) {
		case string:
			if seq, ok := node.([]interface{}); ok {
				if len(seq) == 0 {
					return nil, false
				}
				node = seq[0]
			}
			m, ok := node.(map[string]interface{})
			if !ok {
				return nil, false
			}
			node, ok = m[step]
			if !ok {
				return nil, false
			}
		case int:
			if seq, ok := node.([]interface{}); ok {
				if step < 0 || step >= len(seq) {
					return nil, false
				}
				node = seq[step]
				continue
			}
			if _, ok := node.(map[string]interface{}); ok && step == 0 {
				continue
			}
			return nil, false
		default:
			return nil, false
		}
	}

	if node == nil {
		return nil, false
	}
	return node, true
}

// coerceString converts a scalar to its string form. Numbers format without
// a trailing fraction when integral; booleans render as "yes"/"no" to match
// the upstream's own vocabulary. Non-scalar values do not coerce.
func coerceString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		if val {
			return "yes", true
		}
		return "no", true
	default:
		return "", false
	}
}

// coerceInt converts a scalar to int64. Strings parse as base-10; floats
// truncate. Non-numeric values do not coerce.
func coerceInt(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case int64:
		return val, true
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// coerceStringList converts a value to a list of strings. A sequence keeps
// its coercible elements; a bare scalar becomes a one-element list.
func coerceStringList(v interface{}) ([]string, bool) {
	if seq, ok := v.([]interface{}); ok {
		out := make([]string, 0, len(seq))
		for _, item := range seq {
			if s, ok := coerceString(item); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	if s, ok := coerceString(v); ok {
		return []string{s}, true
	}
	return nil, false
}
