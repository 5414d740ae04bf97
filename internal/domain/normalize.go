package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field aliases in priority order. The first alias holding a non-empty value wins.
var (
	canonicalIDAliases = []string{"canonical_id", "id", "key", "ticket_id"}
	titleAliases       = []string{"title", "name", "summary"}
	bodyAliases        = []string{"body", "description", "desc"}
	labelAliases       = []string{"labels", "tags"}
	parentAliases      = []string{"parent", "parent_id", "parent_key"}
	pointsAliases      = []string{"points", "estimate"}
	priorityAliases    = []string{"priority"}
	requiresAliases    = []string{"requires", "REQUIRES"}
	providesAliases    = []string{"provides", "PROVIDES"}
)

// NormalizeRecord maps a raw record onto the canonical schema.
// It never fails: absent or unusable fields resolve to their neutral value.
// A ticket with an empty Title is not a candidate; callers drop it.
func NormalizeRecord(r *Record) CanonicalTicket {
	t := CanonicalTicket{
		Labels: []string{},
	}
	if r == nil {
		return t
	}

	if v, ok := firstTruthy(r, canonicalIDAliases); ok {
		if s, ok := scalarString(v); ok && s != "" {
			t.CanonicalID = &s
		}
	}
	if v, ok := firstTruthy(r, titleAliases); ok {
		t.Title, _ = scalarString(v)
	}
	if v, ok := firstTruthy(r, bodyAliases); ok {
		t.Body, _ = scalarString(v)
	}
	if v, ok := firstTruthy(r, labelAliases); ok {
		t.Labels = NormalizeLabels(v)
	}
	if v, ok := firstTruthy(r, parentAliases); ok {
		t.ParentCanonical = normalizeParent(v)
	}
	if v, ok := firstTruthy(r, pointsAliases); ok {
		t.Points = CoercePoints(v)
	}
	if v, ok := firstTruthy(r, priorityAliases); ok {
		if s, ok := scalarString(v); ok && s != "" {
			t.Priority = &s
		}
	}
	if v, ok := firstTruthy(r, requiresAliases); ok {
		t.Requires = textValue(v)
	}
	if v, ok := firstTruthy(r, providesAliases); ok {
		t.Provides = textValue(v)
	}
	return t
}

// NormalizeLabels converts a label value into an ordered list of strings.
// A single string is split on commas, trimmed, and empty pieces are dropped.
// A sequence passes through in order with every item kept: scalars as text,
// None as "None", and nested collections as their JSON encoding.
func NormalizeLabels(v any) []string {
	labels := []string{}
	switch val := v.(type) {
	case string:
		for _, piece := range strings.Split(val, ",") {
			if p := strings.TrimSpace(piece); p != "" {
				labels = append(labels, p)
			}
		}
	case []any:
		for _, item := range val {
			labels = append(labels, labelText(item))
		}
	}
	return labels
}

func labelText(v any) string {
	if s, ok := scalarString(v); ok {
		return s
	}
	if v == nil {
		return "None"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// CoercePoints converts an estimate into a Number.
// Integer coercion is tried first, then floating point; anything else is nil.
// Floating-point values truncate toward zero under integer coercion.
func CoercePoints(v any) *Number {
	switch val := v.(type) {
	case bool:
		if val {
			return IntNumber(1)
		}
		return IntNumber(0)
	case int64:
		return IntNumber(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		if val >= math.MinInt64 && val < math.MaxInt64 {
			return IntNumber(int64(val))
		}
		return FloatNumber(val)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), "_", "")
		if s == "" {
			return nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntNumber(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return FloatNumber(f)
		}
		return nil
	default:
		return nil
	}
}

func normalizeParent(v any) *ParentRef {
	switch val := v.(type) {
	case int64:
		return ParentNumber(int(val))
	default:
		s, ok := scalarString(val)
		if !ok || s == "" {
			return nil
		}
		return ParentKey(s)
	}
}

// firstTruthy returns the first alias value that is present and non-empty.
func firstTruthy(r *Record, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := r.Get(alias); ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// truthy reports whether a literal value counts as present.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case *Record:
		return val != nil && val.Len() > 0
	default:
		return true
	}
}

// scalarString renders a scalar literal as text. Collections are not scalars.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, true
	case bool:
		if val {
			return "True", true
		}
		return "False", true
	default:
		return "", false
	}
}

// textValue renders a free-form note, joining sequences with ", ".
func textValue(v any) string {
	if s, ok := scalarString(v); ok {
		return s
	}
	if items, ok := v.([]any); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := scalarString(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
