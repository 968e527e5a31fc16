package dsl

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	recskema "github.com/reoring/recskema"
	"github.com/reoring/recskema/bitmask"
	"github.com/reoring/recskema/codec"
	"github.com/reoring/recskema/i18n"
)

// rawKind tags the accepted shapes of an untyped input value. Coercers match
// on the tag instead of inspecting Go types themselves.
type rawKind uint8

const (
	rawNull rawKind = iota
	rawBool
	rawNumber
	rawText
	rawList
	rawTyped
	rawOther
)

// number is a normalized numeric input. isInt is set when the value is
// integral and fits int64.
type number struct {
	i     int64
	f     float64
	isInt bool
}

type rawValue struct {
	kind  rawKind
	b     bool
	num   number
	text  string
	list  []any
	typed any
}

func classify(v any) rawValue {
	switch t := v.(type) {
	case nil:
		return rawValue{kind: rawNull}
	case bool:
		return rawValue{kind: rawBool, b: t}
	case string:
		return rawValue{kind: rawText, text: t}
	case int:
		return intRaw(int64(t))
	case int8:
		return intRaw(int64(t))
	case int16:
		return intRaw(int64(t))
	case int32:
		return intRaw(int64(t))
	case int64:
		return intRaw(t)
	case uint:
		return uintRaw(uint64(t))
	case uint8:
		return uintRaw(uint64(t))
	case uint16:
		return uintRaw(uint64(t))
	case uint32:
		return uintRaw(uint64(t))
	case uint64:
		return uintRaw(t)
	case float32:
		return floatRaw(float64(t))
	case float64:
		return floatRaw(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return intRaw(i)
		}
		if f, err := t.Float64(); err == nil {
			return floatRaw(f)
		}
		return rawValue{kind: rawText, text: string(t)}
	case []any:
		return rawValue{kind: rawList, list: t}
	case []string:
		l := make([]any, len(t))
		for i, s := range t {
			l[i] = s
		}
		return rawValue{kind: rawList, list: l}
	case []uuid.UUID:
		l := make([]any, len(t))
		for i, id := range t {
			l[i] = id
		}
		return rawValue{kind: rawList, list: l}
	case bitmask.Value, uuid.UUID, time.Time, Secret:
		return rawValue{kind: rawTyped, typed: t}
	}
	return rawValue{kind: rawOther, typed: v}
}

func intRaw(i int64) rawValue {
	return rawValue{kind: rawNumber, num: number{i: i, f: float64(i), isInt: true}}
}

func uintRaw(u uint64) rawValue {
	if u > math.MaxInt64 {
		return rawValue{kind: rawNumber, num: number{f: float64(u)}}
	}
	return intRaw(int64(u))
}

func floatRaw(f float64) rawValue {
	n := number{f: f}
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f < math.MaxInt64 {
		n.i = int64(f)
		n.isInt = true
	}
	return rawValue{kind: rawNumber, num: n}
}

// Structural email grammar: local-part "@" domain with at least one dot.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func mismatch(expected string) recskema.Issues {
	return recskema.Issues{recskema.Issue{
		Path:    "/",
		Code:    recskema.CodeTypeMismatch,
		Message: i18n.T(recskema.CodeTypeMismatch, nil),
		Hint:    "expected " + expected,
		Params:  map[string]any{"expected": expected},
	}}
}

// coerce runs the canonical coercion of f's kind. Issue paths are relative
// to the field.
func coerce(ctx context.Context, f *FieldSpec, v any) (any, recskema.Issues) {
	rv := classify(v)
	switch f.Type.kind {
	case KindString:
		if rv.kind == rawText {
			return rv.text, nil
		}
		return nil, mismatch("string")
	case KindInt:
		i, iss := coerceInt(rv)
		if iss != nil {
			return nil, iss
		}
		if iss := checkBounds(f, float64(i)); iss != nil {
			return nil, iss
		}
		return i, nil
	case KindFloat:
		fl, iss := coerceFloat(rv)
		if iss != nil {
			return nil, iss
		}
		if iss := checkBounds(f, fl); iss != nil {
			return nil, iss
		}
		return fl, nil
	case KindBool:
		switch rv.kind {
		case rawBool:
			return rv.b, nil
		case rawText:
			if b, err := strconv.ParseBool(strings.TrimSpace(rv.text)); err == nil {
				return b, nil
			}
		}
		return nil, mismatch("boolean")
	case KindEmail:
		if rv.kind != rawText {
			return nil, mismatch("string")
		}
		s := strings.TrimSpace(rv.text)
		if !emailRegex.MatchString(s) {
			return nil, formatIssue("email", nil)
		}
		return s, nil
	case KindSecret:
		switch rv.kind {
		case rawText:
			return NewSecret(rv.text), nil
		case rawTyped:
			if s, ok := rv.typed.(Secret); ok {
				return s, nil
			}
		}
		return nil, mismatch("string")
	case KindBitmask:
		return coerceFlags(f.Type.set, rv)
	case KindUUID:
		return coerceUUID(ctx, rv)
	case KindTimestamp:
		return coerceTime(ctx, rv)
	case KindUUIDList, KindStringList:
		return coerceList(ctx, f, rv)
	}
	return nil, mismatch(f.Type.kind.String())
}

func coerceInt(rv rawValue) (int64, recskema.Issues) {
	switch rv.kind {
	case rawNumber:
		if rv.num.isInt {
			return rv.num.i, nil
		}
		return 0, mismatch("integer")
	case rawText:
		if i, err := strconv.ParseInt(strings.TrimSpace(rv.text), 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, mismatch("integer")
}

func coerceFloat(rv rawValue) (float64, recskema.Issues) {
	switch rv.kind {
	case rawNumber:
		return rv.num.f, nil
	case rawText:
		if f, err := strconv.ParseFloat(strings.TrimSpace(rv.text), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	}
	return 0, mismatch("number")
}

func checkBounds(f *FieldSpec, n float64) recskema.Issues {
	if f.Min != nil && n < *f.Min {
		p := map[string]any{"min": *f.Min, "got": n}
		return recskema.Issues{recskema.Issue{Path: "/", Code: recskema.CodeTooSmall, Message: i18n.T(recskema.CodeTooSmall, map[string]string{"min": formatNum(*f.Min)}), Params: p}}
	}
	if f.Max != nil && n > *f.Max {
		p := map[string]any{"max": *f.Max, "got": n}
		return recskema.Issues{recskema.Issue{Path: "/", Code: recskema.CodeTooBig, Message: i18n.T(recskema.CodeTooBig, map[string]string{"max": formatNum(*f.Max)}), Params: p}}
	}
	return nil
}

func formatNum(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// coerceFlags accepts a number, a declared member name, or a value of the
// same set; anything else is an invalid_role listing the declared names.
func coerceFlags(set *bitmask.Set, rv rawValue) (any, recskema.Issues) {
	var (
		v   bitmask.Value
		err error
	)
	switch rv.kind {
	case rawNumber:
		if !rv.num.isInt {
			err = bitmask.ErrUnrepresentable
			break
		}
		v, err = set.FromNumber(rv.num.i)
	case rawText:
		v, err = set.FromName(rv.text)
	case rawTyped:
		tv, ok := rv.typed.(bitmask.Value)
		if ok && tv.Set() == set {
			return tv, nil
		}
		err = bitmask.ErrUnknownMember
	default:
		err = bitmask.ErrUnknownMember
	}
	if err == nil {
		return v, nil
	}
	return nil, invalidRole(set, err)
}

func invalidRole(set *bitmask.Set, cause error) recskema.Issues {
	var names []string
	for _, n := range set.Names() {
		// the zero member is implied by every value
		if set.MustName(n).Bits() == 0 {
			continue
		}
		names = append(names, n)
	}
	valid := strings.Join(names, ", ")
	return recskema.Issues{recskema.Issue{
		Path:    "/",
		Code:    recskema.CodeInvalidRole,
		Message: i18n.T(recskema.CodeInvalidRole, map[string]string{"valid": valid}),
		Cause:   cause,
		Params:  map[string]any{"valid": names},
	}}
}

func coerceUUID(ctx context.Context, rv rawValue) (any, recskema.Issues) {
	switch rv.kind {
	case rawTyped:
		if id, ok := rv.typed.(uuid.UUID); ok {
			return id, nil
		}
	case rawText:
		id, err := codec.UUIDText().Decode(ctx, rv.text)
		if err != nil {
			return nil, formatIssue("uuid", err)
		}
		return id, nil
	}
	return nil, mismatch("uuid")
}

func formatIssue(format string, cause error) recskema.Issues {
	return recskema.Issues{recskema.Issue{
		Path:    "/",
		Code:    recskema.CodeInvalidFormat,
		Message: i18n.T(recskema.CodeInvalidFormat, map[string]string{"format": format}),
		Hint:    format,
		Cause:   cause,
		Params:  map[string]any{"format": format},
	}}
}

func coerceTime(ctx context.Context, rv rawValue) (any, recskema.Issues) {
	var t time.Time
	switch rv.kind {
	case rawTyped:
		tt, ok := rv.typed.(time.Time)
		if !ok {
			return nil, mismatch("date-time")
		}
		t = tt
	case rawText:
		tt, err := codec.TimeRFC3339().Decode(ctx, rv.text)
		if err != nil {
			return nil, formatIssue("date-time", err)
		}
		t = tt
	case rawNumber:
		sec, frac := math.Modf(rv.num.f)
		t = time.Unix(int64(sec), int64(frac*1e9)).UTC()
	default:
		return nil, mismatch("date-time")
	}
	// the zero instant has no wire form
	if t.IsZero() {
		return nil, formatIssue("date-time", nil)
	}
	return t, nil
}

func coerceList(ctx context.Context, f *FieldSpec, rv rawValue) (any, recskema.Issues) {
	if rv.kind != rawList {
		return nil, mismatch("array")
	}
	if f.MaxLength > 0 && len(rv.list) > f.MaxLength {
		return nil, recskema.Issues{recskema.Issue{
			Path:    "/",
			Code:    recskema.CodeLengthExceeded,
			Message: i18n.T(recskema.CodeLengthExceeded, map[string]string{"max": strconv.Itoa(f.MaxLength)}),
			Params:  map[string]any{"max": f.MaxLength, "got": len(rv.list)},
		}}
	}
	var iss recskema.Issues
	if f.Type.kind == KindUUIDList {
		out := make([]uuid.UUID, 0, len(rv.list))
		for i, el := range rv.list {
			v, eiss := coerceUUID(ctx, classify(el))
			if eiss != nil {
				iss = recskema.AppendIssues(iss, eiss.Rebase(recskema.IndexPointer("", i))...)
				continue
			}
			out = append(out, v.(uuid.UUID))
		}
		if iss != nil {
			return nil, iss
		}
		return out, nil
	}
	out := make([]string, 0, len(rv.list))
	for i, el := range rv.list {
		erv := classify(el)
		if erv.kind != rawText {
			iss = recskema.AppendIssues(iss, mismatch("string").Rebase(recskema.IndexPointer("", i))...)
			continue
		}
		out = append(out, erv.text)
	}
	if iss != nil {
		return nil, iss
	}
	return out, nil
}
