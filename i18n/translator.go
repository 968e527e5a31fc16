package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "valid" or "max").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "missing_required_field":
			msg = "必須フィールドが不足しています"
		case "type_mismatch":
			msg = "型が不正です"
		case "invalid_format":
			msg = "{format} の形式が不正です"
		case "invalid_role":
			msg = "ロールが不正です。次のいずれかを使用してください: {valid}"
		case "length_exceeded":
			msg = "要素数が上限 {max} を超えています"
		case "pattern_violation":
			msg = "パターンに一致しません"
		case "too_small":
			msg = "{min} 以上である必要があります"
		case "too_big":
			msg = "{max} 以下である必要があります"
		case "unknown_key":
			msg = "未知のキーです"
		case "immutable_field":
			msg = "このフィールドは変更できません"
		case "parse_error":
			msg = "解析エラー"
		}
	default: // "en"
		switch code {
		case "missing_required_field":
			msg = "field required"
		case "type_mismatch":
			msg = "invalid type"
		case "invalid_format":
			msg = "value is not a valid {format}"
		case "invalid_role":
			msg = "Role is invalid, please use one of the following: {valid}"
		case "length_exceeded":
			msg = "list should have at most {max} items"
		case "pattern_violation":
			msg = "value does not match the required pattern"
		case "too_small":
			msg = "value should be greater than or equal to {min}"
		case "too_big":
			msg = "value should be less than or equal to {max}"
		case "unknown_key":
			msg = "extra inputs are not permitted"
		case "immutable_field":
			msg = "field is frozen"
		case "parse_error":
			msg = "parse error"
		}
	}
	if msg == "" {
		return code
	}
	return expand(msg, data)
}

// expand substitutes {key} placeholders; unknown placeholders are kept.
func expand(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
