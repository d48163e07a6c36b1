package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			return "型が一致しません"
		case "literal_mismatch":
			return "リテラル値が一致しません"
		case "invalid_enum":
			return "許可されていない値です"
		case "missing_field":
			return "必須プロパティが不足しています"
		case "unrecognized_key":
			return "未知のキーです"
		case "no_matching_schema":
			return "どの候補スキーマにも一致しません"
		case "ambiguous_match":
			return "複数の候補スキーマに一致します"
		case "transform_error":
			return "変換に失敗しました"
		case "refinement_failed":
			return "検証条件を満たしません"
		case "duplicate_key":
			return "キーが重複しています"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "parse_error":
			return "解析エラー"
		case "truncated":
			return "打ち切られました"
		case "dependency_unavailable":
			return "依存先サービスが利用できません"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			return "type mismatch"
		case "literal_mismatch":
			return "literal mismatch"
		case "invalid_enum":
			return "value not allowed"
		case "missing_field":
			return "required property missing"
		case "unrecognized_key":
			return "unrecognized key"
		case "no_matching_schema":
			return "no candidate schema matched"
		case "ambiguous_match":
			return "input matches more than one candidate schema"
		case "transform_error":
			return "transform failed"
		case "refinement_failed":
			return "refinement failed"
		case "duplicate_key":
			return "duplicate key"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "parse_error":
			return "parse error"
		case "truncated":
			return "truncated"
		case "dependency_unavailable":
			return "dependency unavailable"
		}
	}
	return code
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
