package semantic

import "testing"

func TestDetectLanguage_English(t *testing.T) {
	if got := DetectLanguage("what is the current temperature"); got != LangEnglish {
		t.Errorf("got %v, want en", got)
	}
}

func TestDetectLanguage_Persian(t *testing.T) {
	if got := DetectLanguage("دمای فعلی گلخانه چقدر است"); got != LangPersian {
		t.Errorf("got %v, want fa", got)
	}
}

func TestDetectLanguage_MixedLeansPersian(t *testing.T) {
	if got := DetectLanguage("رطوبت خاک در 24 ساعت گذشته"); got != LangPersian {
		t.Errorf("got %v, want fa", got)
	}
}

func TestDetectLanguage_Empty(t *testing.T) {
	if got := DetectLanguage(""); got != LangEnglish {
		t.Errorf("got %v, want en default", got)
	}
}
