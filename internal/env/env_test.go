package env

import (
	"testing"
)

func TestGetters(t *testing.T) {
	t.Setenv("MARSAI_TEST_STR", "hello")
	t.Setenv("MARSAI_TEST_INT", " 42 ")
	t.Setenv("MARSAI_TEST_BAD_INT", "abc")
	t.Setenv("MARSAI_TEST_BOOL", "true")
	t.Setenv("MARSAI_TEST_LIST", "a, b,,c")

	if got := GetString("MARSAI_TEST_STR", "x"); got != "hello" {
		t.Errorf("GetString() = %s, want hello", got)
	}
	if got := GetString("MARSAI_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetString() fallback = %s, want x", got)
	}
	if got := GetInt("MARSAI_TEST_INT", 1); got != 42 {
		t.Errorf("GetInt() = %d, want 42", got)
	}
	if got := GetInt("MARSAI_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetInt() fallback = %d, want 7", got)
	}
	if got := GetBool("MARSAI_TEST_BOOL", false); !got {
		t.Errorf("GetBool() = %v, want true", got)
	}

	list := GetStrings("MARSAI_TEST_LIST", nil)
	if len(list) != 3 || list[0] != "a" || list[1] != "b" || list[2] != "c" {
		t.Errorf("GetStrings() = %v, want [a b c]", list)
	}
}
