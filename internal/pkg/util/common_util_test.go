package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 50, "..."); got != "hello" {
		t.Fatalf("short string changed: %q", got)
	}

	long := ""
	for i := 0; i < 120; i++ {
		long += "a"
	}
	got := TruncateRunes(long, 50, "...")
	if len([]rune(got)) != 53 {
		t.Fatalf("truncated length = %d runes, want 50 + ellipsis", len([]rune(got)))
	}

	// 按 rune 截断，多字节字符不能被拦腰切断
	cjk := "你好世界你好世界"
	got = TruncateRunes(cjk, 4, "...")
	if got != "你好世界..." {
		t.Fatalf("cjk truncate = %q", got)
	}
}

func TestStrSliceToUInt64Slice(t *testing.T) {
	ids, err := StrSliceToUInt64Slice([]string{"1", "42", "7"})
	if err != nil {
		t.Fatalf("StrSliceToUInt64Slice: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 42 || ids[2] != 7 {
		t.Fatalf("ids = %v", ids)
	}

	if _, err = StrSliceToUInt64Slice([]string{"1", "bad"}); err == nil {
		t.Fatal("expected error on non-numeric input")
	}
}
