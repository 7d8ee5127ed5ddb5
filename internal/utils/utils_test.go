package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Go ", "", "Travel", "  "})
	want := []string{"go", "travel"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeTags = %#v", got)
	}
}

func TestSplitTags(t *testing.T) {
	if got := SplitTags(""); got != nil {
		t.Fatalf("SplitTags(\"\") = %#v", got)
	}
	if got := SplitTags("Japan, food,,"); !reflect.DeepEqual(got, []string{"japan", "food"}) {
		t.Fatalf("SplitTags = %#v", got)
	}
}

func TestPublicIDRoundTrip(t *testing.T) {
	id := "blog-images/abc.png"
	enc := EncodePublicID(id)
	if enc != "blog-images--abc.png" || DecodePublicID(enc) != id {
		t.Fatalf("encode=%q decode=%q", enc, DecodePublicID(enc))
	}
}
