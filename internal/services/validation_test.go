package services

import (
	"errors"
	"testing"

	"bloghub/dto"
)

func TestValidationMessages(t *testing.T) {
	err := validateStruct(dto.CreatePostDTO{
		Title:    "ab",
		Content:  "long enough content",
		Category: "this category name is much longer than fifty characters",
		Tags:     []string{"ok", "a-tag-that-is-definitely-longer-than-thirty"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v", err)
	}

	want := map[string]string{
		"title":    "Title must be at least 3 characters",
		"category": "Category cannot exceed 50 characters",
		"tags[1]":  "Each tag cannot exceed 30 characters",
	}
	if len(ve.Errors) != len(want) {
		t.Fatalf("errors = %+v", ve.Errors)
	}
	for _, fe := range ve.Errors {
		if want[fe.Field] != fe.Message {
			t.Errorf("%s: %q", fe.Field, fe.Message)
		}
	}
}

func TestValidationPasses(t *testing.T) {
	if err := validateStruct(dto.UpdatePostDTO{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if err := validateStruct(dto.ListQuery{SortBy: "-title", Status: "draft"}); err != nil {
		t.Fatalf("list query: %v", err)
	}
}
