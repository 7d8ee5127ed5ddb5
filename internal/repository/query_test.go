package repository

import (
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseSort(t *testing.T) {
	cases := map[string]struct {
		want PostSort
		ok   bool
	}{
		"":           {SortNewest, true},
		"-createdAt": {SortNewest, true},
		"createdAt":  {SortOldest, true},
		"title":      {SortTitle, true},
		"-title":     {SortTitleDesc, true},
		"views":      {"", false},
	}
	for in, tc := range cases {
		got, ok := ParseSort(in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseSort(%q) = %q,%v want %q,%v", in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBuildPostFilter(t *testing.T) {
	author := bson.NewObjectID()
	got := buildPostFilter(PostFilter{
		Status:   "published",
		Category: "Travel",
		Tags:     []string{"japan", "food"},
		AuthorID: author,
		Search:   " a.b ",
	})

	if got["status"] != "published" || got["category"] != "Travel" || got["author"] != author {
		t.Fatalf("scalar filters wrong: %#v", got)
	}
	if !reflect.DeepEqual(got["tags"], bson.M{"$in": []string{"japan", "food"}}) {
		t.Fatalf("tags filter = %#v", got["tags"])
	}
	or, ok := got["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %#v", got["$or"])
	}
	title := or[0]["title"].(bson.M)
	if title["$regex"] != `a\.b` || title["$options"] != "i" {
		t.Fatalf("title regex = %#v", title)
	}
}

func TestBuildPostFilterEmpty(t *testing.T) {
	if got := buildPostFilter(PostFilter{Search: "   "}); len(got) != 0 {
		t.Fatalf("expected empty filter, got %#v", got)
	}
}

func TestBuildPostSort(t *testing.T) {
	want := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	if got := buildPostSort(SortNewest); !reflect.DeepEqual(got, want) {
		t.Fatalf("newest sort = %#v", got)
	}
	if got := buildPostSort(SortTitle); got[0].Key != "title" || got[0].Value != 1 {
		t.Fatalf("title sort = %#v", got)
	}
}

func TestBuildPostWhere(t *testing.T) {
	author := bson.NewObjectID()
	where, args := buildPostWhere(PostFilter{
		Status:   "published",
		Tags:     []string{"go"},
		AuthorID: author,
		Search:   "100%_done",
	})

	wantWhere := " WHERE status = $1 AND tags && $2 AND author = $3 AND (title ILIKE $4 OR content ILIKE $4)"
	if where != wantWhere {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 4 || args[2] != author.Hex() || args[3] != `%100\%\_done%` {
		t.Fatalf("args = %#v", args)
	}

	if where, args := buildPostWhere(PostFilter{}); where != "" || len(args) != 0 {
		t.Fatalf("empty filter produced %q %v", where, args)
	}
}

func TestBuildPostOrder(t *testing.T) {
	if got := buildPostOrder(""); !strings.Contains(got, "created_at DESC") {
		t.Fatalf("default order = %q", got)
	}
	if got := buildPostOrder(SortTitleDesc); got != " ORDER BY title DESC, id DESC" {
		t.Fatalf("title desc order = %q", got)
	}
}
