package resume

import (
	"reflect"
	"strings"
	"testing"
)

func TestWriteProjects_RoundTrip(t *testing.T) {
	orig := ParseProjects(sampleProjects)
	if !orig.OK() {
		t.Fatalf("fixture should parse cleanly: %v", orig.Errors)
	}

	out := WriteProjects(orig.Meta, orig.Projects)
	reparsed := ParseProjects(out)
	if !reparsed.OK() {
		t.Fatalf("serialized output should parse cleanly: %v\n%s", reparsed.Errors, out)
	}
	if !reflect.DeepEqual(orig.Projects, reparsed.Projects) {
		t.Errorf("round-trip mismatch:\norig:     %+v\nreparsed: %+v", orig.Projects, reparsed.Projects)
	}
	if orig.Meta != reparsed.Meta {
		t.Errorf("meta round-trip mismatch: %+v vs %+v", orig.Meta, reparsed.Meta)
	}
}

func TestWriteResume_RoundTrip(t *testing.T) {
	orig := ParseResume(sampleResume)
	if !orig.OK() {
		t.Fatalf("fixture should parse cleanly: %v", orig.Errors)
	}

	out := WriteResume(orig.Data)
	reparsed := ParseResume(out)
	if !reparsed.OK() {
		t.Fatalf("serialized output should parse cleanly: %v\n%s", reparsed.Errors, out)
	}
	if !reflect.DeepEqual(orig.Data, reparsed.Data) {
		t.Errorf("round-trip mismatch:\norig:     %+v\nreparsed: %+v", orig.Data, reparsed.Data)
	}
}

func TestWriteResume_OmitsEmptySections(t *testing.T) {
	out := WriteResume(ResumeData{Personal: PersonalInfo{Name: "Maria"}})
	if strings.Contains(out, "## ") {
		t.Errorf("no section headings expected for an empty résumé, got:\n%s", out)
	}
	if !strings.HasPrefix(out, "# Maria\n") {
		t.Errorf("output should start with the name heading, got:\n%s", out)
	}
}

func TestWriteProjects_Empty(t *testing.T) {
	out := WriteProjects(Meta{}, nil)
	res := ParseProjects(out)
	if len(res.Projects) != 0 || !res.OK() {
		t.Errorf("empty list should round-trip to empty list, got %+v", res)
	}
}

func TestJoinPipes(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"a", "b", "c"}, "a | b | c"},
		{[]string{"a", "b", ""}, "a | b"},
		{[]string{"a", "", "c"}, "a |  | c"},
		{[]string{"a"}, "a"},
	}
	for _, tt := range tests {
		if got := joinPipes(tt.parts...); got != tt.want {
			t.Errorf("joinPipes(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}
