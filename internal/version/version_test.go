package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	switch {
	case v == "":
		t.Error("version should not be empty")
	case c == "":
		t.Error("commit should not be empty")
	case d == "":
		t.Error("date should not be empty")
	}
}

func TestGetters(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should not return empty string")
	}
	if GetCommit() == "" {
		t.Error("GetCommit should not return empty string")
	}
	if GetDate() == "" {
		t.Error("GetDate should not return empty string")
	}

	v, c, d := Info()
	if GetVersion() != v || GetCommit() != c || GetDate() != d {
		t.Error("getters should match Info")
	}
}

func TestString(t *testing.T) {
	s := String()
	switch {
	case !strings.Contains(s, "version="):
		t.Error("String should contain 'version='")
	case !strings.Contains(s, "commit="):
		t.Error("String should contain 'commit='")
	case !strings.Contains(s, "date="):
		t.Error("String should contain 'date='")
	}
}
