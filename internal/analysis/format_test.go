package analysis_test

import (
	"reflect"
	"testing"

	"github.com/sqlpeek/sqlpeek/internal/analysis"
)

func TestDetectFormats(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		detected []string
		want     []string
	}{
		{"email", "user@example.com", nil, []string{"Email"}},
		{"url www", "www.example.com", []string{"Email"}, []string{"URL"}},
		{"url http", "https://example.com", nil, []string{"URL"}},
		{"plain text", "plain text", nil, nil},
		{"both rules fire", "www.user@host.com", nil, []string{"Email", "URL"}},
		{"email already detected", "a@b.c", []string{"Email"}, nil},
		{"all detected", "www.a@b.c", []string{"Email", "URL"}, nil},
		{"at without dot", "user@localhost", nil, nil},
		{"dot without at", "filename.txt", nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := analysis.DetectFormats(tc.value, tc.detected)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("DetectFormats(%q, %v) = %v, want %v",
					tc.value, tc.detected, got, tc.want)
			}
		})
	}
}

func TestDetectFormatsIsPure(t *testing.T) {
	detected := []string{"Email"}
	analysis.DetectFormats("www.x@y.z", detected)
	if len(detected) != 1 || detected[0] != "Email" {
		t.Errorf("detected slice mutated: %v", detected)
	}
}
