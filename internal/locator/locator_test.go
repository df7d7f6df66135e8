package locator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected []Candidate
	}{
		{
			name: "full URL is the sole candidate",
			cfg: Config{
				BaseURL:     "http://localhost:3008",
				OpenAPIPath: "/v3/api-docs",
				FullURL:     "http://somewhere.else/spec.json",
			},
			expected: []Candidate{
				{URL: "http://somewhere.else/spec.json", ContextPath: ""},
			},
		},
		{
			name: "no configured context",
			cfg: Config{
				BaseURL:     "http://localhost:3008",
				OpenAPIPath: "/v3/api-docs",
			},
			expected: []Candidate{
				{URL: "http://localhost:3008/v3/api-docs", ContextPath: ""},
				{URL: "http://localhost:3008/api/v3/api-docs", ContextPath: "api"},
				{URL: "http://localhost:3008/csi-api/empi-api/api/v3/api-docs", ContextPath: "csi-api/empi-api/api"},
			},
		},
		{
			name: "configured context comes first",
			cfg: Config{
				BaseURL:     "http://localhost:3008/",
				ContextPath: "/my-service",
				OpenAPIPath: "v3/api-docs",
			},
			expected: []Candidate{
				{URL: "http://localhost:3008/my-service/v3/api-docs", ContextPath: "my-service"},
				{URL: "http://localhost:3008/v3/api-docs", ContextPath: ""},
				{URL: "http://localhost:3008/api/v3/api-docs", ContextPath: "api"},
				{URL: "http://localhost:3008/csi-api/empi-api/api/v3/api-docs", ContextPath: "csi-api/empi-api/api"},
			},
		},
		{
			name: "configured context matching a guess is not repeated",
			cfg: Config{
				BaseURL:     "http://localhost:3008",
				ContextPath: "api",
				OpenAPIPath: "/v3/api-docs",
			},
			expected: []Candidate{
				{URL: "http://localhost:3008/api/v3/api-docs", ContextPath: "api"},
				{URL: "http://localhost:3008/v3/api-docs", ContextPath: ""},
				{URL: "http://localhost:3008/csi-api/empi-api/api/v3/api-docs", ContextPath: "csi-api/empi-api/api"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.cfg)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://h/a/b", JoinURL("http://h/", "/a/", "b"))
	assert.Equal(t, "http://h/b", JoinURL("http://h", "", "b"))
	assert.Equal(t, "http://h", JoinURL("http://h", "", ""))
}
