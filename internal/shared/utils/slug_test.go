package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apollo Mission", "apollo-mission"},
		{"Project 12", "project-12"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"Hello, World!", "hello-world"},
		{"v2.0 -- release", "v2-0-release"},
		{"snake_case_name", "snake-case-name"},
		{"Nguyễn Nhật Ánh", "nguyen-nhat-anh"},
		{"Đà Lạt", "da-lat"},
		{"Crème Brûlée", "creme-brulee"},
		{"Straße", "strasse"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	name := "Mars Rover Telemetry"
	assert.Equal(t, Slugify(name), Slugify(name))
}

func TestSlugify_Idempotent(t *testing.T) {
	once := Slugify("Some Project: Phase II")
	assert.Equal(t, once, Slugify(once))
	assert.True(t, IsSlug(once))
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "Nguyen Nhat Anh", RemoveDiacritics("Nguyễn Nhật Ánh"))
	assert.Equal(t, "plain", RemoveDiacritics("plain"))
}

var randomSlugPattern = regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)

func TestRandomSlug_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		s, err := RandomSlug(6)
		require.NoError(t, err)
		assert.Regexp(t, randomSlugPattern, s)
	}
}

func TestRandomSlug_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s, err := RandomSlug(6)
		require.NoError(t, err)
		seen[s] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestRandomSlug_InvalidLength(t *testing.T) {
	_, err := RandomSlug(0)
	assert.Error(t, err)
}
