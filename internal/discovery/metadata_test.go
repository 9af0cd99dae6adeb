package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paratest/internal/domain"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected domain.Metadata
	}{
		{
			name: "empty docblock",
			doc:  "",
		},
		{
			name: "no tags",
			doc:  "/**\n * Creates a user.\n */",
		},
		{
			name:     "repeated groups",
			doc:      "/**\n * @group slow\n * @group db\n */",
			expected: domain.Metadata{Groups: []string{"slow", "db"}},
		},
		{
			name:     "single line docblock",
			doc:      "/** @depends testA */",
			expected: domain.Metadata{DependsOn: "testA"},
		},
		{
			name:     "first depends wins",
			doc:      "/**\n * @depends testA\n * @depends testB\n */",
			expected: domain.Metadata{DependsOn: "testA"},
		},
		{
			name:     "data provider",
			doc:      "/**\n * @dataProvider provideUsers\n */",
			expected: domain.Metadata{DataProvider: "provideUsers"},
		},
		{
			name: "all tags together",
			doc:  "/**\n * @group api\n * @depends testCreate\n * @dataProvider payloads\n */",
			expected: domain.Metadata{
				Groups:       []string{"api"},
				DependsOn:    "testCreate",
				DataProvider: "payloads",
			},
		},
		{
			name: "keywords are case sensitive and whole words",
			doc:  "/**\n * @Group slow\n * @groups db\n * @dependsOn testA\n */",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMetadata(tt.doc))
		})
	}
}

func TestHasTestTag(t *testing.T) {
	assert.True(t, hasTestTag("/** @test */"))
	assert.True(t, hasTestTag("/**\n * @test\n * @group slow\n */"))
	assert.False(t, hasTestTag("/** @testdox Creates users */"))
	assert.False(t, hasTestTag("/** nothing */"))
}
