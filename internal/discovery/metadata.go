package discovery

import (
	"regexp"

	"paratest/internal/domain"
)

// A tag value runs from the keyword to the last word boundary on its line,
// so "@depends testA */" yields "testA".
var (
	groupTag        = regexp.MustCompile(`@group\b[ \t]+\b(.*)\b`)
	dependsTag      = regexp.MustCompile(`@depends\b[ \t]+\b(.*)\b`)
	dataProviderTag = regexp.MustCompile(`@dataProvider\b[ \t]+\b(.*)\b`)
	testTag         = regexp.MustCompile(`@test\b`)
)

// ParseMetadata extracts groups, the first @depends target and the first
// @dataProvider name from a docblock. Missing tags yield zero values.
func ParseMetadata(doc string) domain.Metadata {
	var meta domain.Metadata
	if doc == "" {
		return meta
	}

	for _, m := range groupTag.FindAllStringSubmatch(doc, -1) {
		meta.Groups = append(meta.Groups, m[1])
	}
	if m := dependsTag.FindStringSubmatch(doc); m != nil {
		meta.DependsOn = m[1]
	}
	if m := dataProviderTag.FindStringSubmatch(doc); m != nil {
		meta.DataProvider = m[1]
	}
	return meta
}

// hasTestTag reports whether a docblock marks its method with @test.
func hasTestTag(doc string) bool {
	return testTag.MatchString(doc)
}
