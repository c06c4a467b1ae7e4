package asq3

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"
)

// ImageName is a parsed question image filename:
// {age_token}_{domain_token}_{question_number}.png
type ImageName struct {
	File           string
	AgeMonths      int
	DomainCode     string
	QuestionNumber int
}

// ParseImageName decodes file against the catalog's age and domain tokens.
func ParseImageName(file string, c *reference.Catalog) (ImageName, error) {
	base := filepath.Base(file)
	stem, ok := strings.CutSuffix(base, ".png")
	if !ok {
		return ImageName{}, fmt.Errorf("%s: not a .png file", base)
	}

	parts := strings.Split(stem, "_")
	if len(parts) != 3 {
		return ImageName{}, fmt.Errorf("%s: invalid filename format, expected age_domain_number", base)
	}

	months, ok := c.ParseAgeToken(parts[0])
	if !ok {
		return ImageName{}, fmt.Errorf("%s: unknown age token %q", base, parts[0])
	}
	code, ok := c.DomainTokens()[parts[1]]
	if !ok {
		return ImageName{}, fmt.Errorf("%s: unknown domain token %q", base, parts[1])
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 || n > c.QuestionsPerDomain {
		return ImageName{}, fmt.Errorf("%s: invalid question number %q", base, parts[2])
	}

	return ImageName{File: base, AgeMonths: months, DomainCode: code, QuestionNumber: n}, nil
}
