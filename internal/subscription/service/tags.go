package service

import (
	"fmt"
	"regexp"

	"github.com/railzwaylabs/subview/internal/config"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
)

// TagRules turns charge names into timeline tags.
type TagRules struct {
	holiday       *regexp.Regexp
	discount      *regexp.Regexp
	nForN         *regexp.Regexp
	nonRefundable *regexp.Regexp
}

func NewTagRules(cfg config.TagsConfig) (*TagRules, error) {
	var (
		rules TagRules
		err   error
	)
	if rules.holiday, err = compileTag("holiday", cfg.Holiday); err != nil {
		return nil, err
	}
	if rules.discount, err = compileTag("discount", cfg.Discount); err != nil {
		return nil, err
	}
	if rules.nForN, err = compileTag("n_for_n", cfg.NForN); err != nil {
		return nil, err
	}
	if rules.nonRefundable, err = compileTag("non_refundable", cfg.NonRefundable); err != nil {
		return nil, err
	}
	return &rules, nil
}

// compileTag returns nil for an empty pattern, which matches nothing.
func compileTag(name, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("tag %s: %w", name, err)
	}
	return re, nil
}

func matches(re *regexp.Regexp, values ...string) bool {
	if re == nil {
		return false
	}
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// Tags classifies a charge by its name and pricing model.
func (r *TagRules) Tags(name, model string) timelinedomain.Tags {
	return timelinedomain.Tags{
		Holiday:    matches(r.holiday, name),
		Discount:   matches(r.discount, name, model),
		NForN:      matches(r.nForN, name),
		Refundable: !matches(r.nonRefundable, name),
	}
}
