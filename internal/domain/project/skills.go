package project

import (
	"strings"

	"golang.org/x/text/cases"
)

// SkillTags splits a skills field into case-folded, de-duplicated tags.
func SkillTags(skills string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(skills, ",") {
		tag := fold.String(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// HasSkill reports whether skills contains tag, ignoring case.
func HasSkill(skills, tag string) bool {
	want := cases.Fold().String(strings.TrimSpace(tag))
	if want == "" {
		return true
	}
	for _, have := range SkillTags(skills) {
		if have == want {
			return true
		}
	}
	return false
}

// FilterPage applies the skill filter and then the limit/offset window.
func FilterPage(projects []Project, opts ListOptions) []Project {
	var out []Project
	for _, p := range projects {
		if HasSkill(p.Skills, opts.Skill) {
			out = append(out, p)
		}
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out
}
