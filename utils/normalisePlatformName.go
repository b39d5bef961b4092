package utils

import (
	"strings"

	"codetrack/model"
)

// NormalizePlatform maps the spellings users actually type to the closed
// platform set. Unknown input falls through to Other.
func NormalizePlatform(name string) model.Platform {
	name = strings.ToLower(strings.TrimSpace(name))

	platformMap := map[string]model.Platform{

		"leetcode":  model.PlatformLeetCode,
		"leet code": model.PlatformLeetCode,
		"lc":        model.PlatformLeetCode,
		"letcode":   model.PlatformLeetCode,
		"leetcod":   model.PlatformLeetCode,

		"hackerrank":  model.PlatformHackerRank,
		"hacker rank": model.PlatformHackerRank,
		"hr":          model.PlatformHackerRank,
		"hackerank":   model.PlatformHackerRank,

		"codeforces":  model.PlatformCodeforces,
		"code forces": model.PlatformCodeforces,
		"cf":          model.PlatformCodeforces,
		"codeforce":   model.PlatformCodeforces,

		"codechef":  model.PlatformCodeChef,
		"code chef": model.PlatformCodeChef,
		"cc":        model.PlatformCodeChef,

		"atcoder":  model.PlatformAtCoder,
		"at coder": model.PlatformAtCoder,
		"ac":       model.PlatformAtCoder,
	}

	if normalized, ok := platformMap[name]; ok {
		return normalized
	}

	// Exact canonical names pass through unchanged.
	for _, p := range model.Platforms {
		if strings.EqualFold(name, string(p)) {
			return p
		}
	}

	return model.PlatformOther
}
