package utils

import (
	"testing"

	"codetrack/model"
)

func TestNormalizePlatform(t *testing.T) {
	cases := []struct {
		in   string
		want model.Platform
	}{
		{"leetcode", model.PlatformLeetCode},
		{"Leet Code", model.PlatformLeetCode},
		{"lc", model.PlatformLeetCode},
		{"LeetCode", model.PlatformLeetCode},
		{"hacker rank", model.PlatformHackerRank},
		{"CF", model.PlatformCodeforces},
		{"codechef", model.PlatformCodeChef},
		{"AtCoder", model.PlatformAtCoder},
		{"  atcoder  ", model.PlatformAtCoder},
		{"other", model.PlatformOther},
		{"spoj", model.PlatformOther},
		{"", model.PlatformOther},
	}
	for _, tc := range cases {
		if got := NormalizePlatform(tc.in); got != tc.want {
			t.Errorf("NormalizePlatform(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
