package model

// Closed value sets for problem classification. Keeping these as typed
// strings with explicit Valid checks rejects unknown labels at the model
// boundary instead of letting them leak into stored documents.

type Platform string

const (
	PlatformLeetCode   Platform = "LeetCode"
	PlatformHackerRank Platform = "HackerRank"
	PlatformCodeforces Platform = "Codeforces"
	PlatformCodeChef   Platform = "CodeChef"
	PlatformAtCoder    Platform = "AtCoder"
	PlatformOther      Platform = "Other"
)

var Platforms = []Platform{
	PlatformLeetCode, PlatformHackerRank, PlatformCodeforces,
	PlatformCodeChef, PlatformAtCoder, PlatformOther,
}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

type Status string

const (
	StatusSolved     Status = "Solved"
	StatusInProgress Status = "In Progress"
	StatusForReview  Status = "For Review"
)

var Statuses = []Status{StatusSolved, StatusInProgress, StatusForReview}

func (s Status) Valid() bool {
	return s == StatusSolved || s == StatusInProgress || s == StatusForReview
}

type Category string

var Categories = []Category{
	"Arrays", "Strings", "Linked Lists", "Trees", "Graphs",
	"Dynamic Programming", "Backtracking", "Greedy", "Sorting",
	"Searching", "Hash Tables", "Stacks", "Queues", "Heaps",
	"Binary Search", "Two Pointers", "Sliding Window", "Math",
	"Bit Manipulation", "Recursion", "Other",
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Pattern string

var Patterns = []Pattern{
	"Sliding Window", "Two Pointers", "Fast & Slow Pointers",
	"Merge Intervals", "Cyclic Sort", "In-place Reversal",
	"Tree BFS", "Tree DFS", "Two Heaps", "Subsets",
	"Modified Binary Search", "Top K Elements", "K-way Merge",
	"Topological Sort", "Dynamic Programming", "Backtracking",
	"Greedy", "Other",
}

func (p Pattern) Valid() bool {
	for _, v := range Patterns {
		if p == v {
			return true
		}
	}
	return false
}
