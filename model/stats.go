package model

import "time"

// DimensionCount is one (label, count) pair of a categorical distribution.
type DimensionCount struct {
	Label string `json:"label" bson:"label"`
	Count int    `json:"count" bson:"count"`
}

// DayBucket groups activity under one calendar day (YYYY-MM-DD). AvgTime is
// the raw unrounded mean; rounding is a presentation concern.
type DayBucket struct {
	Day     string  `json:"day"`
	Count   int     `json:"count"`
	AvgTime float64 `json:"avgTime"`
}

type WeekBucket struct {
	Year    int     `json:"year"`
	Week    int     `json:"week"`
	Count   int     `json:"count"`
	AvgTime float64 `json:"avgTime"`
}

type MonthBucket struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Count   int     `json:"count"`
	AvgTime float64 `json:"avgTime"`
}

// DashboardStats backs the dashboard page. AverageSolveTime is rounded here,
// at the serialization boundary.
type DashboardStats struct {
	TotalProblems    int              `json:"totalProblems"`
	ProblemsThisWeek int              `json:"problemsThisWeek"`
	CurrentStreak    int              `json:"currentStreak"`
	BestStreak       int              `json:"bestStreak"`
	AverageSolveTime int              `json:"averageSolveTime"`
	PendingRevisions int              `json:"pendingRevisions"`
	DifficultyStats  []DimensionCount `json:"difficultyStats"`
	CategoryStats    []DimensionCount `json:"categoryStats"`
	TimeAnalysis     []DayBucket      `json:"timeAnalysis"`
	HeatmapData      []DayBucket      `json:"heatmapData"`
}

type RevisionStats struct {
	RevisedThisWeek     int              `json:"revisedThisWeek"`
	TotalProblems       int              `json:"totalProblems"`
	MissedRevisions     int              `json:"missedRevisions"`
	AverageRevisionTime int              `json:"averageRevisionTime"`
	PendingToday        int              `json:"pendingToday"`
	DifficultyStats     []DimensionCount `json:"difficultyStats"`
	CategoryStats       []DimensionCount `json:"categoryStats"`
	RecentRevisions     []RevisionDigest `json:"recentRevisions"`
}

// RevisionDigest is the trimmed problem view used in revision summaries.
type RevisionDigest struct {
	ID                 string     `json:"id"`
	ProblemName        string     `json:"problemName"`
	ProblemTitle       string     `json:"problemTitle"`
	PlatformDifficulty Difficulty `json:"platformDifficulty"`
	MainCategory       Category   `json:"mainCategory"`
	NextRevisionDate   *time.Time `json:"nextRevisionDate,omitempty"`
	LastRevisionDate   *time.Time `json:"lastRevisionDate,omitempty"`
}

type RevisionNotifications struct {
	Upcoming []RevisionDigest `json:"upcoming"`
	Overdue  []RevisionDigest `json:"overdue"`
}

type ActivityStats struct {
	Daily   []DayBucket   `json:"daily"`
	Weekly  []WeekBucket  `json:"weekly"`
	Monthly []MonthBucket `json:"monthly"`
}

type ProfileStats struct {
	User          User             `json:"user"`
	TotalProblems int              `json:"totalProblems"`
	BestWeek      int              `json:"bestWeek"`
	ByPlatform    []DimensionCount `json:"problemsByPlatform"`
	ByDifficulty  []DimensionCount `json:"problemsByDifficulty"`
	ByCategory    []DimensionCount `json:"problemsByCategory"`
}
