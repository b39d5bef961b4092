package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User owns problems and carries persisted aggregate statistics. The
// password hash never serializes to JSON.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	ProfilePicture    string             `bson:"profilePicture" json:"profilePicture"`
	PlatformUsernames PlatformUsernames  `bson:"platformUsernames" json:"platformUsernames"`
	Preferences       Preferences        `bson:"preferences" json:"preferences"`
	Statistics        UserStatistics     `bson:"statistics" json:"statistics"`
	LastActiveDate    time.Time          `bson:"lastActiveDate" json:"lastActiveDate"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PlatformUsernames struct {
	LeetCode   string `bson:"leetcode" json:"leetcode"`
	HackerRank string `bson:"hackerrank" json:"hackerrank"`
	Codeforces string `bson:"codeforces" json:"codeforces"`
	CodeChef   string `bson:"codechef" json:"codechef"`
	AtCoder    string `bson:"atcoder" json:"atcoder"`
}

type Preferences struct {
	DarkMode      bool   `bson:"darkMode" json:"darkMode"`
	Notifications bool   `bson:"notifications" json:"notifications"`
	Timezone      string `bson:"timezone" json:"timezone"`
}

// UserStatistics is the persisted summary. BestStreak only ever grows;
// CurrentStreak is a cached copy of the recomputed-on-demand value.
type UserStatistics struct {
	TotalProblemsSolved int `bson:"totalProblemsSolved" json:"totalProblemsSolved"`
	CurrentStreak       int `bson:"currentStreak" json:"currentStreak"`
	BestStreak          int `bson:"bestStreak" json:"bestStreak"`
	AverageSolveTime    int `bson:"averageSolveTime" json:"averageSolveTime"`
	TotalRevisionCount  int `bson:"totalRevisionCount" json:"totalRevisionCount"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
