package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GenericResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Payload interface{} `json:"payload,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	ErrorType string `json:"errorType"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

// Problem is a single logged solve, owned by exactly one user. The revision
// schedule is embedded; its history belongs exclusively to the problem.
type Problem struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	ProblemName        string             `bson:"problemName" json:"problemName"`
	ProblemTitle       string             `bson:"problemTitle" json:"problemTitle"`
	Description        string             `bson:"description" json:"description"`
	ProblemLink        string             `bson:"problemLink" json:"problemLink"`
	Platform           Platform           `bson:"platform" json:"platform"`
	PlatformDifficulty Difficulty         `bson:"platformDifficulty" json:"platformDifficulty"`
	RealDifficulty     Difficulty         `bson:"realDifficulty" json:"realDifficulty"`
	TimeTaken          int                `bson:"timeTaken" json:"timeTaken"`
	MainCategory       Category           `bson:"mainCategory" json:"mainCategory"`
	TopicTags          []string           `bson:"topicTags" json:"topicTags"`
	ProblemPattern     Pattern            `bson:"problemPattern" json:"problemPattern"`
	ApproachNotes      string             `bson:"approachNotes,omitempty" json:"approachNotes,omitempty"`
	CodeSnippet        string             `bson:"codeSnippet,omitempty" json:"codeSnippet,omitempty"`
	Status             Status             `bson:"status" json:"status"`
	IsFavorite         bool               `bson:"isFavorite" json:"isFavorite"`
	RevisionSchedule   RevisionSchedule   `bson:"revisionSchedule" json:"revisionSchedule"`
	SolveDate          time.Time          `bson:"solveDate" json:"solveDate"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RevisionSchedule tracks spaced-repetition state for one problem.
// RevisionCount and len(RevisionHistory) move in lockstep; the history is
// append-only and never reordered.
type RevisionSchedule struct {
	NextRevisionDate *time.Time      `bson:"nextRevisionDate" json:"nextRevisionDate"`
	RevisionCount    int             `bson:"revisionCount" json:"revisionCount"`
	LastRevisionDate *time.Time      `bson:"lastRevisionDate" json:"lastRevisionDate"`
	RevisionHistory  []RevisionEntry `bson:"revisionHistory" json:"revisionHistory"`
}

type RevisionEntry struct {
	Date      time.Time `bson:"date" json:"date"`
	TimeTaken int       `bson:"timeTaken" json:"timeTaken"`
	Notes     string    `bson:"notes" json:"notes"`
}

type CreateProblemRequest struct {
	ProblemName        string     `json:"problemName"`
	ProblemTitle       string     `json:"problemTitle"`
	Description        string     `json:"description"`
	ProblemLink        string     `json:"problemLink"`
	Platform           Platform   `json:"platform"`
	PlatformDifficulty Difficulty `json:"platformDifficulty"`
	RealDifficulty     Difficulty `json:"realDifficulty"`
	TimeTaken          int        `json:"timeTaken"`
	MainCategory       Category   `json:"mainCategory"`
	TopicTags          []string   `json:"topicTags"`
	ProblemPattern     Pattern    `json:"problemPattern"`
	ApproachNotes      string     `json:"approachNotes"`
	CodeSnippet        string     `json:"codeSnippet"`
	Status             Status     `json:"status"`
	SolveDate          *time.Time `json:"solveDate"`
}

// UpdateProblemRequest carries optional fields; nil means "leave unchanged".
type UpdateProblemRequest struct {
	ProblemName        *string     `json:"problemName"`
	ProblemTitle       *string     `json:"problemTitle"`
	Description        *string     `json:"description"`
	ProblemLink        *string     `json:"problemLink"`
	Platform           *Platform   `json:"platform"`
	PlatformDifficulty *Difficulty `json:"platformDifficulty"`
	RealDifficulty     *Difficulty `json:"realDifficulty"`
	TimeTaken          *int        `json:"timeTaken"`
	MainCategory       *Category   `json:"mainCategory"`
	TopicTags          []string    `json:"topicTags"`
	ProblemPattern     *Pattern    `json:"problemPattern"`
	ApproachNotes      *string     `json:"approachNotes"`
	CodeSnippet        *string     `json:"codeSnippet"`
	Status             *Status     `json:"status"`
	IsFavorite         *bool       `json:"isFavorite"`
}

type MarkRevisedRequest struct {
	TimeTaken int    `json:"timeTaken"`
	Notes     string `json:"notes"`
}

type RescheduleRequest struct {
	RevisionDate string `json:"revisionDate"`
}

type Pagination struct {
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

type ProblemList struct {
	Problems   []Problem  `json:"problems"`
	Pagination Pagination `json:"pagination"`
}
