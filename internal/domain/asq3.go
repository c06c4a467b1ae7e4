package domain

import "time"

// Answer values.
const (
	AnswerYes       = "yes"
	AnswerSometimes = "sometimes"
	AnswerNo        = "no"
)

// Screening statuses.
const (
	ScreeningInProgress = "in_progress"
	ScreeningCompleted  = "completed"
	ScreeningCancelled  = "cancelled"
)

// Classification of a domain score, and of a screening overall.
const (
	ResultSesuai       = "sesuai"        // on track
	ResultPantau       = "pantau"        // monitor
	ResultPerluRujukan = "perlu_rujukan" // refer
)

// Asq3Domain is one of the five developmental areas.
type Asq3Domain struct {
	ID           int64   `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	DisplayOrder int     `json:"display_order"`
}

// Asq3AgeInterval is a questionnaire age window in days.
type Asq3AgeInterval struct {
	ID         int64  `json:"id"`
	AgeMonths  int    `json:"age_months"`
	AgeLabel   string `json:"age_label"`
	MinAgeDays int    `json:"min_age_days"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Contains reports whether ageDays falls inside the interval (inclusive).
func (a *Asq3AgeInterval) Contains(ageDays int) bool {
	return ageDays >= a.MinAgeDays && ageDays <= a.MaxAgeDays
}

// Asq3CutoffScore holds the thresholds for one interval × domain.
type Asq3CutoffScore struct {
	ID              int64   `json:"id"`
	AgeIntervalID   int64   `json:"age_interval_id"`
	DomainID        int64   `json:"domain_id"`
	CutoffScore     float64 `json:"cutoff_score"`
	MonitoringScore float64 `json:"monitoring_score"`
	MaxScore        float64 `json:"max_score"`
}

// Asq3Question is one item of the question bank.
type Asq3Question struct {
	ID             int64   `json:"id"`
	AgeIntervalID  int64   `json:"age_interval_id"`
	DomainID       int64   `json:"domain_id"`
	DomainCode     string  `json:"domain_code,omitempty"`
	QuestionNumber int     `json:"question_number"`
	QuestionText   string  `json:"question_text"`
	HintText       *string `json:"hint_text"`
	ImageURL       *string `json:"image_url"`
	ScoreYes       int     `json:"score_yes"`
	ScoreSometimes int     `json:"score_sometimes"`
	ScoreNo        int     `json:"score_no"`
	DisplayOrder   int     `json:"display_order"`
}

// Asq3Screening is one questionnaire attempt for a child.
type Asq3Screening struct {
	ID                   int64      `json:"id"`
	ChildID              int64      `json:"child_id"`
	AgeIntervalID        int64      `json:"age_interval_id"`
	ScreeningDate        time.Time  `json:"screening_date"`
	AgeAtScreeningMonths int        `json:"age_at_screening_months"`
	AgeAtScreeningDays   int        `json:"age_at_screening_days"`
	Status               string     `json:"status"`
	CompletedAt          *time.Time `json:"completed_at"`
	OverallStatus        *string    `json:"overall_status"`
	Notes                *string    `json:"notes"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Joined columns for listings.
	ChildName  string `json:"child_name,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
	AgeLabel   string `json:"age_label,omitempty"`
}

func (s *Asq3Screening) IsCompleted() bool { return s.Status == ScreeningCompleted }

// Asq3Answer is the answer to one question of a screening.
type Asq3Answer struct {
	ID          int64     `json:"id"`
	ScreeningID int64     `json:"screening_id"`
	QuestionID  int64     `json:"question_id"`
	DomainID    int64     `json:"domain_id"`
	Answer      string    `json:"answer"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}

// Asq3Result is the scored classification of one domain of a screening.
type Asq3Result struct {
	ID              int64     `json:"id"`
	ScreeningID     int64     `json:"screening_id"`
	DomainID        int64     `json:"domain_id"`
	DomainCode      string    `json:"domain_code,omitempty"`
	DomainName      string    `json:"domain_name,omitempty"`
	TotalScore      float64   `json:"total_score"`
	CutoffScore     float64   `json:"cutoff_score"`
	MonitoringScore float64   `json:"monitoring_score"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Asq3Recommendation is stimulation advice for a domain, optionally per interval.
type Asq3Recommendation struct {
	ID                 int64  `json:"id"`
	DomainID           int64  `json:"domain_id"`
	DomainCode         string `json:"domain_code,omitempty"`
	AgeIntervalID      *int64 `json:"age_interval_id"`
	RecommendationText string `json:"recommendation_text"`
	Priority           int    `json:"priority"`
}

// Intervention types and statuses.
const (
	InterventionStimulation = "stimulation"
	InterventionReferral    = "referral"
	InterventionFollowUp    = "follow_up"
	InterventionCounseling  = "counseling"
	InterventionOther       = "other"

	InterventionPlanned    = "planned"
	InterventionInProgress = "in_progress"
	InterventionCompleted  = "completed"
	InterventionCancelled  = "cancelled"
)

// Intervention is a follow-up action recorded by a nakes for a screening.
type Intervention struct {
	ID           int64      `json:"id"`
	ScreeningID  int64      `json:"screening_id"`
	DomainID     *int64     `json:"domain_id"`
	DomainCode   *string    `json:"domain_code"`
	DomainName   *string    `json:"domain_name"`
	Type         string     `json:"type"`
	Action       string     `json:"action"`
	Notes        *string    `json:"notes"`
	Status       string     `json:"status"`
	FollowUpDate *time.Time `json:"follow_up_date"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedBy    *int64     `json:"created_by"`
	CreatorName  *string    `json:"creator_name"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
