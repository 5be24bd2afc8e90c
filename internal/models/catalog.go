package models

import "time"

// AreaOfStudy is an academic department or subject grouping.
type AreaOfStudy struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
}

// Course is a numbered course within an area of study.
type Course struct {
	ID            string `db:"id" json:"id"`
	AreaOfStudyID string `db:"area_of_study_id" json:"areaOfStudyID"`
	Number        string `db:"number" json:"number"`
	Title         string `db:"title" json:"title,omitempty"`

	AreaOfStudy *AreaOfStudy `db:"-" json:"areaOfStudy,omitempty"`
	Professors  []Professor  `db:"-" json:"professors,omitempty"`
}

// Professor is a reviewable member of the faculty.
type Professor struct {
	ID            string  `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	Title         string  `db:"title" json:"title,omitempty"`
	AreaOfStudyID *string `db:"area_of_study_id" json:"areaOfStudyID,omitempty"`

	Ratings *ProfessorRatings `db:"-" json:"ratings,omitempty"`
}

// ProfessorRatings holds the averages derived from every survey about a professor.
type ProfessorRatings struct {
	ProfessorID           string    `db:"professor_id" json:"professorID"`
	SurveyCount           int       `db:"survey_count" json:"surveyCount"`
	AvgCourseWorkload     *float64  `db:"avg_course_workload" json:"avgCourseWorkload,omitempty"`
	AvgApproachability    *float64  `db:"avg_approachability" json:"avgApproachability,omitempty"`
	AvgLeadLecture        *float64  `db:"avg_lead_lecture" json:"avgLeadLecture,omitempty"`
	AvgPromoteDiscussion  *float64  `db:"avg_promote_discussion" json:"avgPromoteDiscussion,omitempty"`
	AvgOutsideHelpfulness *float64  `db:"avg_outside_helpfulness" json:"avgOutsideHelpfulness,omitempty"`
	WouldRecommendPct     *float64  `db:"would_recommend_pct" json:"wouldRecommendPct,omitempty"`
	WouldTakeAnotherPct   *float64  `db:"would_take_another_pct" json:"wouldTakeAnotherPct,omitempty"`
	UpdatedTime           time.Time `db:"updated_at" json:"updatedTime"`
}

// ProfessorFilter selects professors for listing.
type ProfessorFilter struct {
	AreaOfStudyID string
	CourseID      string
	Query         string
	Limit         int
	Offset        int
}

// CoursePreload lists the relations a course listing may embed.
type CoursePreload struct {
	AreaOfStudy bool
	Professors  bool
}

// CourseFilter selects courses for listing.
type CourseFilter struct {
	AreaOfStudyID string
	Query         string
	Limit         int
	Offset        int
	Preload       CoursePreload
}

// Tag is a free-form label used across the platform.
type Tag struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
